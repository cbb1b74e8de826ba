package scans

import (
	"fmt"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// TimeAgo renders how long before now date was, in whole hours, days or weeks.
// Dates less than an hour old, or in the future, are "Just now".
func TimeAgo(date, now time.Time) string {
	elapsed := now.Sub(date)

	switch {
	case elapsed < time.Hour:
		return "Just now"
	case elapsed < day:
		return plural(int(elapsed/time.Hour), "hour")
	case elapsed < week:
		return plural(int(elapsed/day), "day")
	default:
		return plural(int(elapsed/week), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatDate renders an upload date for scan lists, e.g. "Oct 1, 2026, 09:30 AM".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}
