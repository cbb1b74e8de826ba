package portal

import (
	"context"
	"strconv"
	"time"

	"github.com/dtroode/scanportal-client/internal/gate"
	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/scans"
)

// StatCard is one figure on the dashboard.
type StatCard struct {
	Name  string
	Value string
}

// Activity is one line of recent activity.
type Activity struct {
	ScanID      string
	PatientName string
	PatientID   string
	Summary     string
	When        string
}

// DashboardScreen is everything the dashboard shows.
type DashboardScreen struct {
	Greeting     string
	UserName     string
	Role         model.Role
	Stats        []StatCard
	Recent       []Activity
	EmptyHint    string
	QuickActions []gate.QuickAction
	Navigation   []gate.NavItem
	Notice       *Notice
}

// Greeting returns the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// StatCards lays out the dashboard figures of view.
func StatCards(view model.AggregateView) []StatCard {
	return []StatCard{
		{Name: "Total Scans", Value: strconv.Itoa(view.TotalCount)},
		{Name: "Active Patients", Value: strconv.Itoa(view.UniquePatientCount)},
		{Name: "This Month", Value: strconv.Itoa(view.CurrentMonthCount)},
		{Name: "Success Rate", Value: "100%"},
	}
}

// Dashboard refreshes the scans and builds the dashboard. A failed fetch still
// yields a screen built from the last known scans, with a notice.
func (p *Portal) Dashboard(ctx context.Context) (DashboardScreen, error) {
	s, err := p.guard(gate.RouteDashboard)
	if err != nil {
		return DashboardScreen{}, err
	}

	collection, err := p.RefreshScans(ctx)
	notice := errorNotice(err, "Failed to load scans")
	return p.dashboardScreen(s, collection, notice), nil
}

func (p *Portal) dashboardScreen(s model.Session, c model.ScanCollection, notice *Notice) DashboardScreen {
	now := p.now()
	view := p.aggregator.View(c, now)

	screen := DashboardScreen{
		Greeting:     Greeting(now),
		UserName:     s.User.Name,
		Role:         s.User.Role,
		Stats:        StatCards(view),
		Recent:       make([]Activity, 0, len(view.RecentFive)),
		QuickActions: gate.QuickActions(s),
		Navigation:   gate.Navigation(s, gate.RouteDashboard),
		Notice:       notice,
	}

	for _, r := range view.RecentFive {
		screen.Recent = append(screen.Recent, Activity{
			ScanID:      r.ID,
			PatientName: r.PatientName,
			PatientID:   r.PatientID,
			Summary:     "Scan uploaded for " + r.PatientName,
			When:        scans.TimeAgo(r.UploadDate, now),
		})
	}

	if len(screen.Recent) == 0 {
		if s.IsTechnician() {
			screen.EmptyHint = "Upload your first scan to see activity here."
		} else {
			screen.EmptyHint = "No scans have been uploaded yet."
		}
	}

	return screen
}
