// Package scans derives dashboard statistics and list views from fetched scan records.
package scans

import (
	"slices"
	"time"

	"github.com/dtroode/scanportal-client/internal/model"
)

// RecentLimit is how many scans the dashboard lists as recent activity.
const RecentLimit = 5

// Aggregate computes the dashboard view of records as of now. The input is not modified.
func Aggregate(records []model.ScanRecord, now time.Time) model.AggregateView {
	patients := make(map[string]struct{}, len(records))
	year, month, _ := now.Date()
	loc := now.Location()

	thisMonth := 0
	for _, r := range records {
		patients[r.PatientID] = struct{}{}

		y, m, _ := r.UploadDate.In(loc).Date()
		if y == year && m == month {
			thisMonth++
		}
	}

	return model.AggregateView{
		TotalCount:         len(records),
		UniquePatientCount: len(patients),
		CurrentMonthCount:  thisMonth,
		RecentFive:         Recent(records, RecentLimit),
	}
}

// Recent returns up to n records, newest upload first. Records uploaded at the
// same instant keep their fetch order.
func Recent(records []model.ScanRecord, n int) []model.ScanRecord {
	sorted := make([]model.ScanRecord, len(records))
	copy(sorted, records)

	slices.SortStableFunc(sorted, func(a, b model.ScanRecord) int {
		return b.UploadDate.Compare(a.UploadDate)
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n:n]
	}
	return sorted
}
