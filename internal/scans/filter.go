package scans

import (
	"strings"

	"github.com/dtroode/scanportal-client/internal/model"
)

// Filter keeps records whose patient name, patient ID or scan type contains
// searchTerm (case-insensitively) and, when region is set, whose region equals it.
// Order is preserved.
func Filter(records []model.ScanRecord, searchTerm string, region model.Region) []model.ScanRecord {
	term := strings.ToLower(searchTerm)

	out := make([]model.ScanRecord, 0, len(records))
	for _, r := range records {
		if region != "" && r.Region != region {
			continue
		}
		if !matches(r, term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Apply is Filter with the criteria bundled in f.
func Apply(records []model.ScanRecord, f model.ScanFilter) []model.ScanRecord {
	return Filter(records, f.SearchTerm, f.Region)
}

func matches(r model.ScanRecord, term string) bool {
	return strings.Contains(strings.ToLower(r.PatientName), term) ||
		strings.Contains(strings.ToLower(r.PatientID), term) ||
		strings.Contains(strings.ToLower(r.ScanType), term)
}

// EmptyMessage explains an empty list: nothing uploaded yet, or nothing matching f.
func EmptyMessage(f model.ScanFilter) string {
	if f.SearchTerm != "" || f.Region != "" {
		return "Try adjusting your search or filter criteria."
	}
	return "No scans have been uploaded yet."
}
