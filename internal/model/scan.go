package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Region is the dental region a scan covers.
type Region string

const (
	RegionFrontal   Region = "Frontal"
	RegionUpperArch Region = "Upper Arch"
	RegionLowerArch Region = "Lower Arch"
)

// Regions lists every selectable region in display order.
var Regions = []Region{RegionFrontal, RegionUpperArch, RegionLowerArch}

// Valid reports whether r is a known region.
func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// ScanRecord is a scan as served by the backend. The client only reads it.
type ScanRecord struct {
	ID           string    `json:"id"`
	PatientName  string    `json:"patientName"`
	PatientID    string    `json:"patientId"`
	ScanType     string    `json:"scanType"`
	Region       Region    `json:"region"`
	UploadDate   time.Time `json:"uploadDate"`
	UploadedBy   string    `json:"uploadedBy"`
	ImageURL     string    `json:"imageUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
}

// UnmarshalJSON accepts uploadedBy either as a plain name or as a user object.
func (r *ScanRecord) UnmarshalJSON(data []byte) error {
	type plain ScanRecord
	var raw struct {
		plain
		UploadedBy json.RawMessage `json:"uploadedBy"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = ScanRecord(raw.plain)
	r.UploadedBy = ""

	if len(raw.UploadedBy) == 0 || string(raw.UploadedBy) == "null" {
		return nil
	}

	var name string
	if err := json.Unmarshal(raw.UploadedBy, &name); err == nil {
		r.UploadedBy = name
		return nil
	}

	var user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw.UploadedBy, &user); err != nil {
		return fmt.Errorf("failed to decode uploadedBy: %w", err)
	}
	r.UploadedBy = user.Name
	if r.UploadedBy == "" {
		r.UploadedBy = user.Email
	}

	return nil
}

// ScanCollection is one fetched copy of the scan list.
// Version changes every time the collection is replaced.
type ScanCollection struct {
	Records []ScanRecord
	Version uint64
}

// AggregateView holds dashboard statistics derived from a scan collection.
type AggregateView struct {
	TotalCount         int
	UniquePatientCount int
	CurrentMonthCount  int
	RecentFive         []ScanRecord
}

// ScanFilter narrows a scan list.
type ScanFilter struct {
	SearchTerm string
	Region     Region
}
