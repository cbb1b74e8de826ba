package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/scanportal-client/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		fields model.UploadFields
		want   map[string]string
	}{
		{
			name:   "valid",
			fields: validFields,
		},
		{
			name: "minimum lengths",
			fields: model.UploadFields{
				PatientName: "Al",
				PatientID:   "P01",
				ScanType:    "CT",
				Region:      model.RegionLowerArch,
			},
		},
		{
			name:   "all missing",
			fields: model.UploadFields{},
			want: map[string]string{
				"patientName": "Patient name is required",
				"patientId":   "Patient ID is required",
				"scanType":    "Scan type is required",
				"region":      "Region is required",
			},
		},
		{
			name: "too short",
			fields: model.UploadFields{
				PatientName: "A",
				PatientID:   "P1",
				ScanType:    "X",
				Region:      model.RegionFrontal,
			},
			want: map[string]string{
				"patientName": "Name must be at least 2 characters",
				"patientId":   "Patient ID must be at least 3 characters",
				"scanType":    "Scan type must be at least 2 characters",
			},
		},
		{
			name: "whitespace only",
			fields: model.UploadFields{
				PatientName: "   ",
				PatientID:   " P1 ",
				ScanType:    "CT",
				Region:      model.RegionFrontal,
			},
			want: map[string]string{
				"patientName": "Patient name is required",
				"patientId":   "Patient ID must be at least 3 characters",
			},
		},
		{
			name: "multibyte counted as runes",
			fields: model.UploadFields{
				PatientName: "Ló",
				PatientID:   "ÄÖÜ",
				ScanType:    "CT",
				Region:      model.RegionFrontal,
			},
		},
		{
			name: "unknown region",
			fields: model.UploadFields{
				PatientName: "Jane",
				PatientID:   "P-1",
				ScanType:    "CT",
				Region:      "upper arch",
			},
			want: map[string]string{
				"region": "Region must be one of Frontal, Upper Arch, Lower Arch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.fields)

			if len(tt.want) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.want))
			for field, msg := range tt.want {
				fe, ok := errs.Field(field)
				require.True(t, ok, field)
				assert.Equal(t, msg, fe.Message)
			}
		})
	}
}
