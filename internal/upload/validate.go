package upload

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dtroode/scanportal-client/internal/model"
)

type fieldRule struct {
	field    string
	label    string
	short    string
	minRunes int
	value    func(model.UploadFields) string
}

var fieldRules = []fieldRule{
	{
		field:    "patientName",
		label:    "Patient name",
		short:    "Name",
		minRunes: 2,
		value:    func(f model.UploadFields) string { return f.PatientName },
	},
	{
		field:    "patientId",
		label:    "Patient ID",
		short:    "Patient ID",
		minRunes: 3,
		value:    func(f model.UploadFields) string { return f.PatientID },
	},
	{
		field:    "scanType",
		label:    "Scan type",
		short:    "Scan type",
		minRunes: 2,
		value:    func(f model.UploadFields) string { return f.ScanType },
	},
}

// Validate checks the patient metadata of an upload and returns every problem
// found, or nil. Values are measured after trimming surrounding whitespace.
func Validate(fields model.UploadFields) model.ValidationErrors {
	var errs model.ValidationErrors

	for _, rule := range fieldRules {
		v := strings.TrimSpace(rule.value(fields))
		switch {
		case v == "":
			errs = append(errs, &model.MissingFieldError{
				Field:   rule.field,
				Message: rule.label + " is required",
			})
		case utf8.RuneCountInString(v) < rule.minRunes:
			errs = append(errs, &model.MissingFieldError{
				Field:   rule.field,
				Message: fmt.Sprintf("%s must be at least %d characters", rule.short, rule.minRunes),
			})
		}
	}

	switch {
	case fields.Region == "":
		errs = append(errs, &model.MissingFieldError{Field: "region", Message: "Region is required"})
	case !fields.Region.Valid():
		errs = append(errs, &model.MissingFieldError{
			Field:   "region",
			Message: "Region must be one of " + regionList(),
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func regionList() string {
	names := make([]string, 0, len(model.Regions))
	for _, r := range model.Regions {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}
