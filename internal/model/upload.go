package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest scan image accepted for upload.
const MaxUploadSize = 10 * 1024 * 1024

var (
	ErrInvalidFormat = errors.New("please select an image file (JPG, PNG)")
	ErrTooLarge      = errors.New("file size must be less than 10MB")
	ErrMissingFile   = errors.New("please select a scan image")
)

// SelectedFile is a scan image picked for upload.
type SelectedFile struct {
	ID          uuid.UUID
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadFields is the patient metadata attached to a scan upload.
type UploadFields struct {
	PatientName string
	PatientID   string
	ScanType    string
	Region      Region
}

// UploadDraft is the in-progress upload kept between file selection and submission.
type UploadDraft struct {
	UploadFields
	File           *SelectedFile
	PreviewDataURI string
}

// UploadSubmission is the validated unit sent to the backend.
type UploadSubmission struct {
	Fields UploadFields
	File   SelectedFile
}

// MissingFieldError reports a required upload field that is absent or too short.
type MissingFieldError struct {
	Field   string
	Message string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field error of one submission attempt.
type ValidationErrors []*MissingFieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Field returns the error for the named field, if any.
func (v ValidationErrors) Field(name string) (*MissingFieldError, bool) {
	for _, e := range v {
		if e.Field == name {
			return e, true
		}
	}
	return nil, false
}

// SubmitError is a backend rejection of an upload.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

// UserMessage returns the message shown to the user.
func (e *SubmitError) UserMessage() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
