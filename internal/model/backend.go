package model

import (
	"context"
	"io"
)

// AuthBackend is the authentication part of the portal API.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Profile(ctx context.Context, token string) (UserIdentity, error)
}

// ScanBackend is the scan part of the portal API.
type ScanBackend interface {
	ListScans(ctx context.Context, token string) ([]ScanRecord, error)
	UploadScan(ctx context.Context, token string, submission UploadSubmission) error
	DownloadPDF(ctx context.Context, token, scanID string) (io.ReadCloser, error)
}
