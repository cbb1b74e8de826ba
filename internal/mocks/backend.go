package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/scanportal-client/internal/model"
)

// AuthBackend is a mock type for the model.AuthBackend type.
type AuthBackend struct {
	mock.Mock
}

// Login provides a mock function with given fields: ctx, email, password
func (m *AuthBackend) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.LoginResponse), args.Error(1)
}

// Profile provides a mock function with given fields: ctx, token
func (m *AuthBackend) Profile(ctx context.Context, token string) (model.UserIdentity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.UserIdentity), args.Error(1)
}

// ScanBackend is a mock type for the model.ScanBackend type.
type ScanBackend struct {
	mock.Mock
}

// ListScans provides a mock function with given fields: ctx, token
func (m *ScanBackend) ListScans(ctx context.Context, token string) ([]model.ScanRecord, error) {
	args := m.Called(ctx, token)
	scans, _ := args.Get(0).([]model.ScanRecord)
	return scans, args.Error(1)
}

// UploadScan provides a mock function with given fields: ctx, token, submission
func (m *ScanBackend) UploadScan(ctx context.Context, token string, submission model.UploadSubmission) error {
	args := m.Called(ctx, token, submission)
	return args.Error(0)
}

// DownloadPDF provides a mock function with given fields: ctx, token, scanID
func (m *ScanBackend) DownloadPDF(ctx context.Context, token, scanID string) (io.ReadCloser, error) {
	args := m.Called(ctx, token, scanID)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}
