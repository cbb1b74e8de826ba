package backend

import (
	"net/http"
	"time"

	"github.com/dtroode/scanportal-client/internal/logger"
)

// loggingTransport logs method, path, request id, duration and status of
// every request sent through it.
type loggingTransport struct {
	next   http.RoundTripper
	logger *logger.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *logger.Logger) *loggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := req.Header.Get(RequestIDHeader)

	t.logger.Debug("Backend: request started",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID)

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Warn("Backend: request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestID,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error())
		return nil, err
	}

	t.logger.Debug("Backend: request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID,
		"duration_ms", duration.Milliseconds(),
		"status", resp.StatusCode)

	return resp, nil
}
