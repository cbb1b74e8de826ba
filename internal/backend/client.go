package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dtroode/scanportal-client/internal/logger"
	"github.com/dtroode/scanportal-client/internal/model"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

var (
	_ model.AuthBackend = (*Client)(nil)
	_ model.ScanBackend = (*Client)(nil)
)

// Client talks to the portal REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewClient creates a portal API client. A nil limiter disables client-side throttling.
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newLoggingTransport(http.DefaultTransport, logger),
		},
		limiter:    limiter,
		logger:     logger,
	}
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("failed to marshal login request: %w", err)
	}

	var resp model.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", bytes.NewReader(body), "application/json", &resp); err != nil {
		return model.LoginResponse{}, err
	}
	if resp.Token == "" {
		return model.LoginResponse{}, fmt.Errorf("login response has no token")
	}

	return resp, nil
}

// Profile returns the user the token belongs to.
func (c *Client) Profile(ctx context.Context, token string) (model.UserIdentity, error) {
	var resp struct {
		User model.UserIdentity `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", token, nil, "", &resp); err != nil {
		return model.UserIdentity{}, err
	}
	return resp.User, nil
}

// ListScans returns every scan visible to the token holder.
func (c *Client) ListScans(ctx context.Context, token string) ([]model.ScanRecord, error) {
	var resp struct {
		Scans []model.ScanRecord `json:"scans"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/scans", token, nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Scans == nil {
		resp.Scans = []model.ScanRecord{}
	}
	return resp.Scans, nil
}

// UploadScan sends patient metadata and the scan image as one multipart request.
func (c *Client) UploadScan(ctx context.Context, token string, submission model.UploadSubmission) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"patientName", submission.Fields.PatientName},
		{"patientId", submission.Fields.PatientID},
		{"scanType", submission.Fields.ScanType},
		{"region", string(submission.Fields.Region)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="scanImage"; filename="%s"`, escapeQuotes(submission.File.Name)))
	contentType := submission.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(submission.File.Data); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.doJSON(ctx, http.MethodPost, "/scans/upload", token, &buf, w.FormDataContentType(), nil)
}

// DownloadPDF streams the PDF report of a scan. The caller closes the reader.
func (c *Client) DownloadPDF(ctx context.Context, token, scanID string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, "/scans/"+url.PathEscape(scanID)+"/pdf", token, nil, "")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	resp, err := c.do(ctx, method, path, token, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// do sends the request and returns the response for 2xx statuses only.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}

	return resp, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
