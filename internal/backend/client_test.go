package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/testutil"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 5*time.Second, nil, testutil.MakeNoopLogger())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tech@clinic.test", body["email"])
		assert.Equal(t, "pw", body["password"])

		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"name": "Tess", "role": "technician"},
		})
	})

	resp, err := c.Login(context.Background(), "tech@clinic.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, model.UserIdentity{Name: "Tess", Role: model.RoleTechnician}, resp.User)
}

func TestClient_Login_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})

	_, err := c.Login(context.Background(), "x", "y")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", model.UserMessage(err, "Login failed"))
}

func TestClient_Login_EmptyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"name": "x", "role": "dentist"}})
	})

	_, err := c.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Equal(t, "Login failed", model.UserMessage(err, "Login failed"))
}

func TestClient_Profile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/profile", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"name": "Dr. Dee", "role": "dentist"}})
	})

	user, err := c.Profile(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDentist, user.Role)

	_, err = c.Profile(context.Background(), "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestClient_ListScans(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scans", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"scans":[
			{"id":"1","patientName":"Ann","patientId":"P-1","scanType":"Panoramic","region":"Upper Arch",
			 "uploadDate":"2026-10-01T09:30:00.000Z","uploadedBy":{"name":"Tess","email":"t@x"},
			 "imageUrl":"https://img/1.jpg","thumbnailUrl":"https://img/1_t.jpg"},
			{"id":"2","patientName":"Bob","patientId":"P-2","scanType":"Bitewing","region":"Frontal",
			 "uploadDate":"2026-09-15T12:00:00Z","uploadedBy":"Tom"}
		]}`))
	})

	scans, err := c.ListScans(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "Tess", scans[0].UploadedBy)
	assert.Equal(t, model.RegionUpperArch, scans[0].Region)
	assert.Equal(t, time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC), scans[0].UploadDate.UTC())
	assert.Equal(t, "Tom", scans[1].UploadedBy)
}

func TestClient_ListScans_EmptyIsNotNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	scans, err := c.ListScans(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, scans)
	assert.Empty(t, scans)
}

func TestClient_UploadScan(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scans/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Ann Lee", r.FormValue("patientName"))
		assert.Equal(t, "P-001", r.FormValue("patientId"))
		assert.Equal(t, "Panoramic", r.FormValue("scanType"))
		assert.Equal(t, "Lower Arch", r.FormValue("region"))

		f, hdr, err := r.FormFile("scanImage")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "scan.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		assert.Equal(t, []byte("png-bytes"), data)

		writeJSON(w, http.StatusCreated, map[string]string{"message": "ok"})
	})

	err := c.UploadScan(context.Background(), "tok", model.UploadSubmission{
		Fields: model.UploadFields{PatientName: "Ann Lee", PatientID: "P-001", ScanType: "Panoramic", Region: model.RegionLowerArch},
		File:   model.SelectedFile{Name: "scan.png", ContentType: "image/png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
}

func TestClient_UploadScan_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Patient ID already exists"})
	})

	err := c.UploadScan(context.Background(), "tok", model.UploadSubmission{
		File: model.SelectedFile{Name: "a.jpg", Data: []byte{1}},
	})
	require.Error(t, err)
	assert.Equal(t, "Patient ID already exists", model.UserMessage(err, "Upload failed"))
}

func TestClient_DownloadPDF(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/scans/missing/pdf" {
			http.Error(w, "no such scan", http.StatusNotFound)
			return
		}
		assert.Equal(t, "/api/scans/abc/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	rc, err := c.DownloadPDF(context.Background(), "tok", "abc")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = c.DownloadPDF(context.Background(), "tok", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, "no such scan", model.UserMessage(err, ""))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil, testutil.MakeNoopLogger())
	_, err := c.ListScans(context.Background(), "tok")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "fallback", model.UserMessage(err, "fallback"))
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]any{"scans": []any{}})
	}))
	defer srv.Close()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := NewClient(srv.URL, time.Second, limiter, testutil.MakeNoopLogger())

	_, err := c.ListScans(context.Background(), "tok")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ListScans(ctx, "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	assert.Equal(t, 1, calls)
}
