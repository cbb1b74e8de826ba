package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/scanportal-client/internal/model"
)

// fakeObjects is an in-memory objectAPI.
type fakeObjects struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string

	bucketExistsErr error
	makeBucketErr   error
	putErr          error
	getErr          error
	removeErr       error
	statErr         error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeObjects) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], f.bucketExistsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	if f.makeBucketErr != nil {
		return f.makeBucketErr
	}
	f.buckets[bucket] = true
	return nil
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, name string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.objects[bucket+"/"+name] = data
	f.types[bucket+"/"+name] = opts.ContentType
	return minioLib.UploadInfo{Bucket: bucket, Key: name, Size: int64(len(data))}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, bucket, name string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return io.NopCloser(bytes.NewReader(f.objects[bucket+"/"+name])), nil
}

func (f *fakeObjects) RemoveObject(_ context.Context, bucket, name string, _ minioLib.RemoveObjectOptions) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, bucket+"/"+name)
	return nil
}

func (f *fakeObjects) StatObject(_ context.Context, bucket, name string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	if f.statErr != nil {
		return minioLib.ObjectInfo{}, f.statErr
	}
	data, ok := f.objects[bucket+"/"+name]
	if !ok {
		return minioLib.ObjectInfo{}, minioLib.ErrorResponse{Code: "NoSuchKey"}
	}
	return minioLib.ObjectInfo{Key: name, Size: int64(len(data))}, nil
}

func newTestClient(t *testing.T, api *fakeObjects) *Client {
	t.Helper()
	c, err := NewClientWithAPI(context.Background(), api, "reports", "pdf/")
	require.NoError(t, err)
	return c
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := newFakeObjects()
		api.buckets["reports"] = true
		c, err := NewClientWithAPI(ctx, api, "reports", "")
		require.NoError(t, err)
		assert.Equal(t, "reports", c.bucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		api := newFakeObjects()
		_, err := NewClientWithAPI(ctx, api, "reports", "")
		require.NoError(t, err)
		assert.True(t, api.buckets["reports"])
	})

	t.Run("bucket check error", func(t *testing.T) {
		api := newFakeObjects()
		api.bucketExistsErr = errors.New("boom")
		c, err := NewClientWithAPI(ctx, api, "reports", "")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("make bucket error", func(t *testing.T) {
		api := newFakeObjects()
		api.makeBucketErr = errors.New("denied")
		c, err := NewClientWithAPI(ctx, api, "reports", "")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to create bucket")
	})
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjects()
	c := newTestClient(t, api)

	require.NoError(t, c.Upload(ctx, "scan-42.pdf", bytes.NewReader([]byte("%PDF-1.4"))))
	assert.Equal(t, "application/pdf", api.types["reports/pdf/scan-42.pdf"])

	ok, err := c.Exists(ctx, "scan-42.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := c.Download(ctx, "scan-42.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, c.Delete(ctx, "scan-42.pdf"))
	ok, err = c.Exists(ctx, "scan-42.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown extension", func(t *testing.T) {
		api := newFakeObjects()
		c := newTestClient(t, api)
		require.NoError(t, c.Upload(ctx, "blob", bytes.NewReader([]byte("x"))))
		assert.Equal(t, "application/octet-stream", api.types["reports/pdf/blob"])
	})

	t.Run("error", func(t *testing.T) {
		api := newFakeObjects()
		c := newTestClient(t, api)
		api.putErr = errors.New("put-fail")
		err := c.Upload(ctx, "scan-1.pdf", bytes.NewReader([]byte("data")))
		assert.ErrorContains(t, err, "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		c := newTestClient(t, newFakeObjects())
		rc, err := c.Download(ctx, "scan-404.pdf")
		assert.Nil(t, rc)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("stat error", func(t *testing.T) {
		api := newFakeObjects()
		c := newTestClient(t, api)
		api.statErr = errors.New("stat-fail")
		_, err := c.Download(ctx, "scan-1.pdf")
		assert.ErrorContains(t, err, "failed to stat object")
	})

	t.Run("get error", func(t *testing.T) {
		api := newFakeObjects()
		c := newTestClient(t, api)
		api.objects["reports/pdf/scan-1.pdf"] = []byte("x")
		api.getErr = errors.New("get-fail")
		rc, err := c.Download(ctx, "scan-1.pdf")
		assert.Nil(t, rc)
		assert.ErrorContains(t, err, "failed to get object")
	})
}

func TestClient_Delete_Error(t *testing.T) {
	api := newFakeObjects()
	c := newTestClient(t, api)
	api.removeErr = errors.New("remove-fail")

	err := c.Delete(context.Background(), "scan-1.pdf")

	assert.ErrorContains(t, err, "failed to delete object")
}

func TestClient_Exists_Error(t *testing.T) {
	api := newFakeObjects()
	c := newTestClient(t, api)
	api.statErr = errors.New("stat-fail")

	ok, err := c.Exists(context.Background(), "scan-1.pdf")

	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to stat object")
}
