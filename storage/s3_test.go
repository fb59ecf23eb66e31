package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noSuchKeyBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>missing.png</Key></Error>`

// fakeBucket answers the handful of path-style S3 calls S3Store makes.
type fakeBucket struct {
	mu      sync.Mutex
	puts    map[string][]byte
	types   map[string]string
	deletes []string
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.puts[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		if r.URL.Path != "/images/report_1.png" {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, noSuchKeyBody)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", "9")
		_, _ = io.WriteString(w, "png-bytes")
	case http.MethodDelete:
		f.deletes = append(f.deletes, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3(t *testing.T) (*S3Store, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{puts: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), S3Options{
		Bucket:          "images",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		EndpointURL:     srv.URL,
	})
	require.NoError(t, err)
	return store, bucket
}

func TestS3StorePutOpenDelete(t *testing.T) {
	store, bucket := newFakeS3(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "report_1.png", bytes.NewReader([]byte("png-bytes")), 9, "image/png"))
	bucket.mu.Lock()
	assert.Contains(t, string(bucket.puts["/images/report_1.png"]), "png-bytes")
	assert.Equal(t, "image/png", bucket.types["/images/report_1.png"])
	bucket.mu.Unlock()

	obj, err := store.Open(ctx, "report_1.png")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(9), obj.Size)

	require.NoError(t, store.Delete(ctx, "report_1.png"))
	bucket.mu.Lock()
	assert.Equal(t, []string{"/images/report_1.png"}, bucket.deletes)
	bucket.mu.Unlock()
}

func TestS3StoreMissingKeyIsNotFound(t *testing.T) {
	store, _ := newFakeS3(t)

	_, err := store.Open(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StoreRejectsBadNamesLocally(t *testing.T) {
	store, bucket := newFakeS3(t)
	ctx := context.Background()

	err := store.Put(ctx, "../escape.png", bytes.NewReader(nil), 0, "image/png")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = store.Open(ctx, "../escape.png")
	assert.ErrorIs(t, err, ErrInvalidName)

	bucket.mu.Lock()
	assert.Empty(t, bucket.puts)
	bucket.mu.Unlock()
}
