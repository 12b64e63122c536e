package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3RawArchive_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretAccessKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKeyID: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3RawArchive(tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestS3RawArchive_ObjectKey(t *testing.T) {
	at := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)

	archive, err := NewS3RawArchive(&config.StorageConfig{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "ocr/2025/03/GRN-20250320-AB12C.json", archive.ObjectKey("GRN-20250320-AB12C", at))

	archive, err = NewS3RawArchive(&config.StorageConfig{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s", Prefix: "/raw/invoices/"})
	require.NoError(t, err)
	assert.Equal(t, "raw/invoices/2025/03/GRN-1.json", archive.ObjectKey("GRN-1", at))
}

// fakeS3 records path-style PUT requests
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	status  int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.objects[r.URL.Path] = body
	f.types[r.URL.Path] = r.Header.Get("Content-Type")
	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

func newFakeS3Archive(t *testing.T, fake *fakeS3) *S3RawArchive {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	archive, err := NewS3RawArchive(&config.StorageConfig{
		Endpoint:        server.URL,
		Bucket:          "invoices",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return archive
}

func TestS3RawArchive_Archive(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	archive := newFakeS3Archive(t, fake)

	payload := []byte(`{"static":{"Invoice No":"INV1"}}`)
	key, err := archive.Archive(context.Background(), "GRN-20250320-AB12C",
		time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC), payload)
	require.NoError(t, err)
	assert.Equal(t, "ocr/2025/03/GRN-20250320-AB12C.json", key)

	path := "/invoices/ocr/2025/03/GRN-20250320-AB12C.json"
	assert.Equal(t, payload, fake.objects[path])
	assert.Equal(t, "application/json", fake.types[path])
}

func TestS3RawArchive_ArchiveErrors(t *testing.T) {
	t.Run("missing grn number", func(t *testing.T) {
		archive := newFakeS3Archive(t, &fakeS3{})
		_, err := archive.Archive(context.Background(), "", time.Now(), nil)
		assert.ErrorContains(t, err, "grn number is required")
	})

	t.Run("rejected upload", func(t *testing.T) {
		archive := newFakeS3Archive(t, &fakeS3{status: http.StatusForbidden})
		_, err := archive.Archive(context.Background(), "GRN-1", time.Now(), []byte("{}"))
		assert.ErrorContains(t, err, "failed to upload raw invoice")
	})
}
