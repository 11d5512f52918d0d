package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	appconfig "github.com/shriyashpachpande/medical-imaging-agent/internal/config"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
)

type s3Call struct {
	method      string
	path        string
	contentType string
	body        []byte
}

// fakeS3 answers path-style S3 requests and records them.
type fakeS3 struct {
	mu           sync.Mutex
	calls        []s3Call
	bucketExists bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, s3Call{
		method:      r.Method,
		path:        r.URL.Path,
		contentType: r.Header.Get("Content-Type"),
		body:        body,
	})
	exists := f.bucketExists
	f.mu.Unlock()

	if r.Method == http.MethodHead && !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method == http.MethodPut {
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeS3) recorded() []s3Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]s3Call(nil), f.calls...)
}

func (f *fakeS3) find(method, path string) (s3Call, bool) {
	for _, c := range f.recorded() {
		if c.method == method && c.path == path {
			return c, true
		}
	}
	return s3Call{}, false
}

func newTestS3Repository(t *testing.T, fake *fakeS3, region string) S3Repository {
	t.Helper()

	home := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(home, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(home, "credentials"))
	t.Setenv("AWS_PROFILE", "")

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	repo, err := NewS3Repository(context.Background(), &appconfig.S3Config{
		Enabled:         true,
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "scans",
		Region:          region,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewS3Repository: %v", err)
	}
	return repo
}

func TestNewS3RepositoryCreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{}
	newTestS3Repository(t, fake, "us-east-1")

	if _, ok := fake.find(http.MethodHead, "/scans"); !ok {
		t.Fatalf("expected HEAD /scans, got %+v", fake.recorded())
	}
	create, ok := fake.find(http.MethodPut, "/scans")
	if !ok {
		t.Fatalf("expected PUT /scans, got %+v", fake.recorded())
	}
	if strings.Contains(string(create.body), "LocationConstraint") {
		t.Errorf("us-east-1 must not send a location constraint, got %q", create.body)
	}
}

func TestNewS3RepositoryLocationConstraint(t *testing.T) {
	fake := &fakeS3{}
	newTestS3Repository(t, fake, "eu-west-1")

	create, ok := fake.find(http.MethodPut, "/scans")
	if !ok {
		t.Fatalf("expected PUT /scans, got %+v", fake.recorded())
	}
	if !strings.Contains(string(create.body), "<LocationConstraint>eu-west-1</LocationConstraint>") {
		t.Errorf("expected location constraint in body, got %q", create.body)
	}
}

func TestNewS3RepositoryKeepsExistingBucket(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	newTestS3Repository(t, fake, "us-east-1")

	if _, ok := fake.find(http.MethodPut, "/scans"); ok {
		t.Error("existing bucket must not be created again")
	}
}

func TestS3RepositoryArchive(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	repo := newTestS3Repository(t, fake, "us-east-1")

	content := []byte("\x89PNG pixels")
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := repo.Archive(context.Background(), &domain.StoredImage{
		OriginalName: "scan.png",
		StoredName:   "scan.png",
		Path:         path,
		Size:         int64(len(content)),
	})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	put, ok := fake.find(http.MethodPut, "/scans/uploads/scan.png")
	if !ok {
		t.Fatalf("expected PUT /scans/uploads/scan.png, got %+v", fake.recorded())
	}
	if string(put.body) != string(content) {
		t.Errorf("unexpected body %q", put.body)
	}
	if put.contentType != "image/png" {
		t.Errorf("unexpected content type %q", put.contentType)
	}
}

func TestS3RepositoryArchiveMissingFile(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	repo := newTestS3Repository(t, fake, "us-east-1")

	err := repo.Archive(context.Background(), &domain.StoredImage{
		StoredName: "gone.png",
		Path:       filepath.Join(t.TempDir(), "gone.png"),
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, ok := fake.find(http.MethodPut, "/scans/uploads/gone.png"); ok {
		t.Error("nothing should be uploaded for a missing file")
	}
}
