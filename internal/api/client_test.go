package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rsview/rsview/pkg/core"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", "secret123")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.apiKey != "secret123" {
		t.Errorf("expected apiKey=secret123, got %s", c.apiKey)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("expected path /healthcheck, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := New(server.URL, "").Healthcheck(); err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := New(server.URL, "").Healthcheck(); err == nil {
		t.Error("expected error for 500 response")
	}
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cells_20240115_103000.overlay.json")
	if err := os.WriteFile(path, []byte(`{"formatVersion":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpload_Success(t *testing.T) {
	received := map[string]string{}
	var content []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/overlays/add" {
			t.Errorf("expected path /api/v1/overlays/add, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
			return
		}
		for _, k := range []string{"secret", "filename", "runId", "imageName", "tableName", "maxFrames", "markers"} {
			received[k] = r.FormValue(k)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file: %v", err)
			return
		}
		defer file.Close()
		content, _ = io.ReadAll(file)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := writeExport(t)
	err := New(server.URL, "key").Upload(path, core.UploadMetadata{
		RunID:     "run-1",
		ImageName: "cells.tif",
		TableName: "cells.txt",
		MaxFrames: 10,
		Markers:   42,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	want := map[string]string{
		"secret":    "key",
		"filename":  "cells_20240115_103000.overlay.json",
		"runId":     "run-1",
		"imageName": "cells.tif",
		"tableName": "cells.txt",
		"maxFrames": "10",
		"markers":   "42",
	}
	for k, v := range want {
		if received[k] != v {
			t.Errorf("field %s: expected %q, got %q", k, v, received[k])
		}
	}
	if string(content) != `{"formatVersion":1}` {
		t.Errorf("unexpected file content %q", content)
	}
}

func TestUpload_ServerRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if err := New(server.URL, "bad").Upload(writeExport(t), core.UploadMetadata{}); err == nil {
		t.Error("expected error for 403 response")
	}
}

func TestUpload_MissingFile(t *testing.T) {
	c := New("http://localhost:5000", "")
	if err := c.Upload(filepath.Join(t.TempDir(), "missing.json"), core.UploadMetadata{}); err == nil {
		t.Error("expected error for missing file")
	}
}
