package command

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureInfo(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	srv.handle("GET /capture", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{
			"present":     true,
			"transitions": 128,
		})
	})

	ctx := serverContext(srv, nil)
	if err := captureInfo(ctx); err != nil {
		t.Fatalf("captureInfo() error = %v", err)
	}
}

func TestCaptureUpload(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	var gotBody string
	var gotContentType string
	srv.handle("POST /capture", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")
		envelopeResponse(w, http.StatusCreated, map[string]any{
			"transitions":     3,
			"absolute_length": 6,
		})
	})

	path := writeFixture(t, "legacy.ols", legacyFixture)
	ctx := serverContext(srv, nil, path)
	if err := captureUpload(ctx); err != nil {
		t.Fatalf("captureUpload() error = %v", err)
	}

	if gotBody != legacyFixture {
		t.Error("upload body does not match file content")
	}
	if !strings.HasPrefix(gotContentType, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", gotContentType)
	}
}

func TestCaptureUpload_ServerError(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	srv.handle("POST /capture", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusBadRequest, "SC-FILE-4000", "corrupt capture file")
	})

	path := writeFixture(t, "bad.ols", "not a capture")
	ctx := serverContext(srv, nil, path)

	err := captureUpload(ctx)
	if err == nil {
		t.Fatal("captureUpload() should surface server errors")
	}
	if !strings.Contains(err.Error(), "SC-FILE-4000") {
		t.Errorf("error = %v, should carry the server error code", err)
	}
}

func TestCaptureDownload(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	const fileBody = ";Size: 1\n;Compressed: true\n;AbsoluteLength: 4\n000000ff@0\n"
	srv.handle("GET /capture/file", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
		w.Write([]byte(fileBody))
	})

	out := filepath.Join(t.TempDir(), "download.ols")
	ctx := serverContext(srv, nil, out)
	if err := captureDownload(ctx); err != nil {
		t.Fatalf("captureDownload() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != fileBody {
		t.Error("downloaded content does not match server response")
	}
}

func TestCaptureDownload_NoCapture(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	srv.handle("GET /capture/file", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusNotFound, "SC-CAPT-4040", "no capture loaded")
	})

	ctx := serverContext(srv, nil, filepath.Join(t.TempDir(), "out.ols"))
	if err := captureDownload(ctx); err == nil {
		t.Fatal("captureDownload() should fail when no capture is loaded")
	}
}

func TestCaptureData_BuildsQuery(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	var gotQuery string
	srv.handle("GET /capture/data", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		envelopeResponse(w, http.StatusOK, map[string]any{
			"start":      5,
			"end":        15,
			"values":     []uint32{0xff},
			"timestamps": []int64{5},
		})
	})

	sub := CaptureCommand().Subcommands[3]
	ctx := serverContext(srv, sub.Flags, "--start", "5", "--end", "15")
	if err := captureData(ctx); err != nil {
		t.Fatalf("captureData() error = %v", err)
	}

	if gotQuery != "start=5&end=15" {
		t.Errorf("query = %q, want start=5&end=15", gotQuery)
	}
}
