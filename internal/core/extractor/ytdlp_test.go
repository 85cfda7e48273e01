package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeStub creates an executable shell script standing in for yt-dlp
func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestYtdlpEngine_Args(t *testing.T) {
	e := NewYtdlpEngine(YtdlpOptions{})
	got := strings.Join(e.args("https://example.com/v"), " ")
	want := "-J --no-warnings --quiet --skip-download -f best -- https://example.com/v"
	if got != want {
		t.Errorf("args = %q\nwant   %q", got, want)
	}

	e = NewYtdlpEngine(YtdlpOptions{Format: "bv*+ba/b"})
	if !strings.Contains(strings.Join(e.args("u"), " "), "-f bv*+ba/b") {
		t.Error("custom format selector not passed")
	}
}

func TestYtdlpEngine_Extract(t *testing.T) {
	stub := writeStub(t, `cat <<'JSON'
{"title":"Stub Video","duration":10,"formats":[
 {"format_id":"18","ext":"mp4","vcodec":"avc1","acodec":"mp4a","width":640,"height":360,"url":"https://cdn/18"},
 {"format_id":"140","ext":"m4a","vcodec":"none","acodec":"mp4a","abr":129.5,"url":"https://cdn/140"}
]}
JSON`)

	e := NewYtdlpEngine(YtdlpOptions{Binary: stub})
	info, err := e.Extract(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if info.Title == nil || *info.Title != "Stub Video" {
		t.Errorf("title = %v", info.Title)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(info.Formats))
	}
	if info.IsPlaylist() {
		t.Error("single video reported as playlist")
	}
}

func TestYtdlpEngine_ExtractFailure(t *testing.T) {
	stub := writeStub(t, `echo "WARNING: something minor" >&2
echo "ERROR: [generic] Unable to download webpage: HTTP Error 404: Not Found" >&2
exit 1`)

	e := NewYtdlpEngine(YtdlpOptions{Binary: stub})
	_, err := e.Extract(context.Background(), "https://example.com/missing")

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("want *ExtractionError, got %T: %v", err, err)
	}
	want := "Failed to extract info from https://example.com/missing: ERROR: [generic] Unable to download webpage: HTTP Error 404: Not Found"
	if err.Error() != want {
		t.Errorf("error = %q\nwant    %q", err.Error(), want)
	}
}

func TestYtdlpEngine_MissingBinary(t *testing.T) {
	e := NewYtdlpEngine(YtdlpOptions{Binary: filepath.Join(t.TempDir(), "does-not-exist")})
	_, err := e.Extract(context.Background(), "https://example.com/v")

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("want *ExtractionError, got %T: %v", err, err)
	}
	if extractionErr.URL != "https://example.com/v" {
		t.Errorf("url = %q", extractionErr.URL)
	}
}

func TestYtdlpEngine_BadOutput(t *testing.T) {
	stub := writeStub(t, `echo "not json"`)

	e := NewYtdlpEngine(YtdlpOptions{Binary: stub})
	_, err := e.Extract(context.Background(), "https://example.com/v")
	if err == nil {
		t.Fatal("expected an error for unparseable output")
	}
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		t.Error("decode failures should not be reported as extraction failures")
	}
}

func TestYtdlpEngine_Timeout(t *testing.T) {
	stub := writeStub(t, `exec sleep 5`)

	e := NewYtdlpEngine(YtdlpOptions{Binary: stub, Timeout: 100 * time.Millisecond})
	start := time.Now()
	_, err := e.Extract(context.Background(), "https://example.com/slow")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %q, want a timeout message", err.Error())
	}
	if time.Since(start) > 4*time.Second {
		t.Error("timeout did not stop the process")
	}
}

func TestYtdlpEngine_CallerDeadline(t *testing.T) {
	stub := writeStub(t, `exec sleep 5`)

	e := NewYtdlpEngine(YtdlpOptions{Binary: stub})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := e.Extract(ctx, "https://example.com/slow")

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("want *ExtractionError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %q, want the caller's deadline error", err.Error())
	}
	if strings.Contains(err.Error(), "timed out after") {
		t.Errorf("error = %q, engine timeout is not configured", err.Error())
	}
}

func TestEngineMessage(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"empty", "  \n", ""},
		{"last error line wins", "ERROR: first\nWARNING: x\nERROR: second\n", "ERROR: second"},
		{"no error prefix", "Traceback...\nKeyError: 'x'\n", "Traceback...\nKeyError: 'x'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engineMessage(tt.stderr); got != tt.want {
				t.Errorf("engineMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
