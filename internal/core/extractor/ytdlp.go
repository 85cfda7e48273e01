package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// waitDelay bounds how long output copying may outlive a killed process
const waitDelay = 2 * time.Second

// YtdlpOptions configures YtdlpEngine
type YtdlpOptions struct {
	Binary  string        // executable name or path, default "yt-dlp"
	Format  string        // -f selector, default "best"
	Timeout time.Duration // 0 means no bound
}

// YtdlpEngine shells out to yt-dlp and reads its single-JSON dump
type YtdlpEngine struct {
	binary  string
	format  string
	timeout time.Duration
}

// NewYtdlpEngine creates an engine, filling unset options with defaults
func NewYtdlpEngine(opts YtdlpOptions) *YtdlpEngine {
	if opts.Binary == "" {
		opts.Binary = "yt-dlp"
	}
	if opts.Format == "" {
		opts.Format = "best"
	}
	return &YtdlpEngine{
		binary:  opts.Binary,
		format:  opts.Format,
		timeout: opts.Timeout,
	}
}

func (e *YtdlpEngine) Name() string {
	return "yt-dlp"
}

// args builds the command line: dump JSON, no download, no chatter
func (e *YtdlpEngine) args(url string) []string {
	return []string{
		"-J",
		"--no-warnings",
		"--quiet",
		"--skip-download",
		"-f", e.format,
		"--", url,
	}
}

// Extract runs yt-dlp once for url. Process failures come back as
// *ExtractionError carrying yt-dlp's own message; unparseable output comes
// back as a plain error.
func (e *YtdlpEngine) Extract(ctx context.Context, url string) (*RawInfo, error) {
	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, e.binary, e.args(url)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// cancelled or expired by the caller, not by our own timeout
			err = ctxErr
		} else if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s timed out after %s", e.Name(), e.timeout)
		} else if msg := engineMessage(stderr.String()); msg != "" {
			err = errors.New(msg)
		}
		return nil, &ExtractionError{URL: url, Err: err}
	}

	var info RawInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", e.Name(), err)
	}
	return &info, nil
}

// engineMessage picks the last "ERROR:" line yt-dlp printed, falling back to
// the whole trimmed stderr.
func engineMessage(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return stderr
}
