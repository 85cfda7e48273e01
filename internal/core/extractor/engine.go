package extractor

import (
	"context"
	"fmt"
)

// Engine resolves a URL into a raw info dump without downloading anything
type Engine interface {
	// Name returns the engine name (e.g., "yt-dlp")
	Name() string

	// Extract fetches metadata and stream descriptors for url
	Extract(ctx context.Context, url string) (*RawInfo, error)
}

// ExtractionError means the engine itself failed for a URL: network errors,
// unsupported sites, private or removed content.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("Failed to extract info from %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ProcessingError means the engine answered but its output could not be used
type ProcessingError struct {
	URL string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("Error processing %s: %v", e.URL, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
