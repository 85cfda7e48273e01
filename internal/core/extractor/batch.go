package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Batch runs a list of URLs through an Engine and assembles one response.
// A failing URL never aborts the others.
type Batch struct {
	engine        Engine
	maxConcurrent int
	logger        *zap.Logger
}

// NewBatch creates a batch runner. maxConcurrent <= 1 processes URLs one at a time.
func NewBatch(engine Engine, maxConcurrent int, logger *zap.Logger) *Batch {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{
		engine:        engine,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

type urlResult struct {
	items []VideoInfo
	err   error
}

// Run extracts every URL. Items appear grouped by input URL in input order,
// playlist entries in playlist order. Each failed URL adds exactly one error.
func (b *Batch) Run(ctx context.Context, urls []string) *ExtractResponse {
	results := make([]urlResult, len(urls))

	if b.maxConcurrent == 1 || len(urls) < 2 {
		for i, u := range urls {
			results[i] = b.extractOne(ctx, u)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(b.maxConcurrent)
		for i, u := range urls {
			i, u := i, u
			g.Go(func() error {
				results[i] = b.extractOne(ctx, u)
				return nil
			})
		}
		_ = g.Wait()
	}

	data := []VideoInfo{}
	errs := []string{}
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err.Error())
			continue
		}
		data = append(data, r.items...)
	}

	return NewExtractResponse(data, errs)
}

func (b *Batch) extractOne(ctx context.Context, url string) (res urlResult) {
	start := time.Now()
	log := b.logger.With(zap.String("url", url), zap.String("engine", b.engine.Name()))
	log.Debug("extracting")

	defer func() {
		if r := recover(); r != nil {
			res = urlResult{err: &ProcessingError{URL: url, Err: fmt.Errorf("%v", r)}}
		}
		if res.err != nil {
			log.Warn("extraction failed", zap.Error(res.err), zap.Duration("took", time.Since(start)))
			return
		}
		log.Debug("extracted", zap.Int("items", len(res.items)), zap.Duration("took", time.Since(start)))
	}()

	raw, err := b.engine.Extract(ctx, url)
	if err != nil {
		return urlResult{err: classifyError(url, err)}
	}
	if raw == nil {
		return urlResult{err: &ProcessingError{URL: url, Err: errors.New("empty result")}}
	}

	return urlResult{items: Normalize(raw)}
}

// classifyError keeps engine failures as they are and wraps anything else as
// a processing failure for url.
func classifyError(url string, err error) error {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr
	}
	var processingErr *ProcessingError
	if errors.As(err, &processingErr) {
		return processingErr
	}
	return &ProcessingError{URL: url, Err: err}
}
