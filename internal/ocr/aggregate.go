package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// FailureMarker replaces the text of a page whose recognition failed.
const FailureMarker = "[OCR recognition failed]"

const DefaultPageConcurrency = 4

var ErrNoPages = errors.New("ocr: no pages to recognize")

// TextRecognizer turns one image into text.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

// PageText is the outcome for a single page. Index starts at 1.
type PageText struct {
	Index  int
	Text   string
	Failed bool
	Err    error
}

type AggregatorConfig struct {
	Concurrency  int // pages recognised at once, default 4
	MaxImageSide int // default 800
	JPEGQuality  int // default 85
	MaxPixels    int // decoded size limit, default DefaultMaxImagePixels
	// SkipPrepare hands page bytes to the recogniser untouched.
	SkipPrepare bool
}

// Aggregator recognises the pages of a document independently and stitches the results back
// together in page order.
type Aggregator struct {
	rec    TextRecognizer
	cfg    AggregatorConfig
	logger *slog.Logger
}

func NewAggregator(rec TextRecognizer, cfg AggregatorConfig, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultPageConcurrency
	}
	if cfg.MaxImageSide <= 0 {
		cfg.MaxImageSide = DefaultMaxImageSide
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxImagePixels
	}
	return &Aggregator{rec: rec, cfg: cfg, logger: logger}
}

// RecognizeImage is the single-image entry point. Errors are returned to the caller.
func (a *Aggregator) RecognizeImage(ctx context.Context, data []byte) (string, error) {
	img, err := a.prepare(data)
	if err != nil {
		return "", err
	}
	text, err := a.rec.RecognizeText(ctx, img)
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}
	return text, nil
}

// ExtractPages recognises every page and returns the labelled document. A failing page is
// replaced by FailureMarker; only an empty page list or a cancelled context is an error.
func (a *Aggregator) ExtractPages(ctx context.Context, pages [][]byte) (string, error) {
	results, err := a.RecognizePages(ctx, pages)
	if err != nil {
		return "", err
	}
	return Assemble(results), nil
}

// RecognizePages runs the recogniser over all pages, at most Concurrency at a time, and
// returns the results indexed by page.
func (a *Aggregator) RecognizePages(ctx context.Context, pages [][]byte) ([]PageText, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	start := time.Now()

	results := make([]PageText, len(pages))
	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)
	for i, page := range pages {
		g.Go(func() error {
			results[i] = a.page(ctx, i+1, page)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recognize pages: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Failed {
			failed++
		}
	}
	a.logger.Info("ocr.pages.ok",
		"pages", len(pages),
		"failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

func (a *Aggregator) page(ctx context.Context, index int, data []byte) PageText {
	text, err := a.RecognizeImage(ctx, data)
	if err != nil {
		a.logger.Warn("ocr.page.failed", "page", index, "error", err)
		return PageText{Index: index, Text: FailureMarker, Failed: true, Err: err}
	}
	return PageText{Index: index, Text: text}
}

func (a *Aggregator) prepare(data []byte) ([]byte, error) {
	if a.cfg.SkipPrepare {
		return data, nil
	}
	return PrepareImage(data, a.cfg.MaxImageSide, a.cfg.JPEGQuality, a.cfg.MaxPixels)
}

// PageHeader labels a page in the assembled text.
func PageHeader(index int) string {
	return fmt.Sprintf("--- page %d ---", index)
}

// Assemble joins pages in slice order, each under its header, separated by a blank line.
func Assemble(pages []PageText) string {
	blocks := make([]string, 0, len(pages))
	for _, p := range pages {
		blocks = append(blocks, PageHeader(p.Index)+"\n"+p.Text)
	}
	return strings.Join(blocks, "\n\n")
}
