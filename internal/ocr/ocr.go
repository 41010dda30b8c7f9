package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

// Extraction methods reported in ExtractionResult.Method.
const (
	MethodPDFText  = "pdf-text"
	MethodPDFOCR   = "pdf-ocr"
	MethodImageOCR = "image-ocr"
)

var (
	ErrUnsupportedFormat = errors.New("ocr: unsupported format")
	ErrRasterize         = errors.New("ocr: rasterize pdf")
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	DPI      int // rasterization DPI for scanned PDFs, default 108 (1.5x of 72)
	MaxPages int // default 50

	// MinTextChars is the per-page text-layer length below which a PDF counts as scanned.
	MinTextChars int

	Aggregator AggregatorConfig
}

type ExtractionResult struct {
	Text        string
	Pages       int
	FailedPages int
	SourceType  string // constants.PDF | constants.IMAGE
	Method      string
	Duration    time.Duration
	Warnings    []string
}

// Extractor turns PDFs and images into text.
type Extractor struct {
	cfg       Config
	runner    Runner
	agg       *Aggregator
	logger    *slog.Logger
	pageCount func(data []byte) (int, error)
}

func NewExtractor(cfg Config, rec TextRecognizer, runner Runner, logger *slog.Logger) (*Extractor, error) {
	if rec == nil {
		return nil, errors.New("ocr: text recognizer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 108
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 20
	}
	return &Extractor{
		cfg:       cfg,
		runner:    runner,
		agg:       NewAggregator(rec, cfg.Aggregator, logger),
		logger:    logger,
		pageCount: pdfPageCount,
	}, nil
}

// Aggregator exposes the page aggregator so callers can OCR pre-rendered pages.
func (e *Extractor) Aggregator() *Aggregator {
	return e.agg
}

// Extract picks a strategy based on the file extension of name.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(name))
	e.logger.Debug("ocr.extract.start", "file", name, "ext", ext, "bytes", len(data))

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, data)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, data)
	default:
		return ExtractionResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr.extract.error", "file", name, "error", err, "elapsed_ms", res.Duration.Milliseconds())
		return res, err
	}
	e.logger.Info("ocr.extract.ok",
		"file", name,
		"method", res.Method,
		"pages", res.Pages,
		"failed_pages", res.FailedPages,
		"chars", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.IMAGE, Method: MethodImageOCR, Pages: 1}
	text, err := e.agg.RecognizeImage(ctx, data)
	if err != nil {
		return res, err
	}
	res.Text = text
	return res, nil
}

func pdfPageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), nil)
}
