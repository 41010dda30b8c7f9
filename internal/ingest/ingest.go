package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/ocr"
)

var ErrUnsupportedFormat = errors.New("ingest: unsupported format")

// Method values for formats read without OCR.
const (
	MethodText = "text"
	MethodDOCX = "docx"
	MethodXLSX = "xlsx"
)

// Document is the plain text read out of one uploaded file.
type Document struct {
	Name     string
	Format   string // constants.PDF | IMAGE | TXT | DOCX | XLSX
	Text     string
	Pages    int
	Method   string
	Warnings []string
}

// DocumentOCR extracts text from PDFs and images. *ocr.Extractor satisfies it.
type DocumentOCR interface {
	Extract(ctx context.Context, name string, data []byte) (ocr.ExtractionResult, error)
}

// Reader dispatches a file to the right text extractor by extension.
type Reader struct {
	ocr    DocumentOCR
	logger *slog.Logger
}

// NewReader builds a Reader. ocr may be nil, in which case PDFs and images are rejected.
func NewReader(o DocumentOCR, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{ocr: o, logger: logger}
}

func (r *Reader) Read(ctx context.Context, name string, data []byte) (Document, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(name))
	doc := Document{Name: name, Format: constants.MapExtToFormat(ext), Pages: 1}

	var err error
	switch doc.Format {
	case constants.TXT:
		var transcoded bool
		doc.Text, transcoded, err = decodeText(data)
		doc.Method = MethodText
		if transcoded {
			doc.Warnings = append(doc.Warnings, "decoded as GB18030")
		}
	case constants.DOCX:
		doc.Text, err = readDOCX(data)
		doc.Method = MethodDOCX
	case constants.XLSX:
		var sheets int
		doc.Text, sheets, err = readXLSX(data)
		doc.Method = MethodXLSX
		doc.Pages = sheets
	case constants.PDF, constants.IMAGE:
		if r.ocr == nil {
			return doc, fmt.Errorf("%w: %q needs OCR, which is not configured", ErrUnsupportedFormat, ext)
		}
		var res ocr.ExtractionResult
		res, err = r.ocr.Extract(ctx, name, data)
		doc.Text = res.Text
		doc.Pages = res.Pages
		doc.Method = res.Method
		doc.Warnings = res.Warnings
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		r.logger.Warn("ingest.read.failed", "file", name, "format", doc.Format, "error", err)
		return doc, fmt.Errorf("read %s: %w", name, err)
	}

	r.logger.Debug("ingest.read.ok",
		"file", name,
		"format", doc.Format,
		"method", doc.Method,
		"chars", len(doc.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}
