package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.PDF}

	pages, err := e.pageCount(data)
	if err != nil {
		return res, fmt.Errorf("%w: page count: %w", ErrRasterize, err)
	}
	if pages == 0 {
		return res, ErrNoPages
	}
	res.Pages = pages

	tmpDir, err := os.MkdirTemp("", "contract-pdf-*")
	if err != nil {
		return res, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.pdf.cleanup", "dir", tmpDir, "error", err)
		}
	}()
	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return res, err
	}

	layer, err := e.pdfToText(ctx, in)
	switch {
	case err != nil:
		res.Warnings = append(res.Warnings, "pdftotext: "+err.Error())
	case textLayerUsable(layer, pages, e.cfg.MinTextChars):
		res.Method = MethodPDFText
		res.Text = Assemble(layer)
		return res, nil
	default:
		res.Warnings = append(res.Warnings, "text layer too thin, falling back to OCR")
	}

	images, err := e.rasterize(ctx, in, tmpDir)
	if err != nil {
		return res, err
	}
	if len(images) < pages {
		res.Warnings = append(res.Warnings, fmt.Sprintf("only %d of %d pages rasterized", len(images), pages))
	}

	texts, err := e.agg.RecognizePages(ctx, images)
	if err != nil {
		return res, err
	}
	res.Method = MethodPDFOCR
	res.Pages = len(images)
	res.Text = Assemble(texts)
	for _, t := range texts {
		if t.Failed {
			res.FailedPages++
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %v", t.Index, t.Err))
		}
	}
	return res, nil
}

// pdfToText reads the embedded text layer, one entry per form-feed separated page.
func (e *Extractor) pdfToText(ctx context.Context, path string) ([]PageText, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, truncate(string(errb), 512))
	}
	raw := strings.TrimSuffix(string(out), "\f")
	parts := strings.Split(raw, "\f")
	pages := make([]PageText, len(parts))
	for i, p := range parts {
		pages[i] = PageText{Index: i + 1, Text: Normalize(p)}
	}
	return pages, nil
}

func textLayerUsable(pages []PageText, pageCount, minPerPage int) bool {
	total := 0
	for _, p := range pages {
		total += utf8.RuneCountInString(p.Text)
	}
	return total >= minPerPage*pageCount
}

// rasterize renders up to MaxPages pages to JPEG and returns them in page order.
func (e *Extractor) rasterize(ctx context.Context, path, dir string) ([][]byte, error) {
	prefix := filepath.Join(dir, "page")
	// pdftoppm -jpeg -r <dpi> -l <max> <in.pdf> <dir/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-jpeg", "-r", strconv.Itoa(e.cfg.DPI), "-l", strconv.Itoa(e.cfg.MaxPages), path, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrRasterize, err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.jpg")
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pdftoppm produced no images", ErrRasterize)
	}
	slices.SortFunc(matches, func(a, b string) int {
		return pageNumber(a, prefix) - pageNumber(b, prefix)
	})
	if len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}

	images := make([][]byte, 0, len(matches))
	for _, m := range matches {
		b, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
		}
		images = append(images, b)
	}
	return images, nil
}

// pageNumber parses N out of "<prefix>-N.jpg"; pdftoppm zero-pads N by page count.
func pageNumber(path, prefix string) int {
	s := strings.TrimSuffix(strings.TrimPrefix(path, prefix+"-"), ".jpg")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
