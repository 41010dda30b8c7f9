package ocr

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	handle func(name string, args []string) ([]byte, []byte, error)
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()
	return r.handle(name, args)
}

func (r *fakeRunner) called(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c[0] == name {
			return true
		}
	}
	return false
}

// writePages mimics pdftoppm: the output prefix is the last argument.
func writePages(t *testing.T, args []string, pages map[string]string) {
	t.Helper()
	prefix := args[len(args)-1]
	for suffix, content := range pages {
		require.NoError(t, os.WriteFile(prefix+"-"+suffix+".jpg", []byte(content), 0o600))
	}
}

func newTestExtractor(t *testing.T, runner Runner, rec TextRecognizer, pages int) *Extractor {
	t.Helper()
	ex, err := NewExtractor(Config{Aggregator: AggregatorConfig{SkipPrepare: true}}, rec, runner, nil)
	require.NoError(t, err)
	ex.pageCount = func([]byte) (int, error) { return pages, nil }
	return ex
}

func TestNewExtractor_RequiresRecognizer(t *testing.T) {
	_, err := NewExtractor(Config{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestExtract_PDFTextLayer(t *testing.T) {
	runner := &fakeRunner{handle: func(name string, args []string) ([]byte, []byte, error) {
		require.Equal(t, "pdftotext", name)
		return []byte("LEASE AGREEMENT between Party A and Party B\f  Rent is due monthly on the first day\f"), nil, nil
	}}
	ex := newTestExtractor(t, runner, &fakeRecognizer{}, 2)

	res, err := ex.Extract(context.Background(), "lease.PDF", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, MethodPDFText, res.Method)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t,
		"--- page 1 ---\nLEASE AGREEMENT between Party A and Party B\n\n--- page 2 ---\nRent is due monthly on the first day",
		res.Text)
	assert.False(t, runner.called("pdftoppm"))
}

func TestExtract_ScannedPDFFallsBackToOCR(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = func(name string, args []string) ([]byte, []byte, error) {
		switch name {
		case "pdftotext":
			return []byte("\f\f\f"), nil, nil
		case "pdftoppm":
			assert.Contains(t, args, "-jpeg")
			assert.Contains(t, args, "108")
			writePages(t, args, map[string]string{"1": "p1", "2": "p2", "10": "p10"})
			return nil, nil, nil
		}
		return nil, nil, errors.New("unexpected command " + name)
	}
	rec := &fakeRecognizer{fail: map[string]bool{"p2": true}}
	ex := newTestExtractor(t, runner, rec, 3)

	res, err := ex.Extract(context.Background(), "scan.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, MethodPDFOCR, res.Method)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 1, res.FailedPages)
	assert.Equal(t,
		"--- page 1 ---\ntext of p1\n\n--- page 2 ---\n[OCR recognition failed]\n\n--- page 3 ---\ntext of p10",
		res.Text)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "page 2")
}

func TestExtract_PdftotextFailureStillOCRs(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = func(name string, args []string) ([]byte, []byte, error) {
		if name == "pdftotext" {
			return nil, []byte("Syntax Error"), errors.New("exit status 1")
		}
		writePages(t, args, map[string]string{"1": "only"})
		return nil, nil, nil
	}
	ex := newTestExtractor(t, runner, &fakeRecognizer{}, 1)

	res, err := ex.Extract(context.Background(), "a.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, MethodPDFOCR, res.Method)
	assert.Equal(t, "--- page 1 ---\ntext of only", res.Text)
}

func TestExtract_RasterizeFailure(t *testing.T) {
	runner := &fakeRunner{handle: func(name string, args []string) ([]byte, []byte, error) {
		if name == "pdftotext" {
			return nil, nil, nil
		}
		return nil, []byte("I/O Error"), errors.New("exit status 1")
	}}
	ex := newTestExtractor(t, runner, &fakeRecognizer{}, 4)

	_, err := ex.Extract(context.Background(), "a.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrRasterize)
}

func TestExtract_PDFWithoutPages(t *testing.T) {
	ex := newTestExtractor(t, &fakeRunner{}, &fakeRecognizer{}, 0)

	_, err := ex.Extract(context.Background(), "empty.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExtract_UnreadablePDF(t *testing.T) {
	ex := newTestExtractor(t, &fakeRunner{}, &fakeRecognizer{}, 0)
	ex.pageCount = func([]byte) (int, error) { return 0, errors.New("xref corrupt") }

	_, err := ex.Extract(context.Background(), "bad.pdf", []byte("garbage"))
	assert.ErrorIs(t, err, ErrRasterize)
}

func TestExtract_Image(t *testing.T) {
	ex := newTestExtractor(t, &fakeRunner{}, &fakeRecognizer{}, 0)

	res, err := ex.Extract(context.Background(), "photo.jpg", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, MethodImageOCR, res.Method)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "text of img", res.Text)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	ex := newTestExtractor(t, &fakeRunner{}, &fakeRecognizer{}, 0)

	_, err := ex.Extract(context.Background(), "notes.odt", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTesseract_Args(t *testing.T) {
	var gotArgs []string
	var gotImage []byte
	runner := &fakeRunner{handle: func(name string, args []string) ([]byte, []byte, error) {
		gotArgs = args
		gotImage, _ = os.ReadFile(args[0])
		return []byte("甲方：\t张三\r\n\r\n\r\n-----\n乙方：  李四  \n"), nil, nil
	}}
	tess := NewTesseract(TesseractConfig{PSM: 6, TessdataDir: "/usr/share/tessdata"}, runner, nil)

	text, err := tess.RecognizeText(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "甲方： 张三\n\n乙方： 李四", text)
	assert.Equal(t, []byte("jpeg-bytes"), gotImage)
	assert.Equal(t, []string{"stdout", "-l", "chi_sim+eng", "--psm", "6", "--tessdata-dir", "/usr/share/tessdata"}, gotArgs[1:])

	_, statErr := os.Stat(gotArgs[0])
	assert.True(t, os.IsNotExist(statErr), "temp image should be removed")
}

func TestTesseract_Error(t *testing.T) {
	runner := &fakeRunner{handle: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Failed loading language 'chi_sim'"), errors.New("exit status 1")
	}}
	_, err := NewTesseract(TesseractConfig{}, runner, nil).RecognizeText(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chi_sim")
}

func TestNormalize(t *testing.T) {
	tests := map[string]struct{ in, want string }{
		"empty":        {"", ""},
		"crlf":         {"a\r\nb\rc", "a\nb\nc"},
		"spaces":       {"a  \t b   c   ", "a b c"},
		"blank lines":  {"a\n\n\n\n\nb", "a\n\nb"},
		"ruler lines":  {"Signature\n________\nDate\n=====", "Signature\n\nDate"},
		"keeps dashes": {"2024-01-01 - 2025-01-01", "2024-01-01 - 2025-01-01"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}
