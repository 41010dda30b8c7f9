package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type TesseractConfig struct {
	Binary      string // default "tesseract"
	Lang        string // default "chi_sim+eng"
	TessdataDir string
	PSM         int
	OEM         int
}

// Tesseract recognises images with the local tesseract binary. It is the offline alternative
// to the vision model.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, runner Runner, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "chi_sim+eng"
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

func (t *Tesseract) RecognizeText(ctx context.Context, image []byte) (string, error) {
	f, err := os.CreateTemp("", "contract-page-*.jpg")
	if err != nil {
		return "", fmt.Errorf("tesseract temp file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			t.logger.Warn("ocr.tesseract.cleanup", "path", path, "error", err)
		}
	}()
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("tesseract temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("tesseract temp file: %w", err)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, t.args(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return Normalize(string(out)), nil
}

// tesseract <file> stdout -l <lang> [--psm N] [--oem N] [--tessdata-dir D]
func (t *Tesseract) args(path string) []string {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}
