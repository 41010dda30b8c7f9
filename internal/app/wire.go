package app

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/ingest"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/contracts-extractor/internal/ocr"
	"github.com/joseph-ayodele/contracts-extractor/internal/pipeline"
)

const (
	EngineVision    = "vision"
	EngineTesseract = "tesseract"
)

// Extraction is the document-to-record stack shared by the daemon and the CLI.
type Extraction struct {
	Client     *openai.Client
	Recognizer ocr.TextRecognizer
	OCR        *ocr.Extractor
	LLM        *llm.Extractor
	Reader     *ingest.Reader
	Processor  *pipeline.Processor
}

// NewExtraction builds the OCR, model and pipeline components from cfg. Nothing here
// dials out; the first network call happens on the first extraction.
func NewExtraction(cfg *common.Config, logger *slog.Logger) (*Extraction, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	runner := ocr.NewExecRunner(logger)
	rec, err := NewRecognizer(cfg.OCR, client, runner, logger)
	if err != nil {
		return nil, err
	}

	ocrx, err := ocr.NewExtractor(ocr.Config{
		Pdftotext:    cfg.OCR.Pdftotext,
		Pdftoppm:     cfg.OCR.Pdftoppm,
		DPI:          cfg.OCR.DPI,
		MaxPages:     cfg.OCR.MaxPages,
		MinTextChars: cfg.OCR.MinTextChars,
		Aggregator: ocr.AggregatorConfig{
			Concurrency:  cfg.OCR.PageConcurrency,
			MaxImageSide: cfg.OCR.MaxImageSide,
			JPEGQuality:  cfg.OCR.JPEGQuality,
			MaxPixels:    cfg.OCR.MaxImagePixels,
		},
	}, rec, runner, logger)
	if err != nil {
		return nil, fmt.Errorf("ocr extractor: %w", err)
	}

	llmx, err := llm.NewExtractor(client, llm.Config{
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		Timeout:       cfg.LLM.Timeout,
		MaxInputChars: cfg.LLM.MaxInputChars,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("llm extractor: %w", err)
	}

	reader := ingest.NewReader(ocrx, logger)
	return &Extraction{
		Client:     client,
		Recognizer: rec,
		OCR:        ocrx,
		LLM:        llmx,
		Reader:     reader,
		Processor:  pipeline.NewProcessor(logger, reader, llmx),
	}, nil
}

// NewRecognizer picks the page recognizer for cfg.Engine. An empty engine means vision.
func NewRecognizer(cfg common.OCRConfig, vision ocr.TextRecognizer, runner ocr.Runner, logger *slog.Logger) (ocr.TextRecognizer, error) {
	switch cfg.Engine {
	case EngineVision, "":
		return vision, nil
	case EngineTesseract:
		return ocr.NewTesseract(ocr.TesseractConfig{
			Binary: cfg.Tesseract,
			Lang:   cfg.TesseractLang,
		}, runner, logger), nil
	}
	return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unknown OCR engine %q", cfg.Engine), common.ErrInvalidInput)
}
