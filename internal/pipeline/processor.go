package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
	"github.com/joseph-ayodele/contracts-extractor/internal/ingest"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm"
)

// ErrNoText marks a file that was read fine but held no text to extract from.
var ErrNoText = fmt.Errorf("document has no text: %w", common.ErrInvalidInput)

// DocumentReader turns an uploaded file into text. *ingest.Reader satisfies it.
type DocumentReader interface {
	Read(ctx context.Context, name string, data []byte) (ingest.Document, error)
}

// Input is one file to process.
type Input struct {
	Name         string
	Data         []byte
	ContractType string
}

// Result is the outcome for one file. Record is always populated; on failure it is
// entity.DefaultRecord() and Err says why.
type Result struct {
	FileName  string
	Method    string
	Pages     int
	TextChars int
	Record    entity.ContractRecord
	Warnings  []string
	IngestMS  int64
	ExtractMS int64
	Err       error
}

func (r Result) Failed() bool { return r.Err != nil }

// ElapsedMS is the total processing time.
func (r Result) ElapsedMS() int64 { return r.IngestMS + r.ExtractMS }

// TaskResult converts r into the stored per-file result.
func (r Result) TaskResult() entity.TaskResult {
	rec := r.Record
	tr := entity.TaskResult{
		FileName:     r.FileName,
		Method:       r.Method,
		Record:       &rec,
		ProcessingMS: r.ElapsedMS(),
	}
	if r.Err != nil {
		tr.Error = r.Err.Error()
	}
	return tr
}

// Processor coordinates text extraction then LLM field extraction.
type Processor struct {
	logger    *slog.Logger
	reader    DocumentReader
	extractor llm.ContractExtractor
}

func NewProcessor(logger *slog.Logger, reader DocumentReader, extractor llm.ContractExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, reader: reader, extractor: extractor}
}

// Process reads in.Data and extracts a contract record from its text. It does not return an
// error: failures are reported in Result.Err next to the default record.
func (p *Processor) Process(ctx context.Context, in Input) Result {
	res := Result{FileName: in.Name, Record: entity.DefaultRecord()}

	start := time.Now()
	doc, err := p.reader.Read(ctx, in.Name, in.Data)
	res.IngestMS = time.Since(start).Milliseconds()
	if err != nil {
		p.logger.Error("processor.ingest.failed", "file", in.Name, "err", err)
		res.Err = err
		return res
	}
	res.Method = doc.Method
	res.Pages = doc.Pages
	res.TextChars = len([]rune(doc.Text))
	res.Warnings = doc.Warnings
	p.logger.Info("processor.ingest.ok",
		"file", in.Name,
		"method", doc.Method,
		"pages", doc.Pages,
		"chars", res.TextChars,
		"elapsed_ms", res.IngestMS,
	)

	if strings.TrimSpace(doc.Text) == "" {
		p.logger.Warn("processor.extract.skipped", "file", in.Name, "reason", "no text")
		res.Err = ErrNoText
		return res
	}

	start = time.Now()
	rec, err := p.extractor.Extract(ctx, llm.ExtractRequest{
		DocumentText: doc.Text,
		ContractType: in.ContractType,
	})
	res.ExtractMS = time.Since(start).Milliseconds()
	res.Record = rec
	if err != nil {
		p.logger.Error("processor.extract.failed", "file", in.Name, "err", err)
		res.Err = err
		return res
	}
	p.logger.Info("processor.extract.ok",
		"file", in.Name,
		"contract_type", rec.ContractInfo.ContractType,
		"confidence", rec.ContractInfo.Confidence,
		"elapsed_ms", res.ExtractMS,
	)
	return res
}
