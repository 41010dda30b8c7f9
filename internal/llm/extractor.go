package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

// Config tunes the extraction call.
type Config struct {
	Temperature   float32       // default 0.1
	MaxTokens     int           // default 4000
	Timeout       time.Duration // per call, default 120s
	MaxInputChars int           // document runes sent to the model, default 60000
}

// Extractor is the extraction entry point: document text in, record out.
type Extractor struct {
	completer Completer
	cfg       Config
	schema    *jsonschema.Schema
	logger    *slog.Logger
}

func NewExtractor(completer Completer, cfg Config, logger *slog.Logger) (*Extractor, error) {
	if completer == nil {
		return nil, errors.New("llm: nil completer")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 60000
	}
	schema, err := CompileSchema(BuildContractJSONSchema())
	if err != nil {
		return nil, err
	}
	return &Extractor{completer: completer, cfg: cfg, schema: schema, logger: logger}, nil
}

// Extract asks the model for the contract fields of req.DocumentText. Bad
// model output never fails the call: it degrades to defaults or to
// entity.DefaultRecord(), and blank text gets the default record without a
// model call. Only a failed model call is an error; the returned record is
// then the default record.
func (e *Extractor) Extract(ctx context.Context, req ExtractRequest) (entity.ContractRecord, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	text := strings.TrimSpace(req.DocumentText)
	if text == "" {
		e.logger.Warn("llm.extract.empty", "req_id", rid)
		return entity.DefaultRecord(), nil
	}
	hint, _ := constants.CanonicalizeContractType(req.ContractType)

	e.logger.Info("llm.extract.start",
		"req_id", rid,
		"text_len", len(text),
		"hint", string(hint),
		"max_tokens", e.cfg.MaxTokens,
	)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	content, err := e.completer.Complete(ctx, ChatRequest{
		System:      BuildSystemPrompt(hint),
		User:        BuildUserPrompt(text, e.cfg.MaxInputChars),
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		e.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.DefaultRecord(), fmt.Errorf("model call: %w", err)
	}

	out := ParseResponse(content, hint)
	if out.Tree != nil {
		if drift := SchemaDrift(e.schema, out.Tree); len(drift) > 0 {
			e.logger.Warn("llm.extract.schema_drift",
				"req_id", rid, "violations", len(drift), "first", drift[0],
			)
		}
	}
	if out.Fallback {
		e.logger.Warn("llm.extract.fallback",
			"req_id", rid, "reason", out.Reason,
			"content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return out.Record, nil
	}

	e.logger.Info("llm.extract.ok",
		"req_id", rid,
		"repaired", out.Repaired,
		"contract_type", out.Record.ContractInfo.ContractType,
		"variant", string(out.Record.TypeSpecific.ContractType()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Record, nil
}
