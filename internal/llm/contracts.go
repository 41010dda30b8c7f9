package llm

import (
	"context"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

// ExtractRequest is the input of one extraction call.
type ExtractRequest struct {
	DocumentText string `json:"document_text" binding:"required"`
	// ContractType is an optional hint such as "service" or "lease".
	ContractType string `json:"contract_type,omitempty"`
}

// ChatRequest is what the extractor sends to a chat model.
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// Completer sends one chat request and returns the model's raw reply text.
// Errors are transport or API failures; the reply itself is never validated.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ContractExtractor is the interface the pipeline and HTTP layer depend on.
type ContractExtractor interface {
	Extract(ctx context.Context, req ExtractRequest) (entity.ContractRecord, error)
}
