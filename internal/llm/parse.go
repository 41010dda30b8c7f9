package llm

import (
	"encoding/json"
	"fmt"
)

// ParseResult is a parsed model reply.
type ParseResult struct {
	Tree     any
	Repaired bool // the direct parse failed and the repaired text parsed
}

// Parse decodes text as JSON. Valid input is decoded directly and never
// touches Repair; otherwise the text is repaired once and decoded again.
func Parse(text string) (ParseResult, error) {
	var tree any
	directErr := json.Unmarshal([]byte(text), &tree)
	if directErr == nil {
		return ParseResult{Tree: tree}, nil
	}

	if err := json.Unmarshal([]byte(Repair(text)), &tree); err != nil {
		return ParseResult{}, fmt.Errorf("parse model output: %w (after repair: %v)", directErr, err)
	}
	return ParseResult{Tree: tree, Repaired: true}, nil
}
