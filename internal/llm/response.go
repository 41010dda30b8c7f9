package llm

import (
	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

// Outcome is the result of turning one raw model reply into a record.
type Outcome struct {
	Record entity.ContractRecord

	// Tree is the parsed reply, nil when parsing failed.
	Tree     any
	Repaired bool

	// Fallback is set when Record is entity.DefaultRecord(); Reason says why.
	Fallback bool
	Reason   error
}

// ParseResponse runs Sanitize, Parse and Coerce over a raw model reply. It is
// total: any parse or coercion failure yields the default record.
func ParseResponse(raw string, hint constants.ContractType) Outcome {
	res, err := Parse(Sanitize(raw))
	if err != nil {
		return Outcome{Record: entity.DefaultRecord(), Fallback: true, Reason: err}
	}

	rec, err := Coerce(res.Tree, hint)
	if err != nil {
		return Outcome{
			Record:   entity.DefaultRecord(),
			Tree:     res.Tree,
			Repaired: res.Repaired,
			Fallback: true,
			Reason:   err,
		}
	}
	return Outcome{Record: rec, Tree: res.Tree, Repaired: res.Repaired}
}
