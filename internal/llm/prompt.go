package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

// BuildSystemPrompt composes the extraction rules and the JSON template the
// model must fill. The template is the empty record itself, with the hinted
// variant filled in when one is known.
func BuildSystemPrompt(hint constants.ContractType) string {
	tmpl := entity.NewEmptyRecord(entity.PartialConfidence)
	if v := entity.NewEmptyVariant(hint, entity.PartialConfidence); v != nil {
		tmpl.TypeSpecific = entity.NewTypeSpecific(v)
	}

	parts := []string{
		"You are a professional legal contract analyst.",
		"Extract the key information from the contract text and return it as JSON.",
		"Return ONLY one JSON object that follows the template below exactly. Do not rename, add or drop keys.",
		"If a value cannot be found, use \"Unknown\" for strings and [] for lists.",
		"confidence is your certainty between 0 and 1 for that section.",
		"source_references lists where each section was found: {\"page\": n, \"paragraph\": n, \"text\": \"short quote\"}.",
		"contract_info.contract_type must be one of: " + strings.Join(constants.ContractTypesAsStrings(), ", ") + ".",
		"Fill type_specific only for the matching contract type and leave the other slots null.",
		"Escape double quotes inside string values and never put raw line breaks inside strings.",
	}
	if hint.HasVariant() {
		parts = append(parts, "The document is declared to be a "+string(hint)+" contract; fill type_specific."+entity.VariantSlotKey(hint)+".")
	}
	return strings.Join(parts, "\n") + "\n\nJSON template:\n" + mustJSON(tmpl)
}

// BuildUserPrompt wraps the document text, cut to maxChars runes when maxChars > 0.
func BuildUserPrompt(documentText string, maxChars int) string {
	var b strings.Builder
	b.WriteString("Contract text:\n")
	b.WriteString(truncateRunes(documentText, maxChars))
	b.WriteString("\n\nReturn ONLY JSON.")
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
