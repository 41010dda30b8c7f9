package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

func TestParseResponse_FencedWithProse(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"contract_info\":{\"contract_type\":\"service\"}}\n```"
	out := ParseResponse(raw, "")

	require.False(t, out.Fallback)
	assert.False(t, out.Repaired)
	ci := out.Record.ContractInfo
	assert.Equal(t, "service", ci.ContractType)
	assert.Equal(t, entity.Unknown, ci.ContractNumber)
	assert.Equal(t, entity.Unknown, ci.SigningDate)
	assert.Equal(t, entity.Unknown, ci.EffectiveDate)
	assert.Equal(t, entity.Unknown, ci.ExpiryDate)
	assert.Equal(t, entity.Unknown, ci.SigningLocation)
	assert.Equal(t, entity.Unknown, ci.ContractStatus)
	assert.Equal(t, 0.8, ci.Confidence)
}

func TestParseResponse_UnescapedInnerQuotes(t *testing.T) {
	out := ParseResponse(`{"party_a": {"name": "A Co, "the Buyer""}}`, "")
	require.False(t, out.Fallback)
	assert.True(t, out.Repaired)
	assert.Equal(t, `A Co, "the Buyer"`, out.Record.PartyA.Name)
}

func TestParseResponse_NotJSON(t *testing.T) {
	out := ParseResponse("not json at all", "")
	assert.True(t, out.Fallback)
	assert.Error(t, out.Reason)
	assert.Equal(t, 0.0, out.Record.ContractInfo.Confidence)
	assert.True(t, out.Record.OCRRequired)
	assert.Equal(t, entity.DefaultRecord(), out.Record)
}

func TestParseResponse_CoercionFailureDiscardsEverything(t *testing.T) {
	out := ParseResponse(`{"contract_info": {"contract_type": "lease"}, "party_a": {"name": {"x": 1}}}`, "")
	assert.True(t, out.Fallback)
	assert.NotNil(t, out.Tree)
	assert.Equal(t, entity.DefaultRecord(), out.Record)
}

func TestParseResponse_FastPathMatchesDirectCoerce(t *testing.T) {
	raw := `{"contract_info": {"contract_type": "loan", "confidence": 0.7}, "type_specific": {"loan_fields": {"loan_amount": "1M"}}}`
	out := ParseResponse(raw, "")
	require.False(t, out.Fallback)
	assert.False(t, out.Repaired)

	want, err := Coerce(decode(t, raw), "")
	require.NoError(t, err)
	assert.Equal(t, want, out.Record)
}

func TestParseResponse_IsTotal(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not json at all",
		`{"contract_info": {"contract_type": "serv`,
		`{"contract_info": {"contract_number": 42, "confidence": 1}}`,
		`[]`,
		`null`,
		`"just a string"`,
		"```json\n```",
		`{{{{`,
		`}}}}{{{{`,
		strings.Repeat(`"`, 100),
		`{"a": "\u00"}`,
	}
	for _, in := range inputs {
		out := ParseResponse(in, "")
		rec := out.Record
		assert.NotEmpty(t, rec.ContractInfo.ContractType, "input %q", in)
		assert.NotNil(t, rec.PartyA.SourceReferences, "input %q", in)
		assert.NotNil(t, rec.RightsObligations.PartyAObligations, "input %q", in)
		assert.NotNil(t, rec.OtherTerms.Attachments, "input %q", in)
	}
}
