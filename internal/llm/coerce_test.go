package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCoerce_EmptyObjectIsPartialDefaults(t *testing.T) {
	rec, err := Coerce(decode(t, `{}`), "")
	require.NoError(t, err)
	assert.Equal(t, entity.NewEmptyRecord(entity.PartialConfidence), rec)
	assert.False(t, rec.OCRRequired)
}

func TestCoerce_FullDocument(t *testing.T) {
	doc := `{
	  "contract_info": {"contract_type": "service", "contract_number": "SV-2024-001", "confidence": 0.95,
	    "source_references": [{"page": 1, "paragraph": 2, "text": "Service Agreement"}]},
	  "party_a": {"name": "Alpha Ltd", "confidence": "0.9"},
	  "party_b": {"name": "Beta LLC"},
	  "financial": {"transaction_amount": "120000", "currency": "CNY"},
	  "rights_obligations": {"party_a_obligations": ["pay on time", "provide access"]},
	  "breach_liability": {"exemption_clauses": []},
	  "signature": {"party_a_seal": true, "party_b_seal": "yes"},
	  "type_specific": {"service_fields": {"service_content": "IT support", "service_fee": "10000/month"}}
	}`
	rec, err := Coerce(decode(t, doc), "")
	require.NoError(t, err)

	assert.Equal(t, "service", rec.ContractInfo.ContractType)
	assert.Equal(t, "SV-2024-001", rec.ContractInfo.ContractNumber)
	assert.Equal(t, entity.Unknown, rec.ContractInfo.SigningDate)
	assert.Equal(t, 0.95, rec.ContractInfo.Confidence)
	assert.Equal(t, []entity.SourceRef{{Page: 1, Paragraph: 2, Text: "Service Agreement"}}, rec.ContractInfo.SourceReferences)

	assert.Equal(t, "Alpha Ltd", rec.PartyA.Name)
	assert.Equal(t, 0.9, rec.PartyA.Confidence)
	assert.Equal(t, 0.8, rec.PartyB.Confidence)
	assert.Equal(t, []entity.SourceRef{}, rec.PartyB.SourceReferences)

	assert.Equal(t, []string{"pay on time", "provide access"}, rec.RightsObligations.PartyAObligations)
	assert.Equal(t, []string{}, rec.RightsObligations.PartyBRights)
	assert.Equal(t, []string{}, rec.BreachLiability.ExemptionClauses)

	assert.True(t, rec.Signature.PartyASeal)
	assert.True(t, rec.Signature.PartyBSeal)

	svc, ok := rec.TypeSpecific.Service()
	require.True(t, ok)
	assert.Equal(t, "IT support", svc.ServiceContent)
	assert.Equal(t, "10000/month", svc.ServiceFee)
	assert.Equal(t, entity.Unknown, svc.ServicePeriod)
	assert.Equal(t, 0.8, svc.Confidence)
}

func TestCoerce_ScalarMismatchKeepsDefault(t *testing.T) {
	rec, err := Coerce(decode(t, `{
	  "contract_info": {"contract_number": 12345, "signing_date": null, "contract_status": true, "confidence": "high"},
	  "rights_obligations": {"party_a_rights": "not a list"}
	}`), "")
	require.NoError(t, err)
	assert.Equal(t, entity.Unknown, rec.ContractInfo.ContractNumber)
	assert.Equal(t, entity.Unknown, rec.ContractInfo.SigningDate)
	assert.Equal(t, entity.Unknown, rec.ContractInfo.ContractStatus)
	assert.Equal(t, 0.8, rec.ContractInfo.Confidence)
	assert.Equal(t, []string{}, rec.RightsObligations.PartyARights)
}

func TestCoerce_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"top-level array", `[1,2]`, "$"},
		{"object where string expected", `{"party_a": {"name": {"first": "A"}}}`, "party_a.name"},
		{"array where string expected", `{"financial": {"currency": ["CNY"]}}`, "financial.currency"},
		{"section not an object", `{"validity": "soon"}`, "validity"},
		{"list with non-string", `{"other_terms": {"attachments": ["a", 2]}}`, "other_terms.attachments[1]"},
		{"source ref not an object", `{"signature": {"source_references": ["p1"]}}`, "signature.source_references[0]"},
		{"source ref fractional page", `{"signature": {"source_references": [{"page": 1.5}]}}`, "signature.source_references[0].page"},
		{"type_specific not an object", `{"type_specific": "lease"}`, "type_specific"},
		{"variant field object", `{"type_specific": {"loan_fields": {"loan_amount": {"v": 1}}}}`, "type_specific.loan_fields.loan_amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coerce(decode(t, tt.doc), "")
			var cerr *CoercionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.path, cerr.Path)
		})
	}
}

func TestCoerce_SourceRefsPassThrough(t *testing.T) {
	rec, err := Coerce(decode(t, `{"financial": {"source_references": [{"text": "only text"}, {"page": 3}]}}`), "")
	require.NoError(t, err)
	assert.Equal(t, []entity.SourceRef{{Text: "only text"}, {Page: 3}}, rec.Financial.SourceReferences)
}

func TestCoerce_OnlyMatchingVariant(t *testing.T) {
	doc := `{
	  "contract_info": {"contract_type": "service"},
	  "type_specific": {
	    "employment_fields": {"position": "engineer"},
	    "service_fields": {"service_content": "cleaning"},
	    "purchase_fields": {"goods_name": "chairs"}
	  }
	}`
	rec, err := Coerce(decode(t, doc), "")
	require.NoError(t, err)

	assert.Equal(t, constants.Service, rec.TypeSpecific.ContractType())
	_, isEmployment := rec.TypeSpecific.Employment()
	_, isPurchase := rec.TypeSpecific.Purchase()
	assert.False(t, isEmployment)
	assert.False(t, isPurchase)

	b, err := json.Marshal(rec.TypeSpecific)
	require.NoError(t, err)
	var slots map[string]any
	require.NoError(t, json.Unmarshal(b, &slots))
	populated := 0
	for _, v := range slots {
		if v != nil {
			populated++
		}
	}
	assert.Equal(t, 1, populated)
	assert.NotNil(t, slots["service_fields"])
}

func TestCoerce_VariantSelection(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		hint constants.ContractType
		want constants.ContractType
	}{
		{
			name: "declared type wins over catalogue order",
			doc:  `{"contract_info": {"contract_type": "Lease"}, "type_specific": {"employment_fields": {"position": "x"}, "lease_fields": {"deposit": "1"}}}`,
			want: constants.Lease,
		},
		{
			name: "hint used when declared type is unknown",
			doc:  `{"type_specific": {"employment_fields": {"position": "x"}, "loan_fields": {"loan_term": "1y"}}}`,
			hint: constants.Loan,
			want: constants.Loan,
		},
		{
			name: "first populated slot when nothing matches",
			doc:  `{"contract_info": {"contract_type": "purchase"}, "type_specific": {"loan_fields": {"loan_term": "1y"}, "service_fields": {"fee": "5"}}}`,
			want: constants.Loan,
		},
		{
			name: "empty slots are absent",
			doc:  `{"contract_info": {"contract_type": "service"}, "type_specific": {"service_fields": {}, "lease_fields": null}}`,
			want: "",
		},
		{
			name: "no type_specific",
			doc:  `{"contract_info": {"contract_type": "loan"}}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Coerce(decode(t, tt.doc), tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.TypeSpecific.ContractType())
		})
	}
}

func TestCoerce_ServiceLegacyKeys(t *testing.T) {
	rec, err := Coerce(decode(t, `{"type_specific": {"service_fields": {"service_type": "consulting", "fee": "500"}}}`), "")
	require.NoError(t, err)
	svc, ok := rec.TypeSpecific.Service()
	require.True(t, ok)
	assert.Equal(t, "consulting", svc.ServiceContent)
	assert.Equal(t, "500", svc.ServiceFee)

	// the current key wins when both are present
	rec, err = Coerce(decode(t, `{"type_specific": {"service_fields": {"service_content": "new", "service_type": "old", "service_fee": "1", "fee": "2"}}}`), "")
	require.NoError(t, err)
	svc, _ = rec.TypeSpecific.Service()
	assert.Equal(t, "new", svc.ServiceContent)
	assert.Equal(t, "1", svc.ServiceFee)
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, 1.0, "x", []any{1}, map[string]any{"a": 1}} {
		assert.True(t, truthy(v), "%v", v)
	}
	for _, v := range []any{nil, false, 0.0, "", []any{}, map[string]any{}} {
		assert.False(t, truthy(v), "%v", v)
	}
}
