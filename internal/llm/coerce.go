package llm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

// CoercionError reports a value whose type cannot be mapped onto the record,
// such as an object where a string was expected.
type CoercionError struct {
	Path string
	Want string
	Got  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce %s: want %s, got %s", e.Path, e.Want, e.Got)
}

// Coerce maps an untrusted JSON tree onto a fully populated record. It starts
// from entity.NewEmptyRecord(entity.PartialConfidence) and overwrites a field
// only when the tree holds a usable value:
//
//   - strings: a JSON string is used; missing, null, numbers and booleans keep "Unknown"
//   - lists: an array of strings is used; anything that is not an array keeps []
//   - booleans: JSON truthiness
//   - confidence: a number or numeric string is used, otherwise 0.8
//   - source_references: entries are decoded as-is
//
// Containers where a scalar was expected are errors, and the first error
// aborts the whole mapping. hint picks the type-specific variant when the
// tree's own contract_type names none.
func Coerce(tree any, hint constants.ContractType) (entity.ContractRecord, error) {
	root, ok := tree.(map[string]any)
	if !ok {
		return entity.ContractRecord{}, &CoercionError{Path: "$", Want: "object", Got: jsonKind(tree)}
	}

	c := &coercer{}
	rec := entity.NewEmptyRecord(entity.PartialConfidence)

	if o := c.section(root, "contract_info"); o != nil {
		s := &rec.ContractInfo
		c.str(o, "contract_info.contract_type", &s.ContractType, "contract_type")
		c.str(o, "contract_info.contract_number", &s.ContractNumber, "contract_number")
		c.str(o, "contract_info.signing_date", &s.SigningDate, "signing_date")
		c.str(o, "contract_info.effective_date", &s.EffectiveDate, "effective_date")
		c.str(o, "contract_info.expiry_date", &s.ExpiryDate, "expiry_date")
		c.str(o, "contract_info.signing_location", &s.SigningLocation, "signing_location")
		c.str(o, "contract_info.contract_status", &s.ContractStatus, "contract_status")
		c.confidence(o, &s.Confidence)
		c.refs(o, "contract_info", &s.SourceReferences)
	}
	c.party(root, "party_a", &rec.PartyA)
	c.party(root, "party_b", &rec.PartyB)

	if o := c.section(root, "financial"); o != nil {
		s := &rec.Financial
		c.str(o, "financial.transaction_amount", &s.TransactionAmount, "transaction_amount")
		c.str(o, "financial.currency", &s.Currency, "currency")
		c.str(o, "financial.payment_method", &s.PaymentMethod, "payment_method")
		c.str(o, "financial.payment_schedule", &s.PaymentSchedule, "payment_schedule")
		c.str(o, "financial.tax_info", &s.TaxInfo, "tax_info")
		c.str(o, "financial.invoice_requirements", &s.InvoiceRequirements, "invoice_requirements")
		c.str(o, "financial.deposit_info", &s.DepositInfo, "deposit_info")
		c.confidence(o, &s.Confidence)
		c.refs(o, "financial", &s.SourceReferences)
	}

	if o := c.section(root, "validity"); o != nil {
		s := &rec.Validity
		c.str(o, "validity.effective_condition", &s.EffectiveCondition, "effective_condition")
		c.str(o, "validity.termination_condition", &s.TerminationCondition, "termination_condition")
		c.str(o, "validity.contract_status", &s.ContractStatus, "contract_status")
		c.str(o, "validity.termination_date", &s.TerminationDate, "termination_date")
		c.confidence(o, &s.Confidence)
		c.refs(o, "validity", &s.SourceReferences)
	}

	if o := c.section(root, "rights_obligations"); o != nil {
		s := &rec.RightsObligations
		c.list(o, "rights_obligations.party_a_obligations", &s.PartyAObligations, "party_a_obligations")
		c.list(o, "rights_obligations.party_b_obligations", &s.PartyBObligations, "party_b_obligations")
		c.list(o, "rights_obligations.party_a_rights", &s.PartyARights, "party_a_rights")
		c.list(o, "rights_obligations.party_b_rights", &s.PartyBRights, "party_b_rights")
		c.str(o, "rights_obligations.performance_period", &s.PerformancePeriod, "performance_period")
		c.str(o, "rights_obligations.performance_location", &s.PerformanceLocation, "performance_location")
		c.confidence(o, &s.Confidence)
		c.refs(o, "rights_obligations", &s.SourceReferences)
	}

	if o := c.section(root, "breach_liability"); o != nil {
		s := &rec.BreachLiability
		c.list(o, "breach_liability.breach_scenarios", &s.BreachScenarios, "breach_scenarios")
		c.str(o, "breach_liability.liquidated_damages", &s.LiquidatedDamages, "liquidated_damages")
		c.str(o, "breach_liability.compensation_limit", &s.CompensationLimit, "compensation_limit")
		c.list(o, "breach_liability.exemption_clauses", &s.ExemptionClauses, "exemption_clauses")
		c.str(o, "breach_liability.force_majeure_clause", &s.ForceMajeureClause, "force_majeure_clause")
		c.confidence(o, &s.Confidence)
		c.refs(o, "breach_liability", &s.SourceReferences)
	}

	if o := c.section(root, "dispute_resolution"); o != nil {
		s := &rec.DisputeResolution
		c.str(o, "dispute_resolution.resolution_method", &s.ResolutionMethod, "resolution_method")
		c.str(o, "dispute_resolution.jurisdiction_court", &s.JurisdictionCourt, "jurisdiction_court")
		c.str(o, "dispute_resolution.arbitration_org", &s.ArbitrationOrg, "arbitration_org")
		c.str(o, "dispute_resolution.arbitration_location", &s.ArbitrationLocation, "arbitration_location")
		c.str(o, "dispute_resolution.governing_law", &s.GoverningLaw, "governing_law")
		c.confidence(o, &s.Confidence)
		c.refs(o, "dispute_resolution", &s.SourceReferences)
	}

	if o := c.section(root, "confidentiality_ip"); o != nil {
		s := &rec.ConfidentialityIP
		c.str(o, "confidentiality_ip.confidentiality_clause", &s.ConfidentialityClause, "confidentiality_clause")
		c.str(o, "confidentiality_ip.confidentiality_period", &s.ConfidentialityPeriod, "confidentiality_period")
		c.str(o, "confidentiality_ip.ip_ownership", &s.IPOwnership, "ip_ownership")
		c.str(o, "confidentiality_ip.ip_license", &s.IPLicense, "ip_license")
		c.str(o, "confidentiality_ip.non_compete", &s.NonCompete, "non_compete")
		c.confidence(o, &s.Confidence)
		c.refs(o, "confidentiality_ip", &s.SourceReferences)
	}

	if o := c.section(root, "other_terms"); o != nil {
		s := &rec.OtherTerms
		c.str(o, "other_terms.modification_clause", &s.ModificationClause, "modification_clause")
		c.str(o, "other_terms.assignment_clause", &s.AssignmentClause, "assignment_clause")
		c.str(o, "other_terms.termination_procedure", &s.TerminationProcedure, "termination_procedure")
		c.str(o, "other_terms.notice_clause", &s.NoticeClause, "notice_clause")
		c.str(o, "other_terms.contract_copies", &s.ContractCopies, "contract_copies")
		c.list(o, "other_terms.attachments", &s.Attachments, "attachments")
		c.list(o, "other_terms.special_terms", &s.SpecialTerms, "special_terms")
		c.confidence(o, &s.Confidence)
		c.refs(o, "other_terms", &s.SourceReferences)
	}

	if o := c.section(root, "signature"); o != nil {
		s := &rec.Signature
		c.str(o, "signature.party_a_signatory", &s.PartyASignatory, "party_a_signatory")
		c.str(o, "signature.party_a_sign_date", &s.PartyASignDate, "party_a_sign_date")
		c.boolean(o, &s.PartyASeal, "party_a_seal")
		c.str(o, "signature.party_b_signatory", &s.PartyBSignatory, "party_b_signatory")
		c.str(o, "signature.party_b_sign_date", &s.PartyBSignDate, "party_b_sign_date")
		c.boolean(o, &s.PartyBSeal, "party_b_seal")
		c.str(o, "signature.witness_name", &s.WitnessName, "witness_name")
		c.str(o, "signature.witness_contact", &s.WitnessContact, "witness_contact")
		c.confidence(o, &s.Confidence)
		c.refs(o, "signature", &s.SourceReferences)
	}

	rec.TypeSpecific = c.typeSpecific(root["type_specific"], rec.ContractInfo.ContractType, hint)

	if c.err != nil {
		return entity.ContractRecord{}, c.err
	}
	return rec, nil
}

// coercer carries the first error seen; later calls become no-ops.
type coercer struct {
	err error
}

func (c *coercer) fail(path, want string, v any) {
	if c.err == nil {
		c.err = &CoercionError{Path: path, Want: want, Got: jsonKind(v)}
	}
}

// section returns the object stored under key. A missing or null section
// yields an empty object so every field takes its default.
func (c *coercer) section(root map[string]any, key string) map[string]any {
	if c.err != nil {
		return nil
	}
	switch v := root[key].(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	default:
		c.fail(key, "object", v)
		return nil
	}
}

func (c *coercer) party(root map[string]any, key string, s *entity.PartyInfo) {
	o := c.section(root, key)
	if o == nil {
		return
	}
	c.str(o, key+".name", &s.Name, "name")
	c.str(o, key+".type", &s.Type, "type")
	c.str(o, key+".legal_representative", &s.LegalRepresentative, "legal_representative")
	c.str(o, key+".id_number", &s.IDNumber, "id_number")
	c.str(o, key+".address", &s.Address, "address")
	c.str(o, key+".contact", &s.Contact, "contact")
	c.str(o, key+".bank_name", &s.BankName, "bank_name")
	c.str(o, key+".bank_account", &s.BankAccount, "bank_account")
	c.confidence(o, &s.Confidence)
	c.refs(o, key, &s.SourceReferences)
}

// str sets *dst from the first of keys present in o.
func (c *coercer) str(o map[string]any, path string, dst *string, keys ...string) {
	if c.err != nil {
		return
	}
	v, ok := firstPresent(o, keys)
	if !ok {
		return
	}
	switch t := v.(type) {
	case string:
		*dst = t
	case map[string]any, []any:
		c.fail(path, "string", v)
	}
}

func (c *coercer) list(o map[string]any, path string, dst *[]string, key string) {
	if c.err != nil {
		return
	}
	arr, ok := o[key].([]any)
	if !ok {
		return
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			c.fail(fmt.Sprintf("%s[%d]", path, i), "string", item)
			return
		}
		out = append(out, s)
	}
	*dst = out
}

func (c *coercer) boolean(o map[string]any, dst *bool, key string) {
	if c.err != nil {
		return
	}
	if v, ok := o[key]; ok {
		*dst = truthy(v)
	}
}

func (c *coercer) confidence(o map[string]any, dst *float64) {
	if c.err != nil {
		return
	}
	var f float64
	switch t := o["confidence"].(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return
		}
		f = parsed
	default:
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	*dst = f
}

// refs decodes source_references entries without defaulting their fields:
// a missing page stays 0 and a missing text stays "".
func (c *coercer) refs(o map[string]any, path string, dst *[]entity.SourceRef) {
	if c.err != nil {
		return
	}
	arr, ok := o["source_references"].([]any)
	if !ok {
		return
	}
	out := make([]entity.SourceRef, 0, len(arr))
	for i, item := range arr {
		p := fmt.Sprintf("%s.source_references[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			c.fail(p, "object", item)
			return
		}
		var ref entity.SourceRef
		ref.Page = c.integer(m, p+".page", "page")
		ref.Paragraph = c.integer(m, p+".paragraph", "paragraph")
		switch t := m["text"].(type) {
		case nil:
		case string:
			ref.Text = t
		default:
			c.fail(p+".text", "string", t)
		}
		if c.err != nil {
			return
		}
		out = append(out, ref)
	}
	*dst = out
}

func (c *coercer) integer(m map[string]any, path, key string) int {
	switch t := m[key].(type) {
	case nil:
		return 0
	case float64:
		if t == math.Trunc(t) && math.Abs(t) <= math.MaxInt32 {
			return int(t)
		}
	}
	c.fail(path, "integer", m[key])
	return 0
}

// typeSpecific picks at most one variant. The slot matching the declared
// contract type wins; when the declared type names no variant the hint is
// tried; otherwise the first populated slot in catalogue order is used.
func (c *coercer) typeSpecific(v any, declared string, hint constants.ContractType) entity.TypeSpecific {
	if c.err != nil || !truthy(v) {
		return entity.TypeSpecific{}
	}
	slots, ok := v.(map[string]any)
	if !ok {
		c.fail("type_specific", "object", v)
		return entity.TypeSpecific{}
	}

	present := func(ct constants.ContractType) (map[string]any, bool) {
		// An empty object counts as absent.
		o, ok := slots[entity.VariantSlotKey(ct)].(map[string]any)
		return o, ok && len(o) > 0
	}

	chosen := constants.ContractType("")
	if ct, ok := constants.CanonicalizeContractType(declared); ok && ct.HasVariant() {
		if _, ok := present(ct); ok {
			chosen = ct
		}
	} else if hint.HasVariant() {
		if _, ok := present(hint); ok {
			chosen = hint
		}
	}
	if chosen == "" {
		for _, ct := range entity.VariantOrder {
			if _, ok := present(ct); ok {
				chosen = ct
				break
			}
		}
	}
	if chosen == "" {
		return entity.TypeSpecific{}
	}

	o, _ := present(chosen)
	return entity.NewTypeSpecific(c.variant(chosen, o))
}

func (c *coercer) variant(ct constants.ContractType, o map[string]any) entity.Variant {
	path := "type_specific." + entity.VariantSlotKey(ct)
	switch f := entity.NewEmptyVariant(ct, entity.PartialConfidence).(type) {
	case entity.EmploymentFields:
		c.str(o, path+".position", &f.Position, "position")
		c.str(o, path+".work_location", &f.WorkLocation, "work_location")
		c.str(o, path+".work_hours", &f.WorkHours, "work_hours")
		c.str(o, path+".probation_period", &f.ProbationPeriod, "probation_period")
		c.str(o, path+".salary", &f.Salary, "salary")
		c.str(o, path+".social_insurance", &f.SocialInsurance, "social_insurance")
		c.str(o, path+".non_compete_clause", &f.NonCompeteClause, "non_compete_clause")
		c.confidence(o, &f.Confidence)
		return f
	case entity.LeaseFields:
		c.str(o, path+".leased_property", &f.LeasedProperty, "leased_property")
		c.str(o, path+".lease_area", &f.LeaseArea, "lease_area")
		c.str(o, path+".lease_purpose", &f.LeasePurpose, "lease_purpose")
		c.str(o, path+".rent_amount", &f.RentAmount, "rent_amount")
		c.str(o, path+".rent_payment_cycle", &f.RentPaymentCycle, "rent_payment_cycle")
		c.str(o, path+".deposit", &f.Deposit, "deposit")
		c.str(o, path+".maintenance_responsibility", &f.MaintenanceResponsibility, "maintenance_responsibility")
		c.confidence(o, &f.Confidence)
		return f
	case entity.LoanFields:
		c.str(o, path+".loan_amount", &f.LoanAmount, "loan_amount")
		c.str(o, path+".loan_purpose", &f.LoanPurpose, "loan_purpose")
		c.str(o, path+".loan_term", &f.LoanTerm, "loan_term")
		c.str(o, path+".interest_rate", &f.InterestRate, "interest_rate")
		c.str(o, path+".repayment_method", &f.RepaymentMethod, "repayment_method")
		c.str(o, path+".collateral", &f.Collateral, "collateral")
		c.str(o, path+".guarantor", &f.Guarantor, "guarantor")
		c.confidence(o, &f.Confidence)
		return f
	case entity.ServiceFields:
		// service_type and fee are the older key names.
		c.str(o, path+".service_content", &f.ServiceContent, "service_content", "service_type")
		c.str(o, path+".service_standard", &f.ServiceStandard, "service_standard")
		c.str(o, path+".service_period", &f.ServicePeriod, "service_period")
		c.str(o, path+".service_fee", &f.ServiceFee, "service_fee", "fee")
		c.str(o, path+".acceptance_criteria", &f.AcceptanceCriteria, "acceptance_criteria")
		c.confidence(o, &f.Confidence)
		return f
	case entity.PurchaseFields:
		c.str(o, path+".goods_name", &f.GoodsName, "goods_name")
		c.str(o, path+".goods_spec", &f.GoodsSpec, "goods_spec")
		c.str(o, path+".goods_quantity", &f.GoodsQuantity, "goods_quantity")
		c.str(o, path+".goods_price", &f.GoodsPrice, "goods_price")
		c.str(o, path+".delivery_location", &f.DeliveryLocation, "delivery_location")
		c.str(o, path+".delivery_date", &f.DeliveryDate, "delivery_date")
		c.str(o, path+".quality_standard", &f.QualityStandard, "quality_standard")
		c.str(o, path+".warranty_period", &f.WarrantyPeriod, "warranty_period")
		c.confidence(o, &f.Confidence)
		return f
	}
	return nil
}

func firstPresent(o map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// truthy follows JSON-ish truthiness: false, 0, "", null and empty
// containers are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
