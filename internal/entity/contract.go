package entity

// SourceRef points from an extracted value back to where it was found.
type SourceRef struct {
	Page      int    `json:"page"`
	Paragraph int    `json:"paragraph"`
	Text      string `json:"text"`
}

// ContractRecord is the fully populated result of one extraction call.
// Unknown values are the "Unknown" sentinel, an empty list, false or a zero
// confidence; no field is ever absent.
type ContractRecord struct {
	ContractInfo      ContractInfo      `json:"contract_info"`
	PartyA            PartyInfo         `json:"party_a"`
	PartyB            PartyInfo         `json:"party_b"`
	Financial         FinancialInfo     `json:"financial"`
	Validity          ValidityInfo      `json:"validity"`
	RightsObligations RightsObligations `json:"rights_obligations"`
	BreachLiability   BreachLiability   `json:"breach_liability"`
	DisputeResolution DisputeResolution `json:"dispute_resolution"`
	ConfidentialityIP ConfidentialityIP `json:"confidentiality_ip"`
	OtherTerms        OtherTerms        `json:"other_terms"`
	Signature         SignatureInfo     `json:"signature"`
	TypeSpecific      TypeSpecific      `json:"type_specific"`

	// OCRRequired marks the fallback record: nothing could be recovered from
	// the model output, so callers may want to retry with OCR text.
	OCRRequired bool `json:"ocr_required"`
}

type ContractInfo struct {
	ContractType     string      `json:"contract_type"`
	ContractNumber   string      `json:"contract_number"`
	SigningDate      string      `json:"signing_date"`
	EffectiveDate    string      `json:"effective_date"`
	ExpiryDate       string      `json:"expiry_date"`
	SigningLocation  string      `json:"signing_location"`
	ContractStatus   string      `json:"contract_status"`
	Confidence       float64     `json:"confidence"`
	SourceReferences []SourceRef `json:"source_references"`
}

type PartyInfo struct {
	Name                string      `json:"name"`
	Type                string      `json:"type"`
	LegalRepresentative string      `json:"legal_representative"`
	IDNumber            string      `json:"id_number"`
	Address             string      `json:"address"`
	Contact             string      `json:"contact"`
	BankName            string      `json:"bank_name"`
	BankAccount         string      `json:"bank_account"`
	Confidence          float64     `json:"confidence"`
	SourceReferences    []SourceRef `json:"source_references"`
}

type FinancialInfo struct {
	TransactionAmount   string      `json:"transaction_amount"`
	Currency            string      `json:"currency"`
	PaymentMethod       string      `json:"payment_method"`
	PaymentSchedule     string      `json:"payment_schedule"`
	TaxInfo             string      `json:"tax_info"`
	InvoiceRequirements string      `json:"invoice_requirements"`
	DepositInfo         string      `json:"deposit_info"`
	Confidence          float64     `json:"confidence"`
	SourceReferences    []SourceRef `json:"source_references"`
}

type ValidityInfo struct {
	EffectiveCondition   string      `json:"effective_condition"`
	TerminationCondition string      `json:"termination_condition"`
	ContractStatus       string      `json:"contract_status"`
	TerminationDate      string      `json:"termination_date"`
	Confidence           float64     `json:"confidence"`
	SourceReferences     []SourceRef `json:"source_references"`
}

type RightsObligations struct {
	PartyAObligations   []string    `json:"party_a_obligations"`
	PartyBObligations   []string    `json:"party_b_obligations"`
	PartyARights        []string    `json:"party_a_rights"`
	PartyBRights        []string    `json:"party_b_rights"`
	PerformancePeriod   string      `json:"performance_period"`
	PerformanceLocation string      `json:"performance_location"`
	Confidence          float64     `json:"confidence"`
	SourceReferences    []SourceRef `json:"source_references"`
}

type BreachLiability struct {
	BreachScenarios    []string    `json:"breach_scenarios"`
	LiquidatedDamages  string      `json:"liquidated_damages"`
	CompensationLimit  string      `json:"compensation_limit"`
	ExemptionClauses   []string    `json:"exemption_clauses"`
	ForceMajeureClause string      `json:"force_majeure_clause"`
	Confidence         float64     `json:"confidence"`
	SourceReferences   []SourceRef `json:"source_references"`
}

type DisputeResolution struct {
	ResolutionMethod    string      `json:"resolution_method"`
	JurisdictionCourt   string      `json:"jurisdiction_court"`
	ArbitrationOrg      string      `json:"arbitration_org"`
	ArbitrationLocation string      `json:"arbitration_location"`
	GoverningLaw        string      `json:"governing_law"`
	Confidence          float64     `json:"confidence"`
	SourceReferences    []SourceRef `json:"source_references"`
}

type ConfidentialityIP struct {
	ConfidentialityClause string      `json:"confidentiality_clause"`
	ConfidentialityPeriod string      `json:"confidentiality_period"`
	IPOwnership           string      `json:"ip_ownership"`
	IPLicense             string      `json:"ip_license"`
	NonCompete            string      `json:"non_compete"`
	Confidence            float64     `json:"confidence"`
	SourceReferences      []SourceRef `json:"source_references"`
}

type OtherTerms struct {
	ModificationClause   string      `json:"modification_clause"`
	AssignmentClause     string      `json:"assignment_clause"`
	TerminationProcedure string      `json:"termination_procedure"`
	NoticeClause         string      `json:"notice_clause"`
	ContractCopies       string      `json:"contract_copies"`
	Attachments          []string    `json:"attachments"`
	SpecialTerms         []string    `json:"special_terms"`
	Confidence           float64     `json:"confidence"`
	SourceReferences     []SourceRef `json:"source_references"`
}

type SignatureInfo struct {
	PartyASignatory  string      `json:"party_a_signatory"`
	PartyASignDate   string      `json:"party_a_sign_date"`
	PartyASeal       bool        `json:"party_a_seal"`
	PartyBSignatory  string      `json:"party_b_signatory"`
	PartyBSignDate   string      `json:"party_b_sign_date"`
	PartyBSeal       bool        `json:"party_b_seal"`
	WitnessName      string      `json:"witness_name"`
	WitnessContact   string      `json:"witness_contact"`
	Confidence       float64     `json:"confidence"`
	SourceReferences []SourceRef `json:"source_references"`
}
