package entity

import (
	"encoding/json"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

// Variant is one of the five contract-type specific field sets. The set is
// closed: only the types in this file implement it.
type Variant interface {
	ContractType() constants.ContractType
	isVariant()
}

type EmploymentFields struct {
	Position         string  `json:"position"`
	WorkLocation     string  `json:"work_location"`
	WorkHours        string  `json:"work_hours"`
	ProbationPeriod  string  `json:"probation_period"`
	Salary           string  `json:"salary"`
	SocialInsurance  string  `json:"social_insurance"`
	NonCompeteClause string  `json:"non_compete_clause"`
	Confidence       float64 `json:"confidence"`
}

type LeaseFields struct {
	LeasedProperty            string  `json:"leased_property"`
	LeaseArea                 string  `json:"lease_area"`
	LeasePurpose              string  `json:"lease_purpose"`
	RentAmount                string  `json:"rent_amount"`
	RentPaymentCycle          string  `json:"rent_payment_cycle"`
	Deposit                   string  `json:"deposit"`
	MaintenanceResponsibility string  `json:"maintenance_responsibility"`
	Confidence                float64 `json:"confidence"`
}

type LoanFields struct {
	LoanAmount      string  `json:"loan_amount"`
	LoanPurpose     string  `json:"loan_purpose"`
	LoanTerm        string  `json:"loan_term"`
	InterestRate    string  `json:"interest_rate"`
	RepaymentMethod string  `json:"repayment_method"`
	Collateral      string  `json:"collateral"`
	Guarantor       string  `json:"guarantor"`
	Confidence      float64 `json:"confidence"`
}

type ServiceFields struct {
	ServiceContent     string  `json:"service_content"`
	ServiceStandard    string  `json:"service_standard"`
	ServicePeriod      string  `json:"service_period"`
	ServiceFee         string  `json:"service_fee"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	Confidence         float64 `json:"confidence"`
}

type PurchaseFields struct {
	GoodsName        string  `json:"goods_name"`
	GoodsSpec        string  `json:"goods_spec"`
	GoodsQuantity    string  `json:"goods_quantity"`
	GoodsPrice       string  `json:"goods_price"`
	DeliveryLocation string  `json:"delivery_location"`
	DeliveryDate     string  `json:"delivery_date"`
	QualityStandard  string  `json:"quality_standard"`
	WarrantyPeriod   string  `json:"warranty_period"`
	Confidence       float64 `json:"confidence"`
}

func (EmploymentFields) ContractType() constants.ContractType { return constants.Employment }
func (LeaseFields) ContractType() constants.ContractType      { return constants.Lease }
func (LoanFields) ContractType() constants.ContractType       { return constants.Loan }
func (ServiceFields) ContractType() constants.ContractType    { return constants.Service }
func (PurchaseFields) ContractType() constants.ContractType   { return constants.Purchase }

func (EmploymentFields) isVariant() {}
func (LeaseFields) isVariant()      {}
func (LoanFields) isVariant()       {}
func (ServiceFields) isVariant()    {}
func (PurchaseFields) isVariant()   {}

// TypeSpecific holds at most one Variant. The zero value holds none.
type TypeSpecific struct {
	v Variant
}

// NewTypeSpecific wraps v; a nil v yields the empty union.
func NewTypeSpecific(v Variant) TypeSpecific {
	return TypeSpecific{v: v}
}

// Variant returns the populated variant, or nil.
func (t TypeSpecific) Variant() Variant { return t.v }

// IsNone reports whether no variant is populated.
func (t TypeSpecific) IsNone() bool { return t.v == nil }

// ContractType returns the type of the populated variant, or "" when none is.
func (t TypeSpecific) ContractType() constants.ContractType {
	if t.v == nil {
		return ""
	}
	return t.v.ContractType()
}

func (t TypeSpecific) Employment() (EmploymentFields, bool) {
	f, ok := t.v.(EmploymentFields)
	return f, ok
}

func (t TypeSpecific) Lease() (LeaseFields, bool) {
	f, ok := t.v.(LeaseFields)
	return f, ok
}

func (t TypeSpecific) Loan() (LoanFields, bool) {
	f, ok := t.v.(LoanFields)
	return f, ok
}

func (t TypeSpecific) Service() (ServiceFields, bool) {
	f, ok := t.v.(ServiceFields)
	return f, ok
}

func (t TypeSpecific) Purchase() (PurchaseFields, bool) {
	f, ok := t.v.(PurchaseFields)
	return f, ok
}

// typeSpecificSlots is the wire shape: five nullable slots, at most one set.
type typeSpecificSlots struct {
	Employment *EmploymentFields `json:"employment_fields"`
	Lease      *LeaseFields      `json:"lease_fields"`
	Loan       *LoanFields       `json:"loan_fields"`
	Service    *ServiceFields    `json:"service_fields"`
	Purchase   *PurchaseFields   `json:"purchase_fields"`
}

func (t TypeSpecific) MarshalJSON() ([]byte, error) {
	var slots typeSpecificSlots
	switch v := t.v.(type) {
	case EmploymentFields:
		slots.Employment = &v
	case LeaseFields:
		slots.Lease = &v
	case LoanFields:
		slots.Loan = &v
	case ServiceFields:
		slots.Service = &v
	case PurchaseFields:
		slots.Purchase = &v
	}
	return json.Marshal(slots)
}

// UnmarshalJSON reads the slot shape back. If several slots are set the
// first one in catalogue order wins.
func (t *TypeSpecific) UnmarshalJSON(b []byte) error {
	var slots typeSpecificSlots
	if err := json.Unmarshal(b, &slots); err != nil {
		return err
	}
	switch {
	case slots.Employment != nil:
		t.v = *slots.Employment
	case slots.Lease != nil:
		t.v = *slots.Lease
	case slots.Loan != nil:
		t.v = *slots.Loan
	case slots.Service != nil:
		t.v = *slots.Service
	case slots.Purchase != nil:
		t.v = *slots.Purchase
	default:
		t.v = nil
	}
	return nil
}

// VariantSlotKey returns the wire key holding the variant of contract type ct.
func VariantSlotKey(ct constants.ContractType) string {
	switch ct {
	case constants.Employment:
		return "employment_fields"
	case constants.Lease:
		return "lease_fields"
	case constants.Loan:
		return "loan_fields"
	case constants.Service:
		return "service_fields"
	case constants.Purchase:
		return "purchase_fields"
	}
	return ""
}

// VariantOrder is the catalogue order of the type-specific slots.
var VariantOrder = []constants.ContractType{
	constants.Employment,
	constants.Lease,
	constants.Loan,
	constants.Service,
	constants.Purchase,
}
