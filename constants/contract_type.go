package constants

import (
	"strings"
)

type ContractType string

const (
	Purchase   ContractType = "purchase"
	Lease      ContractType = "lease"
	Loan       ContractType = "loan"
	Employment ContractType = "employment"
	Service    ContractType = "service"
	OtherType  ContractType = "other"
)

var allContractTypes = []ContractType{
	Purchase,
	Lease,
	Loan,
	Employment,
	Service,
	OtherType,
}

var contractTypeSynonyms = map[string]ContractType{
	"sale":        Purchase,
	"sales":       Purchase,
	"procurement": Purchase,
	"supply":      Purchase,
	"rental":      Lease,
	"tenancy":     Lease,
	"lending":     Loan,
	"credit":      Loan,
	"borrowing":   Loan,
	"labor":       Employment,
	"labour":      Employment,
	"services":    Service,
	"consulting":  Service,
	"outsourcing": Service,
	"采购":          Purchase,
	"买卖":          Purchase,
	"租赁":          Lease,
	"借款":          Loan,
	"贷款":          Loan,
	"劳动":          Employment,
	"服务":          Service,
}

// ContractTypesAsStrings returns the canonical contract types in catalogue order.
func ContractTypesAsStrings() []string {
	result := make([]string, len(allContractTypes))
	for i, ct := range allContractTypes {
		result[i] = string(ct)
	}
	return result
}

// CanonicalizeContractType maps free-form labels (including the model's own wording)
// onto a known contract type. The bool is false when nothing matched.
func CanonicalizeContractType(input string) (ContractType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	if ct, ok := contractTypeSynonyms[normalized]; ok {
		return ct, true
	}

	for _, ct := range allContractTypes {
		if normalized == string(ct) {
			return ct, true
		}
	}
	return "", false
}

// HasVariant reports whether the contract type owns a type-specific field set.
func (c ContractType) HasVariant() bool {
	switch c {
	case Purchase, Lease, Loan, Employment, Service:
		return true
	}
	return false
}
