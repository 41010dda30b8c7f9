package entity

import "github.com/joseph-ayodele/contracts-extractor/constants"

// Unknown is the sentinel for a string value that could not be extracted.
const Unknown = "Unknown"

// Confidence defaults. PartialConfidence is reported for a section the model
// returned without a usable confidence; FailureConfidence marks the fallback record.
const (
	PartialConfidence = 0.8
	FailureConfidence = 0.0
)

// NewEmptyRecord returns the all-sentinel record with every section's
// confidence set to conf. Lists are empty, never nil.
func NewEmptyRecord(conf float64) ContractRecord {
	return ContractRecord{
		ContractInfo: ContractInfo{
			ContractType:     Unknown,
			ContractNumber:   Unknown,
			SigningDate:      Unknown,
			EffectiveDate:    Unknown,
			ExpiryDate:       Unknown,
			SigningLocation:  Unknown,
			ContractStatus:   Unknown,
			Confidence:       conf,
			SourceReferences: []SourceRef{},
		},
		PartyA: emptyParty(conf),
		PartyB: emptyParty(conf),
		Financial: FinancialInfo{
			TransactionAmount:   Unknown,
			Currency:            Unknown,
			PaymentMethod:       Unknown,
			PaymentSchedule:     Unknown,
			TaxInfo:             Unknown,
			InvoiceRequirements: Unknown,
			DepositInfo:         Unknown,
			Confidence:          conf,
			SourceReferences:    []SourceRef{},
		},
		Validity: ValidityInfo{
			EffectiveCondition:   Unknown,
			TerminationCondition: Unknown,
			ContractStatus:       Unknown,
			TerminationDate:      Unknown,
			Confidence:           conf,
			SourceReferences:     []SourceRef{},
		},
		RightsObligations: RightsObligations{
			PartyAObligations:   []string{},
			PartyBObligations:   []string{},
			PartyARights:        []string{},
			PartyBRights:        []string{},
			PerformancePeriod:   Unknown,
			PerformanceLocation: Unknown,
			Confidence:          conf,
			SourceReferences:    []SourceRef{},
		},
		BreachLiability: BreachLiability{
			BreachScenarios:    []string{},
			LiquidatedDamages:  Unknown,
			CompensationLimit:  Unknown,
			ExemptionClauses:   []string{},
			ForceMajeureClause: Unknown,
			Confidence:         conf,
			SourceReferences:   []SourceRef{},
		},
		DisputeResolution: DisputeResolution{
			ResolutionMethod:    Unknown,
			JurisdictionCourt:   Unknown,
			ArbitrationOrg:      Unknown,
			ArbitrationLocation: Unknown,
			GoverningLaw:        Unknown,
			Confidence:          conf,
			SourceReferences:    []SourceRef{},
		},
		ConfidentialityIP: ConfidentialityIP{
			ConfidentialityClause: Unknown,
			ConfidentialityPeriod: Unknown,
			IPOwnership:           Unknown,
			IPLicense:             Unknown,
			NonCompete:            Unknown,
			Confidence:            conf,
			SourceReferences:      []SourceRef{},
		},
		OtherTerms: OtherTerms{
			ModificationClause:   Unknown,
			AssignmentClause:     Unknown,
			TerminationProcedure: Unknown,
			NoticeClause:         Unknown,
			ContractCopies:       Unknown,
			Attachments:          []string{},
			SpecialTerms:         []string{},
			Confidence:           conf,
			SourceReferences:     []SourceRef{},
		},
		Signature: SignatureInfo{
			PartyASignatory:  Unknown,
			PartyASignDate:   Unknown,
			PartyBSignatory:  Unknown,
			PartyBSignDate:   Unknown,
			WitnessName:      Unknown,
			WitnessContact:   Unknown,
			Confidence:       conf,
			SourceReferences: []SourceRef{},
		},
	}
}

func emptyParty(conf float64) PartyInfo {
	return PartyInfo{
		Name:                Unknown,
		Type:                Unknown,
		LegalRepresentative: Unknown,
		IDNumber:            Unknown,
		Address:             Unknown,
		Contact:             Unknown,
		BankName:            Unknown,
		BankAccount:         Unknown,
		Confidence:          conf,
		SourceReferences:    []SourceRef{},
	}
}

// DefaultRecord is the fallback returned when nothing could be recovered
// from the model output.
func DefaultRecord() ContractRecord {
	rec := NewEmptyRecord(FailureConfidence)
	rec.OCRRequired = true
	return rec
}

// NewEmptyVariant returns the all-sentinel field set for ct, or nil when ct
// has no type-specific fields.
func NewEmptyVariant(ct constants.ContractType, conf float64) Variant {
	switch ct {
	case constants.Employment:
		return EmploymentFields{
			Position:         Unknown,
			WorkLocation:     Unknown,
			WorkHours:        Unknown,
			ProbationPeriod:  Unknown,
			Salary:           Unknown,
			SocialInsurance:  Unknown,
			NonCompeteClause: Unknown,
			Confidence:       conf,
		}
	case constants.Lease:
		return LeaseFields{
			LeasedProperty:            Unknown,
			LeaseArea:                 Unknown,
			LeasePurpose:              Unknown,
			RentAmount:                Unknown,
			RentPaymentCycle:          Unknown,
			Deposit:                   Unknown,
			MaintenanceResponsibility: Unknown,
			Confidence:                conf,
		}
	case constants.Loan:
		return LoanFields{
			LoanAmount:      Unknown,
			LoanPurpose:     Unknown,
			LoanTerm:        Unknown,
			InterestRate:    Unknown,
			RepaymentMethod: Unknown,
			Collateral:      Unknown,
			Guarantor:       Unknown,
			Confidence:      conf,
		}
	case constants.Service:
		return ServiceFields{
			ServiceContent:     Unknown,
			ServiceStandard:    Unknown,
			ServicePeriod:      Unknown,
			ServiceFee:         Unknown,
			AcceptanceCriteria: Unknown,
			Confidence:         conf,
		}
	case constants.Purchase:
		return PurchaseFields{
			GoodsName:        Unknown,
			GoodsSpec:        Unknown,
			GoodsQuantity:    Unknown,
			GoodsPrice:       Unknown,
			DeliveryLocation: Unknown,
			DeliveryDate:     Unknown,
			QualityStandard:  Unknown,
			WarrantyPeriod:   Unknown,
			Confidence:       conf,
		}
	}
	return nil
}
