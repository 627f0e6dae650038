package filing

import "time"

// LegalType is the corporate structure of a business.
type LegalType string

const (
	LegalTypeBC   LegalType = "BC"   // BC limited company
	LegalTypeBEN  LegalType = "BEN"  // benefit company
	LegalTypeCC   LegalType = "CC"   // community contribution company
	LegalTypeULC  LegalType = "ULC"  // unlimited liability company
	LegalTypeC    LegalType = "C"    // continued in limited company
	LegalTypeCBEN LegalType = "CBEN" // continued in benefit company
	LegalTypeCCC  LegalType = "CCC"  // continued in community contribution company
	LegalTypeCUL  LegalType = "CUL"  // continued in unlimited liability company
	LegalTypeCP   LegalType = "CP"   // cooperative association
	LegalTypeSP   LegalType = "SP"   // sole proprietorship
	LegalTypeGP   LegalType = "GP"   // general partnership
)

// IsValid checks if the legal type is one of the supported enum values.
func (t LegalType) IsValid() bool {
	return t.IsBCCompany() || t.IsFirm() || t == LegalTypeCP
}

// IsBCCompany reports whether the type is incorporated under the Business
// Corporations Act, including continued-in companies.
func (t LegalType) IsBCCompany() bool {
	switch t {
	case LegalTypeBC, LegalTypeBEN, LegalTypeCC, LegalTypeULC,
		LegalTypeC, LegalTypeCBEN, LegalTypeCCC, LegalTypeCUL:
		return true
	}
	return false
}

// IsFirm reports whether the type is a registered firm.
func (t LegalType) IsFirm() bool {
	return t == LegalTypeSP || t == LegalTypeGP
}

// State is the lifecycle state of a business.
type State string

const (
	StateActive      State = "ACTIVE"
	StateLiquidation State = "LIQUIDATION"
	StateHistorical  State = "HISTORICAL"
	StateDissolved   State = "DISSOLVED"
)

// IsValid checks if the state is one of the supported enum values.
func (s State) IsValid() bool {
	switch s {
	case StateActive, StateLiquidation, StateHistorical, StateDissolved:
		return true
	}
	return false
}

// EntitySnapshot is a read-only view of a business at the time of evaluation.
type EntitySnapshot struct {
	Identifier     string    `json:"identifier"`
	LegalName      string    `json:"legal_name,omitempty"`
	LegalType      LegalType `json:"legal_type"`
	State          State     `json:"state"`
	GoodStanding   bool      `json:"good_standing"`
	AdminFreeze    bool      `json:"admin_freeze"`
	HasCourtOrders bool      `json:"has_court_orders"`

	FoundingDate           time.Time `json:"founding_date,omitzero"`
	LastAnnualReportDate   time.Time `json:"last_annual_report_date,omitzero"`
	LastAddressChangeDate  time.Time `json:"last_address_change_date,omitzero"`
	LastDirectorChangeDate time.Time `json:"last_director_change_date,omitzero"`

	DissolutionDate time.Time `json:"dissolution_date,omitzero"`
	Amalgamated     bool      `json:"amalgamated"`
	ContinuedOut    bool      `json:"continued_out"`

	InLimitedRestoration     bool      `json:"in_limited_restoration"`
	RestorationDate          time.Time `json:"restoration_date,omitzero"`
	LimitedRestorationExpiry time.Time `json:"limited_restoration_expiry,omitzero"`

	// PrevAgmDate is zero when no AGM has been held yet.
	PrevAgmDate                  time.Time `json:"prev_agm_date,omitzero"`
	TotalApprovedExtensionMonths int       `json:"total_approved_extension_months"`
}

// IsFirstAgm reports whether the next AGM will be the first one.
func (s EntitySnapshot) IsFirstAgm() bool {
	return s.PrevAgmDate.IsZero()
}

// Type identifies a kind of filing.
type Type string

const (
	TypeAnnualReport                Type = "ANNUAL_REPORT"
	TypeAddressChange               Type = "ADDRESS_CHANGE"
	TypeDirectorChange              Type = "DIRECTOR_CHANGE"
	TypeChangeOfRegistration        Type = "CHANGE_OF_REGISTRATION"
	TypeAlteration                  Type = "ALTERATION"
	TypeAgmExtension                Type = "AGM_EXTENSION"
	TypeAgmLocationChange           Type = "AGM_LOCATION_CHANGE"
	TypeConversion                  Type = "CONVERSION"
	TypeConsentContinuationOut      Type = "CONSENT_CONTINUATION_OUT"
	TypeDissolution                 Type = "DISSOLUTION"
	TypeRestorationFull             Type = "RESTORATION_FULL"
	TypeRestorationLimited          Type = "RESTORATION_LIMITED"
	TypeLimitedRestorationExtension Type = "LIMITED_RESTORATION_EXTENSION"
	TypeLimitedRestorationToFull    Type = "LIMITED_RESTORATION_TO_FULL"
	TypePutBackOn                   Type = "PUT_BACK_ON"
	TypeCorrection                  Type = "CORRECTION"
	TypeCourtOrder                  Type = "COURT_ORDER"
	TypeRegistrarsNotation          Type = "REGISTRARS_NOTATION"
	TypeRegistrarsOrder             Type = "REGISTRARS_ORDER"
	TypeAdminFreeze                 Type = "ADMIN_FREEZE"
)

// Option is a filing the user may start, annotated with what the filing
// screen needs to know up front.
type Option struct {
	Code                     Type      `json:"code"`
	Label                    string    `json:"label"`
	FeeCode                  string    `json:"fee_code"`
	RequiresStaffPayment     bool      `json:"requires_staff_payment"`
	RequiresEligibilityCheck bool      `json:"requires_eligibility_check"`
	RequiresCourtOrderNumber bool      `json:"requires_court_order_number"`
	DueDate                  time.Time `json:"due_date,omitzero"`
	EarliestEffectiveDate    time.Time `json:"earliest_effective_date,omitzero"`
}
