package filing

import "bizfilings/internal/authz"

// NoFeeCode is the fee code of filings that are never charged.
const NoFeeCode = "NOFEE"

type check int

const (
	checkNone check = iota
	checkAgmExtension
	checkRestorationFull
	checkRestorationLimited
	checkLimitedExtension
	checkLimitedToFull
)

// rule is the static description of a filing type.
type rule struct {
	label  string
	action authz.Action
	check  check

	// staffOnly filings survive an admin freeze.
	staffOnly bool

	// needsGoodStanding filings are hidden while the business is not in good standing.
	needsGoodStanding bool

	// courtOrderSensitive filings must cite a court order when the business has any.
	courtOrderSensitive bool
}

var defaultRules = map[Type]rule{
	TypeAnnualReport:           {label: "File Annual Report", action: authz.ActionFileAnnualReport},
	TypeAddressChange:          {label: "Change Office Addresses", action: authz.ActionChangeAddress},
	TypeDirectorChange:         {label: "Change Directors", action: authz.ActionChangeDirectors},
	TypeChangeOfRegistration:   {label: "Change Registration", action: authz.ActionChangeRegistration},
	TypeAlteration:             {label: "Alter Company Information", action: authz.ActionFileAlteration, courtOrderSensitive: true},
	TypeAgmExtension:           {label: "Request AGM Extension", action: authz.ActionRequestAgmExtension, check: checkAgmExtension},
	TypeAgmLocationChange:      {label: "Request AGM Location Change", action: authz.ActionChangeAgmLocation},
	TypeConversion:             {label: "Record Conversion", action: authz.ActionFileConversion, staffOnly: true},
	TypeConsentContinuationOut: {label: "Consent to Continue Out", action: authz.ActionConsentContinuationOut, needsGoodStanding: true},
	TypeDissolution: {
		label:               "Dissolve Business",
		action:              authz.ActionDissolveCompany,
		needsGoodStanding:   true,
		courtOrderSensitive: true,
	},
	TypeRestorationFull:    {label: "Full Restoration", action: authz.ActionRestoreCompany, staffOnly: true, check: checkRestorationFull},
	TypeRestorationLimited: {label: "Limited Restoration", action: authz.ActionRestoreCompany, staffOnly: true, check: checkRestorationLimited},
	TypeLimitedRestorationExtension: {
		label:     "Extend Limited Restoration",
		action:    authz.ActionRestoreCompany,
		staffOnly: true,
		check:     checkLimitedExtension,
	},
	TypeLimitedRestorationToFull: {
		label:     "Convert to Full Restoration",
		action:    authz.ActionRestoreCompany,
		staffOnly: true,
		check:     checkLimitedToFull,
	},
	TypePutBackOn:          {label: "Put Back On", action: authz.ActionPutBackOn, staffOnly: true},
	TypeCorrection:         {label: "File Correction", action: authz.ActionFileCorrection, staffOnly: true, courtOrderSensitive: true},
	TypeCourtOrder:         {label: "Add Court Order", action: authz.ActionFileCourtOrder, staffOnly: true},
	TypeRegistrarsNotation: {label: "Add Registrar's Notation", action: authz.ActionFileStaffNotation, staffOnly: true},
	TypeRegistrarsOrder:    {label: "Add Registrar's Order", action: authz.ActionFileStaffNotation, staffOnly: true},
	TypeAdminFreeze:        {label: "Freeze Business", action: authz.ActionAdminFreeze, staffOnly: true},
}

// defaultPriority fixes the order options are presented in.
var defaultPriority = []Type{
	TypeAnnualReport,
	TypeAddressChange,
	TypeDirectorChange,
	TypeChangeOfRegistration,
	TypeAlteration,
	TypeAgmExtension,
	TypeAgmLocationChange,
	TypeConversion,
	TypeConsentContinuationOut,
	TypeDissolution,
	TypeRestorationFull,
	TypeRestorationLimited,
	TypeLimitedRestorationExtension,
	TypeLimitedRestorationToFull,
	TypePutBackOn,
	TypeCorrection,
	TypeCourtOrder,
	TypeRegistrarsNotation,
	TypeRegistrarsOrder,
	TypeAdminFreeze,
}

type feeFamily string

const (
	familyAny     feeFamily = "*"
	familyCompany feeFamily = "company"
	familyCoop    feeFamily = "coop"
	familyFirm    feeFamily = "firm"
)

func familyOf(t LegalType) feeFamily {
	switch {
	case t.IsBCCompany():
		return familyCompany
	case t.IsFirm():
		return familyFirm
	case t == LegalTypeCP:
		return familyCoop
	}
	return familyAny
}

// defaultFees maps a filing type to its fee code per legal type family.
// familyAny applies when no family-specific code exists.
var defaultFees = map[Type]map[feeFamily]string{
	TypeAnnualReport:                {familyCompany: "BCANN", familyCoop: "OTANN"},
	TypeAddressChange:               {familyCompany: "BCADD", familyCoop: "OTADD"},
	TypeDirectorChange:              {familyCompany: "BCCDR", familyCoop: "OTCDR"},
	TypeChangeOfRegistration:        {familyFirm: "FMCHANGE"},
	TypeAlteration:                  {familyCompany: "ALTER"},
	TypeAgmExtension:                {familyCompany: "AGMDT"},
	TypeAgmLocationChange:           {familyCompany: "AGMLC"},
	TypeConversion:                  {familyFirm: "FMCONV"},
	TypeConsentContinuationOut:      {familyCompany: "CONTO"},
	TypeDissolution:                 {familyCompany: "DIS_VOL", familyCoop: "OTDIS", familyFirm: "FMDIS"},
	TypeRestorationFull:             {familyCompany: "RESTF"},
	TypeRestorationLimited:          {familyCompany: "RESTL"},
	TypeLimitedRestorationExtension: {familyCompany: "RESXL"},
	TypeLimitedRestorationToFull:    {familyCompany: "RESXF"},
	TypePutBackOn:                   {familyAny: NoFeeCode},
	TypeCorrection:                  {familyAny: "CRCTN"},
	TypeCourtOrder:                  {familyAny: "COURT"},
	TypeRegistrarsNotation:          {familyAny: NoFeeCode},
	TypeRegistrarsOrder:             {familyAny: NoFeeCode},
	TypeAdminFreeze:                 {familyAny: NoFeeCode},
}

// candidates lists the filing types that are structurally possible for the
// business given its state and legal type, before any permission check.
func candidates(s EntitySnapshot) []Type {
	staffFilings := []Type{TypeCorrection, TypeCourtOrder, TypeRegistrarsNotation, TypeRegistrarsOrder}

	switch s.State {
	case StateActive:
		var out []Type
		switch {
		case s.LegalType.IsFirm():
			out = append(out, TypeChangeOfRegistration, TypeConversion, TypeDissolution)
		case s.LegalType == LegalTypeCP:
			out = append(out, TypeAnnualReport, TypeAddressChange, TypeDirectorChange, TypeDissolution)
		case s.LegalType.IsBCCompany():
			out = append(out,
				TypeAnnualReport, TypeAddressChange, TypeDirectorChange, TypeAlteration,
				TypeAgmExtension, TypeAgmLocationChange, TypeConsentContinuationOut, TypeDissolution,
			)
			if s.InLimitedRestoration {
				out = append(out, TypeLimitedRestorationExtension, TypeLimitedRestorationToFull)
			}
		default:
			return nil
		}
		return append(append(out, staffFilings...), TypeAdminFreeze)

	case StateLiquidation:
		if s.LegalType.IsFirm() {
			return staffFilings
		}
		return append([]Type{TypeAddressChange, TypeDirectorChange}, staffFilings...)

	case StateHistorical:
		var out []Type
		if s.LegalType.IsBCCompany() {
			out = append(out, TypeRestorationFull, TypeRestorationLimited)
		}
		return append(append(out, TypePutBackOn), TypeCourtOrder, TypeRegistrarsNotation, TypeRegistrarsOrder)
	}

	// Dissolved, or a state we do not know: nothing can be filed.
	return nil
}
