package authz

import (
	"encoding/json"
	"maps"
	"slices"
)

// Action is a fine-grained permission derived from role claims. Each action
// gates one filing or UI capability.
type Action string

const (
	ActionAddStaffComment        Action = "ADD_STAFF_COMMENT"
	ActionAdminFreeze            Action = "ADMIN_FREEZE"
	ActionChangeAddress          Action = "CHANGE_ADDRESS"
	ActionChangeAgmLocation      Action = "CHANGE_AGM_LOCATION"
	ActionChangeDirectors        Action = "CHANGE_DIRECTORS"
	ActionChangeRegistration     Action = "CHANGE_REGISTRATION"
	ActionConsentContinuationOut Action = "CONSENT_CONTINUATION_OUT"
	ActionDigitalCredentials     Action = "DIGITAL_CREDENTIALS"
	ActionDissolveCompany        Action = "DISSOLVE_COMPANY"
	ActionEditBusinessProfile    Action = "EDIT_BUSINESS_PROFILE"
	ActionFileAlteration         Action = "FILE_ALTERATION"
	ActionFileAnnualReport       Action = "FILE_ANNUAL_REPORT"
	ActionFileConversion         Action = "FILE_CONVERSION"
	ActionFileCorrection         Action = "FILE_CORRECTION"
	ActionFileCourtOrder         Action = "FILE_COURT_ORDER"
	ActionFileStaffNotation      Action = "FILE_STAFF_NOTATION"
	ActionPutBackOn              Action = "PUT_BACK_ON"
	ActionRequestAgmExtension    Action = "REQUEST_AGM_EXTENSION"
	ActionRestoreCompany         Action = "RESTORE_COMPANY"
	ActionSaveDrafts             Action = "SAVE_DRAFTS"
	ActionStaffPayment           Action = "STAFF_PAYMENT"
)

// IsValid checks if the action is one of the supported enum values.
func (a Action) IsValid() bool {
	_, ok := knownActions[a]
	return ok
}

// String returns the string representation.
func (a Action) String() string {
	return string(a)
}

var knownActions = NewActionSet(
	ActionAddStaffComment,
	ActionAdminFreeze,
	ActionChangeAddress,
	ActionChangeAgmLocation,
	ActionChangeDirectors,
	ActionChangeRegistration,
	ActionConsentContinuationOut,
	ActionDigitalCredentials,
	ActionDissolveCompany,
	ActionEditBusinessProfile,
	ActionFileAlteration,
	ActionFileAnnualReport,
	ActionFileConversion,
	ActionFileCorrection,
	ActionFileCourtOrder,
	ActionFileStaffNotation,
	ActionPutBackOn,
	ActionRequestAgmExtension,
	ActionRestoreCompany,
	ActionSaveDrafts,
	ActionStaffPayment,
)

// ActionSet is an unordered set of authorized actions.
type ActionSet map[Action]struct{}

// NewActionSet builds a set from the given actions; duplicates collapse.
func NewActionSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the action. A nil set contains nothing.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

func (s ActionSet) add(actions ...Action) {
	for _, a := range actions {
		s[a] = struct{}{}
	}
}

// Len returns the number of actions in the set.
func (s ActionSet) Len() int {
	return len(s)
}

// Equal reports whether both sets hold exactly the same actions.
func (s ActionSet) Equal(other ActionSet) bool {
	return maps.Equal(s, other)
}

// Sorted returns the actions in lexical order, for stable output.
func (s ActionSet) Sorted() []Action {
	return slices.Sorted(maps.Keys(s))
}

// MarshalJSON renders the set as a sorted array.
func (s ActionSet) MarshalJSON() ([]byte, error) {
	out := s.Sorted()
	if out == nil {
		out = []Action{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an array of action names; unknown names are dropped.
func (s *ActionSet) UnmarshalJSON(data []byte) error {
	var raw []Action
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := make(ActionSet, len(raw))
	for _, a := range raw {
		if a.IsValid() {
			set[a] = struct{}{}
		}
	}
	*s = set
	return nil
}
