package eligibility

import (
	"slices"
	"time"
)

const (
	// RestorationWindowMonths is how long after dissolution a company may apply to be restored.
	RestorationWindowMonths = 120
	// MaxLimitedRestorationMonths caps the total length of a limited restoration.
	MaxLimitedRestorationMonths = 24
)

// RestorationType is a kind of restoration application.
type RestorationType string

const (
	RestorationFull    RestorationType = "FULL"
	RestorationLimited RestorationType = "LIMITED"
)

// RestorationInput describes a historical entity applying to be restored.
// Firm is set for sole proprietorships and partnerships, which are not restorable.
type RestorationInput struct {
	Now             time.Time
	Historical      bool
	Amalgamated     bool
	ContinuedOut    bool
	Firm            bool
	DissolutionDate time.Time
}

// RestorationResult lists the restoration types open to the entity.
// DueDate is the last day an application can be made.
type RestorationResult struct {
	Result
	AllowedTypes []RestorationType `json:"allowed_types,omitempty"`
}

// Allows reports whether the given restoration type may be filed.
func (r RestorationResult) Allows(t RestorationType) bool {
	return slices.Contains(r.AllowedTypes, t)
}

// EvaluateRestoration applies the restoration rule chain.
// Rule priority (fail-fast):
//  1. Entity must be historical
//  2. It must have ceased by dissolution, not amalgamation or continuation out
//  3. Its legal type must be restorable
//  4. It must have been dissolved within the restoration window
func EvaluateRestoration(in RestorationInput) RestorationResult {
	switch {
	case !in.Historical:
		return RestorationResult{Result: ineligible(ReasonNotHistorical)}
	case in.Amalgamated:
		return RestorationResult{Result: ineligible(ReasonAmalgamated)}
	case in.ContinuedOut:
		return RestorationResult{Result: ineligible(ReasonContinuedOut)}
	case in.Firm:
		return RestorationResult{Result: ineligible(ReasonLegalTypeNotRestorable)}
	case in.DissolutionDate.IsZero():
		return RestorationResult{Result: ineligible(ReasonMissingDissolutionDate)}
	}

	deadline := AddMonths(in.DissolutionDate, RestorationWindowMonths)
	if DateOf(in.Now).After(deadline) {
		return RestorationResult{Result: Result{DueDate: deadline, Reason: ReasonRestorationPeriodExpired}}
	}
	return RestorationResult{
		Result:       eligible(deadline),
		AllowedTypes: []RestorationType{RestorationFull, RestorationLimited},
	}
}

// LimitedRestorationInput describes an entity currently in limited restoration.
type LimitedRestorationInput struct {
	Now                  time.Time
	InLimitedRestoration bool
	RestorationDate      time.Time
	Expiry               time.Time
}

// LimitedRestorationResult covers both follow-ups to a limited restoration:
// extending it (IsEligible) and converting it to a full restoration.
// DueDate is the current expiry, the last day either can be filed.
type LimitedRestorationResult struct {
	Result
	CanConvertToFull bool      `json:"can_convert_to_full"`
	MaxExpiryDate    time.Time `json:"max_expiry_date,omitzero"`
}

// EvaluateLimitedRestorationExtension decides whether a limited restoration
// can be extended. An extension is possible while the restoration is still
// in effect and has not yet reached its maximum total length.
func EvaluateLimitedRestorationExtension(in LimitedRestorationInput) LimitedRestorationResult {
	if !in.InLimitedRestoration {
		return LimitedRestorationResult{Result: ineligible(ReasonNotInLimitedRestoration)}
	}
	if in.RestorationDate.IsZero() || in.Expiry.IsZero() {
		return LimitedRestorationResult{Result: ineligible(ReasonMissingLimitedDates)}
	}

	expiry := DateOf(in.Expiry)
	out := LimitedRestorationResult{
		Result:        Result{DueDate: expiry},
		MaxExpiryDate: AddMonths(in.RestorationDate, MaxLimitedRestorationMonths),
	}
	if DateOf(in.Now).After(expiry) {
		out.Reason = ReasonLimitedRestorationExpired
		return out
	}

	out.CanConvertToFull = true
	if !expiry.Before(out.MaxExpiryDate) {
		out.Reason = ReasonMaximumLimitedPeriodReached
		return out
	}
	out.IsEligible = true
	return out
}
