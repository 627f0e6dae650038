package eligibility

import "time"

const (
	// FirstAgmMonths is how long after incorporation the first AGM must be held.
	FirstAgmMonths = 18
	// SubsequentAgmMonths is how long after the previous AGM the next one must be held.
	SubsequentAgmMonths = 15
	// MaxExtensionMonths caps a single extension grant.
	MaxExtensionMonths = 6
	// MaxTotalExtensionMonths caps all grants for the same AGM.
	MaxTotalExtensionMonths = 12
	// RequestGraceDays is how long after the due date a late request is accepted.
	RequestGraceDays = 5
)

// AgmExtensionInput is everything needed to decide on an AGM extension request.
type AgmExtensionInput struct {
	Now                          time.Time
	GoodStanding                 bool
	FirstAgm                     bool
	IncorporationDate            time.Time
	PrevAgmDate                  time.Time
	TotalApprovedExtensionMonths int
}

// AgmExtensionResult adds the extension details to the common result.
// DueDate is the AGM due date as it stands, including earlier extensions.
type AgmExtensionResult struct {
	Result
	AlreadyExtended bool      `json:"already_extended"`
	ExtensionMonths int       `json:"extension_months,omitempty"`
	ExtendedDueDate time.Time `json:"extended_due_date,omitzero"`
	RequestDeadline time.Time `json:"request_deadline,omitzero"`
}

// EvaluateAgmExtension applies the AGM extension rule chain.
// Rule priority (fail-fast):
//  1. Good standing (hard fail)
//  2. A reference date to compute the due date from
//  3. Remaining extension allowance
//  4. Request made no later than the grace period after the due date
func EvaluateAgmExtension(in AgmExtensionInput) AgmExtensionResult {
	// Rule 1: Good standing
	if !in.GoodStanding {
		return AgmExtensionResult{Result: ineligible(ReasonNotInGoodStanding)}
	}

	// Rule 2: Reference date
	var base time.Time
	if in.FirstAgm {
		if in.IncorporationDate.IsZero() {
			return AgmExtensionResult{Result: ineligible(ReasonMissingFoundingDate)}
		}
		base = AddMonths(in.IncorporationDate, FirstAgmMonths)
	} else {
		if in.PrevAgmDate.IsZero() {
			return AgmExtensionResult{Result: ineligible(ReasonMissingPriorAgmDate)}
		}
		base = AddMonths(in.PrevAgmDate, SubsequentAgmMonths)
	}

	approved := max(in.TotalApprovedExtensionMonths, 0)
	due := AddMonths(base, approved)
	out := AgmExtensionResult{
		Result:          Result{DueDate: due},
		AlreadyExtended: approved > 0,
		RequestDeadline: due.AddDate(0, 0, RequestGraceDays),
	}

	// Rule 3: Allowance
	allowance := min(MaxExtensionMonths, MaxTotalExtensionMonths-approved)
	if allowance <= 0 {
		out.Reason = ReasonMaximumExtensionReached
		return out
	}

	// Rule 4: Request window
	if DateOf(in.Now).After(out.RequestDeadline) {
		out.Reason = ReasonRequestWindowClosed
		return out
	}

	out.IsEligible = true
	out.ExtensionMonths = allowance
	out.ExtendedDueDate = AddMonths(due, allowance)
	return out
}
