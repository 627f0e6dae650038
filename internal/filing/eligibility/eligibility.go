// Package eligibility holds the date-based calculators that decide whether a
// filing which needs more than a permission check may be started.
//
// Every calculator is pure. "Now" is part of the input so results are
// reproducible; nothing here reads the wall clock.
package eligibility

import "time"

// Reason explains why a filing is not eligible. Empty when eligible.
type Reason string

const (
	ReasonNotInGoodStanding           Reason = "NOT_IN_GOOD_STANDING"
	ReasonMissingFoundingDate         Reason = "MISSING_FOUNDING_DATE"
	ReasonMissingPriorAgmDate         Reason = "MISSING_PRIOR_AGM_DATE"
	ReasonMaximumExtensionReached     Reason = "MAXIMUM_EXTENSION_REACHED"
	ReasonRequestWindowClosed         Reason = "REQUEST_WINDOW_CLOSED"
	ReasonNotHistorical               Reason = "NOT_HISTORICAL"
	ReasonAmalgamated                 Reason = "AMALGAMATED"
	ReasonContinuedOut                Reason = "CONTINUED_OUT"
	ReasonLegalTypeNotRestorable      Reason = "LEGAL_TYPE_NOT_RESTORABLE"
	ReasonMissingDissolutionDate      Reason = "MISSING_DISSOLUTION_DATE"
	ReasonRestorationPeriodExpired    Reason = "RESTORATION_PERIOD_EXPIRED"
	ReasonNotInLimitedRestoration     Reason = "NOT_IN_LIMITED_RESTORATION"
	ReasonMissingLimitedDates         Reason = "MISSING_LIMITED_RESTORATION_DATES"
	ReasonLimitedRestorationExpired   Reason = "LIMITED_RESTORATION_EXPIRED"
	ReasonMaximumLimitedPeriodReached Reason = "MAXIMUM_LIMITED_PERIOD_REACHED"
)

// Result is the common outcome of every calculator.
type Result struct {
	IsEligible bool      `json:"is_eligible"`
	DueDate    time.Time `json:"due_date,omitzero"`
	Reason     Reason    `json:"reason,omitempty"`
}

func eligible(due time.Time) Result {
	return Result{IsEligible: true, DueDate: due}
}

func ineligible(reason Reason) Result {
	return Result{Reason: reason}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month is Feb 28/29, not Mar 3).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := DateOf(t).Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
