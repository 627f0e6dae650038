package filing

import (
	"time"

	"bizfilings/internal/filing/eligibility"
)

// AgmExtensionInput builds the AGM extension calculator input for a business.
func AgmExtensionInput(s EntitySnapshot, now time.Time) eligibility.AgmExtensionInput {
	return eligibility.AgmExtensionInput{
		Now:                          now,
		GoodStanding:                 s.GoodStanding,
		FirstAgm:                     s.IsFirstAgm(),
		IncorporationDate:            s.FoundingDate,
		PrevAgmDate:                  s.PrevAgmDate,
		TotalApprovedExtensionMonths: s.TotalApprovedExtensionMonths,
	}
}

// RestorationInput builds the restoration calculator input for a business.
func RestorationInput(s EntitySnapshot, now time.Time) eligibility.RestorationInput {
	return eligibility.RestorationInput{
		Now:             now,
		Historical:      s.State == StateHistorical,
		Amalgamated:     s.Amalgamated,
		ContinuedOut:    s.ContinuedOut,
		Firm:            s.LegalType.IsFirm(),
		DissolutionDate: s.DissolutionDate,
	}
}

// LimitedRestorationInput builds the limited restoration calculator input for a business.
func LimitedRestorationInput(s EntitySnapshot, now time.Time) eligibility.LimitedRestorationInput {
	return eligibility.LimitedRestorationInput{
		Now:                  now,
		InLimitedRestoration: s.InLimitedRestoration,
		RestorationDate:      s.RestorationDate,
		Expiry:               s.LimitedRestorationExpiry,
	}
}

// checks runs each sub-evaluator at most once per evaluation. Results are
// never kept past the Evaluate call that created them.
type checks struct {
	snapshot EntitySnapshot
	now      time.Time

	agm         *eligibility.AgmExtensionResult
	restoration *eligibility.RestorationResult
	limited     *eligibility.LimitedRestorationResult
}

// run reports whether the filing passes its check and the due date to show.
func (c *checks) run(k check) (time.Time, bool) {
	switch k {
	case checkAgmExtension:
		if c.agm == nil {
			res := eligibility.EvaluateAgmExtension(AgmExtensionInput(c.snapshot, c.now))
			c.agm = &res
		}
		return c.agm.DueDate, c.agm.IsEligible

	case checkRestorationFull, checkRestorationLimited:
		if c.restoration == nil {
			res := eligibility.EvaluateRestoration(RestorationInput(c.snapshot, c.now))
			c.restoration = &res
		}
		want := eligibility.RestorationFull
		if k == checkRestorationLimited {
			want = eligibility.RestorationLimited
		}
		return c.restoration.DueDate, c.restoration.IsEligible && c.restoration.Allows(want)

	case checkLimitedExtension, checkLimitedToFull:
		if c.limited == nil {
			res := eligibility.EvaluateLimitedRestorationExtension(LimitedRestorationInput(c.snapshot, c.now))
			c.limited = &res
		}
		if k == checkLimitedToFull {
			return c.limited.DueDate, c.limited.CanConvertToFull
		}
		return c.limited.DueDate, c.limited.IsEligible
	}
	return time.Time{}, false
}
