// Package filing decides which filings a user may start against a business.
//
// Evaluation is a fixed sequence of passes over the filing types that are
// structurally possible for the business's state and legal type:
//
//  1. authorization: the user's action set must hold the filing's action
//  2. flags: admin freeze, good standing and court orders filter or annotate
//  3. eligibility: date-based checks for AGM extensions and restorations
//
// Filings that fail any pass are omitted rather than returned disabled.
// The result is ordered by a fixed priority table.
package filing

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"bizfilings/internal/authz"
	"bizfilings/internal/filing/eligibility"
)

// ErrUnknownFilingType means a filing type is missing from one of the lookup
// tables. It is a programming defect: the filing is logged and left out.
var ErrUnknownFilingType = errors.New("unknown filing type")

// Evaluator evaluates filing options. It holds only immutable tables and is
// safe for concurrent use.
type Evaluator struct {
	logger *slog.Logger
	rules  map[Type]rule
	fees   map[Type]map[feeFamily]string
	rank   map[Type]int
}

func NewEvaluator(logger *slog.Logger) *Evaluator {
	return newEvaluator(logger, defaultRules, defaultFees, defaultPriority)
}

func newEvaluator(logger *slog.Logger, rules map[Type]rule, fees map[Type]map[feeFamily]string, priority []Type) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rank := make(map[Type]int, len(priority))
	for i, t := range priority {
		rank[t] = i
	}
	return &Evaluator{logger: logger, rules: rules, fees: fees, rank: rank}
}

// Evaluate returns the filings that may be started for the business, in
// presentation order. An empty result is normal, e.g. for a dissolved business.
func (e *Evaluator) Evaluate(s EntitySnapshot, actions authz.ActionSet, now time.Time) []Option {
	checks := &checks{snapshot: s, now: now}
	out := make([]Option, 0)

	for _, t := range candidates(s) {
		r, opt, err := e.lookup(t, s)
		if err != nil {
			e.logger.Error("filing table is missing an entry",
				"filing_type", t,
				"business", s.Identifier,
				"error", err,
			)
			continue
		}

		// Pass 1: authorization
		if !actions.Has(r.action) {
			continue
		}

		// Pass 2: flags
		if s.AdminFreeze && !r.staffOnly {
			continue
		}
		if !s.GoodStanding && r.needsGoodStanding {
			continue
		}
		opt.RequiresCourtOrderNumber = s.HasCourtOrders && r.courtOrderSensitive

		// Pass 3: eligibility
		if r.check != checkNone {
			due, ok := checks.run(r.check)
			if !ok {
				continue
			}
			opt.DueDate = due
		}

		opt.RequiresStaffPayment = actions.Has(authz.ActionStaffPayment) && opt.FeeCode != NoFeeCode
		out = append(out, opt)
	}

	slices.SortStableFunc(out, func(a, b Option) int {
		return e.rank[a.Code] - e.rank[b.Code]
	})
	return out
}

// lookup resolves every table entry for t and builds the unannotated option.
func (e *Evaluator) lookup(t Type, s EntitySnapshot) (rule, Option, error) {
	r, ok := e.rules[t]
	if !ok {
		return rule{}, Option{}, fmt.Errorf("%w: %s has no rule", ErrUnknownFilingType, t)
	}
	if _, ok := e.rank[t]; !ok {
		return rule{}, Option{}, fmt.Errorf("%w: %s has no priority", ErrUnknownFilingType, t)
	}
	fee, err := e.feeCode(t, s.LegalType)
	if err != nil {
		return rule{}, Option{}, err
	}

	opt := Option{
		Code:                     t,
		Label:                    r.label,
		FeeCode:                  fee,
		RequiresEligibilityCheck: r.check != checkNone,
	}
	switch t {
	case TypeAnnualReport:
		opt.DueDate = nextAnnualReportDue(s)
	case TypeAddressChange:
		opt.EarliestEffectiveDate = firstSet(s.LastAddressChangeDate, s.FoundingDate)
	case TypeDirectorChange:
		opt.EarliestEffectiveDate = firstSet(s.LastDirectorChangeDate, s.FoundingDate)
	case TypeAdminFreeze:
		if s.AdminFreeze {
			opt.Label = "Unfreeze Business"
		}
	}
	return r, opt, nil
}

func (e *Evaluator) feeCode(t Type, legalType LegalType) (string, error) {
	byFamily, ok := e.fees[t]
	if !ok {
		return "", fmt.Errorf("%w: %s has no fee entry", ErrUnknownFilingType, t)
	}
	if code, ok := byFamily[familyOf(legalType)]; ok {
		return code, nil
	}
	if code, ok := byFamily[familyAny]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %s has no fee for legal type %s", ErrUnknownFilingType, t, legalType)
}

// nextAnnualReportDue is the anniversary following the last annual report,
// or the founding date when none has been filed.
func nextAnnualReportDue(s EntitySnapshot) time.Time {
	anchor := firstSet(s.LastAnnualReportDate, s.FoundingDate)
	if anchor.IsZero() {
		return time.Time{}
	}
	return eligibility.AddMonths(anchor, 12)
}

func firstSet(dates ...time.Time) time.Time {
	for _, d := range dates {
		if !d.IsZero() {
			return eligibility.DateOf(d)
		}
	}
	return time.Time{}
}
