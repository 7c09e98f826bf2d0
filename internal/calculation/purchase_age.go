package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/strategy"
	"github.com/shopspring/decimal"
)

// NoFeasibleAge is returned when no purchase age up to the limit passes underwriting
const NoFeasibleAge = -1

// ResolvePurchaseAge searches forward year by year from the primary earner's
// start age for the first age at which the purchase passes loan underwriting.
// Between candidates the household is assumed to rent the interim unit while
// savings grow at the investment return. Each candidate is screened against the
// repriced property (land at land appreciation, building at inflation) with the
// loan term capped at the terminal age.
func ResolvePurchaseAge(s *strategy.Profile, h domain.Household, p domain.ParameterSet) (int, error) {
	if s == nil || !s.Owns() {
		return NoFeasibleAge, errors.New("purchase age can only be resolved for a purchase strategy")
	}
	start := h.StartAges[0]
	years := p.TerminalAge - start
	if years <= 0 {
		return NoFeasibleAge, fmt.Errorf("start age %d must be below terminal age %d", start, p.TerminalAge)
	}

	macro := newMacroPath(p, years)
	income := newIncomeModel(p, h, &macro)
	interimRent := decimal.NewFromInt(InterimRent)
	savings := h.InitialSavings

	limit := p.MaxPurchaseAge
	if limit >= p.TerminalAge {
		limit = p.TerminalAge - 1
	}
	for age := start; age <= limit; age++ {
		year := age - start
		inc := income.step(year)
		infl := macro.inflation[year]

		terms := s.Deferred(growth(macro.land, 0, year), infl).Terms()
		term := strategy.CappedTerm(p.LoanTermYears, age, p.TerminalAge)
		if strategy.Screen(terms, savings, inc.LabourTotal(), term, p) == nil {
			return age, nil
		}

		if year == 0 {
			savings = savings.Sub(interimRent.Mul(decimal.NewFromInt(4)))
		}
		takeHome := inc.LabourTotal().Mul(p.TakeHomeRatio).Add(inc.PensionTotal().Mul(p.PensionTakeHomeRatio))
		monthly := interimRent.Mul(infl).
			Add(livingCost(p, h, age, 2, infl)).
			Add(educationCost(p, h, age))
		spend := monthly.Mul(twelve).Add(specialExpenses(h, age, infl))
		savings = savings.Mul(one.Add(macro.returns[year])).Add(takeHome).Sub(spend).Round(0)
	}
	return NoFeasibleAge, nil
}

// PlanPurchase settles when a purchase strategy buys. A household with an
// explicit later purchase age keeps it. Otherwise the purchase is screened at
// the start age and, on failure, deferred to the first feasible age. When no
// age qualifies the strategy is infeasible and the underwriting failure is
// wrapped in the returned *strategy.InfeasibleError.
func (e *Engine) PlanPurchase(s *strategy.Profile, h domain.Household, p domain.ParameterSet) (domain.Household, error) {
	start := h.StartAges[0]
	if !s.Owns() || h.PurchaseAge > start {
		return h, nil
	}
	term := strategy.CappedTerm(p.LoanTermYears, start, p.TerminalAge)
	screenErr := strategy.Screen(s.Terms(), h.InitialSavings, h.TotalIncome(), term, p)
	if screenErr == nil {
		h.PurchaseAge = start
		return h, nil
	}

	age, err := ResolvePurchaseAge(s, h, p)
	if err != nil {
		return h, err
	}
	if age == NoFeasibleAge {
		ie := &strategy.InfeasibleError{
			Strategy: s.Name(),
			Reason:   fmt.Sprintf("loan underwriting fails at every age up to %d", p.MaxPurchaseAge),
			Cause:    screenErr,
		}
		var se *strategy.ScreeningError
		if errors.As(screenErr, &se) && se.Rule == strategy.RuleSavings {
			ie.Shortfall = s.Terms().ClosingCosts.Sub(h.InitialSavings)
		}
		e.logger().Warnf("%s: %v", s.Name(), ie)
		return h, ie
	}
	e.logger().Infof("%s: purchase deferred from age %d to %d: %v", s.Name(), start, age, screenErr)
	h.PurchaseAge = age
	return h, nil
}
