package strategy

import (
	"fmt"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

// InfeasibleError reports a strategy that cannot even start. Callers skip the
// strategy; the Monte Carlo driver folds it into the failure statistics.
type InfeasibleError struct {
	Strategy  string
	Reason    string
	Shortfall decimal.Decimal
	Cause     error
}

func (e *InfeasibleError) Error() string {
	msg := fmt.Sprintf("%s is infeasible: %s", e.Strategy, e.Reason)
	if e.Shortfall.IsPositive() {
		msg += fmt.Sprintf(" (shortfall %s)", e.Shortfall.StringFixed(0))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InfeasibleError) Unwrap() error { return e.Cause }

// ScreeningError reports which underwriting rule rejected a loan
type ScreeningError struct {
	Rule  string
	Ratio decimal.Decimal
	Limit decimal.Decimal
}

func (e *ScreeningError) Error() string {
	return fmt.Sprintf("loan screening failed on %s: %s exceeds limit %s",
		e.Rule, e.Ratio.StringFixed(3), e.Limit.StringFixed(3))
}

const (
	RuleSavings          = "savings"
	RuleIncomeMultiplier = "income_multiplier"
	RuleRepaymentRatio   = "repayment_ratio"
)

// CheckUpFront fails with an InfeasibleError for the named strategy when savings fall short of need
func CheckUpFront(name string, need, savings decimal.Decimal) error {
	if savings.LessThan(need) {
		return &InfeasibleError{
			Strategy:  name,
			Reason:    fmt.Sprintf("savings %s do not cover closing costs %s", savings.StringFixed(0), need.StringFixed(0)),
			Shortfall: need.Sub(savings),
		}
	}
	return nil
}

// Screen applies the loan underwriting test: savings must cover the up-front
// cash, the loan must not exceed the income multiplier, and the annual payment
// at the stress rate must stay under the repayment-ratio ceiling.
func Screen(terms AcquisitionTerms, savings, annualGross decimal.Decimal, termYears int, p domain.ParameterSet) error {
	if savings.Sub(terms.ClosingCosts).IsNegative() {
		return &ScreeningError{Rule: RuleSavings, Ratio: terms.ClosingCosts, Limit: savings}
	}
	if !terms.Loan.IsPositive() {
		return nil
	}
	if !annualGross.IsPositive() {
		return &ScreeningError{Rule: RuleIncomeMultiplier, Ratio: terms.Loan, Limit: decimal.Zero}
	}
	multiple := terms.Loan.Div(annualGross)
	if multiple.GreaterThan(p.Screening.IncomeMultiplier) {
		return &ScreeningError{Rule: RuleIncomeMultiplier, Ratio: multiple, Limit: p.Screening.IncomeMultiplier}
	}
	annualPayment := AnnuityPayment(terms.Loan, p.Screening.StressRate, termYears*12).Mul(decimal.NewFromInt(12))
	ratio := annualPayment.Div(annualGross)
	if ratio.GreaterThan(p.Screening.RepaymentRatioCeiling) {
		return &ScreeningError{Rule: RuleRepaymentRatio, Ratio: ratio, Limit: p.Screening.RepaymentRatioCeiling}
	}
	return nil
}
