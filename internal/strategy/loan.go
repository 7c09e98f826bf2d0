package strategy

import (
	"math"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

// Loan is the amortization record for one run. It is created by the ledger at
// the purchase month and owned by that run alone; the rate resets every five
// loan-years and the payment is re-amortized over the remaining term.
type Loan struct {
	Principal  decimal.Decimal
	Balance    decimal.Decimal
	Payment    decimal.Decimal
	Rate       decimal.Decimal
	TermMonths int
	MonthsPaid int

	schedule domain.ParameterSet
}

// NewLoan opens a loan for principal over termYears under the parameter set's rate schedule
func NewLoan(principal decimal.Decimal, termYears int, p domain.ParameterSet) *Loan {
	if termYears < 1 {
		termYears = 1
	}
	return &Loan{
		Principal:  principal,
		Balance:    principal,
		TermMonths: termYears * 12,
		schedule:   p,
	}
}

// CappedTerm limits the loan term so the loan is repaid by terminalAge
func CappedTerm(termYears, purchaseAge, terminalAge int) int {
	if limit := terminalAge - purchaseAge; termYears > limit {
		termYears = limit
	}
	if termYears < 1 {
		termYears = 1
	}
	return termYears
}

// Active reports whether the loan still has an outstanding balance
func (l *Loan) Active() bool {
	return l != nil && l.Balance.IsPositive()
}

// Step advances the loan by one month and returns the payment made and its interest part
func (l *Loan) Step() (payment, interest decimal.Decimal) {
	if !l.Active() {
		return decimal.Zero, decimal.Zero
	}
	if l.MonthsPaid%60 == 0 || l.Payment.IsZero() {
		l.reprice()
	}
	monthlyRate := l.Rate.Div(decimal.NewFromInt(12))
	interest = l.Balance.Mul(monthlyRate).Round(0)
	payment = l.Payment
	principal := payment.Sub(interest)
	if principal.GreaterThanOrEqual(l.Balance) || l.MonthsPaid+1 >= l.TermMonths {
		principal = l.Balance
		payment = principal.Add(interest)
	}
	l.Balance = l.Balance.Sub(principal)
	l.MonthsPaid++
	return payment, interest
}

func (l *Loan) reprice() {
	l.Rate = l.schedule.LoanRate(l.MonthsPaid / 12)
	remaining := l.TermMonths - l.MonthsPaid
	l.Payment = AnnuityPayment(l.Balance, l.Rate, remaining)
}

// BalanceOrZero returns the outstanding balance, or zero when there is no loan
func (l *Loan) BalanceOrZero() decimal.Decimal {
	if l == nil {
		return decimal.Zero
	}
	return l.Balance
}

// Settle clears the balance, as when group credit life insurance pays off the loan
func (l *Loan) Settle() {
	if l == nil {
		return
	}
	l.Balance = decimal.Zero
	l.Payment = decimal.Zero
}

// AnnuityPayment is the level monthly payment that repays principal over months at an annual rate
func AnnuityPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	if !annualRate.IsPositive() {
		return principal.Div(decimal.NewFromInt(int64(months))).Round(0)
	}
	r := annualRate.InexactFloat64() / 12
	factor := math.Pow(1+r, float64(months))
	return principal.Mul(decimal.NewFromFloat(r * factor / (factor - 1))).Round(0)
}
