package portfolio

import (
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one  = decimal.NewFromInt(1)
	half = decimal.NewFromFloat(0.5)
)

func round(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Allocator computes bucket targets and moves money between pools. It holds
// only configuration; all state lives in the Balances passed to each call.
type Allocator struct {
	Config      domain.BucketConfig
	CapitalRate decimal.Decimal // flat capital-gains tax rate on realized gains
}

// NewAllocator creates an allocator for the bucket configuration
func NewAllocator(cfg domain.BucketConfig, capitalGainsRate decimal.Decimal) *Allocator {
	return &Allocator{Config: cfg, CapitalRate: capitalGainsRate}
}

// NonTaxAdvantaged sums the pools the bucket policy manages
func NonTaxAdvantaged(b *domain.Balances) decimal.Decimal {
	return b.Taxable.Add(b.Bond).Add(b.Gold).Add(b.Cash)
}

// Targets computes cash, bond and gold targets for the given age.
// Before the ramp only a transient cash buffer (half a year of education
// cost) and the gold fraction are held; during the ramp the full targets
// scale linearly; at retirement cash and bond are sized in years of expense.
// Safe assets never exceed the configured cap share of total assets.
func (a *Allocator) Targets(age int, annualExpense, annualEducation, total decimal.Decimal) Targets {
	cfg := a.Config
	var t Targets
	if cfg.GoldEnabled {
		t.Gold = total.Mul(cfg.GoldFraction)
	}
	transient := annualEducation.Mul(half)

	fullCash := cfg.CashYears.Mul(annualExpense)
	bondYears := cfg.SafeYears.Sub(cfg.CashYears)
	if bondYears.IsNegative() {
		bondYears = decimal.Zero
	}
	fullBond := bondYears.Mul(annualExpense)

	rampStart := cfg.RampStartAge()
	switch {
	case age >= cfg.RetirementAge:
		t.Cash = fullCash
		t.Bond = fullBond
	case age >= rampStart && cfg.RampYears > 0:
		frac := decimal.NewFromInt(int64(age - rampStart)).Div(decimal.NewFromInt(int64(cfg.RampYears)))
		if frac.GreaterThan(one) {
			frac = one
		}
		t.Cash = decimal.Max(transient, fullCash.Mul(frac))
		t.Bond = fullBond.Mul(frac)
	default:
		t.Cash = transient
	}

	limit := total.Mul(cfg.SafeCap)
	if safe := t.Safe(); safe.GreaterThan(limit) && safe.IsPositive() {
		scale := limit.Div(safe)
		t.Cash = t.Cash.Mul(scale)
		t.Bond = t.Bond.Mul(scale)
		t.Gold = t.Gold.Mul(scale)
	}
	t.Cash, t.Bond, t.Gold = round(t.Cash), round(t.Bond), round(t.Gold)
	return t
}

// Deposit adds new money to a pool; the cost basis grows by the same amount
func Deposit(b *domain.Balances, p Pool, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	bal, basis := balanceOf(b, p)
	*bal = round(bal.Add(amount))
	if basis != nil {
		*basis = round(basis.Add(amount))
	}
}

// take removes gross from a pool and returns the tax on the realized gain and
// the basis released. Basis shrinks by the fraction of the balance withdrawn,
// so a pool at a loss keeps its unrealized loss and basis may exceed balance.
func (a *Allocator) take(b *domain.Balances, p Pool, gross decimal.Decimal) (tax, basisReduced decimal.Decimal) {
	bal, basis := balanceOf(b, p)
	if !gross.IsPositive() || !bal.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	if gross.GreaterThan(*bal) {
		gross = *bal
	}
	if basis != nil {
		if gross.Equal(*bal) {
			basisReduced = *basis
		} else {
			basisReduced = round(basis.Mul(gross).Div(*bal))
		}
		if p.Taxed() {
			gain := gross.Sub(basisReduced)
			if gain.IsPositive() {
				tax = round(gain.Mul(a.CapitalRate))
			}
		}
		*basis = basis.Sub(basisReduced)
		if basis.IsNegative() {
			*basis = decimal.Zero
		}
	}
	*bal = bal.Sub(gross)
	if bal.IsNegative() {
		*bal = decimal.Zero
	}
	return tax, basisReduced
}

// grossFor returns the gross withdrawal from p that nets need after tax,
// capped at the pool balance
func (a *Allocator) grossFor(b *domain.Balances, p Pool, need decimal.Decimal) decimal.Decimal {
	bal, basis := balanceOf(b, p)
	gross := need
	if p.Taxed() && basis != nil && bal.IsPositive() {
		gainRatio := bal.Sub(*basis).Div(*bal)
		if gainRatio.IsPositive() {
			denom := one.Sub(gainRatio.Mul(a.CapitalRate))
			if denom.IsPositive() {
				gross = round(need.Div(denom))
			}
		}
	}
	if gross.GreaterThan(*bal) {
		gross = *bal
	}
	return gross
}

// Withdraw sources need from the pools in the phase's order. Any amount that
// cannot be sourced remains in the plan's Shortfall; the pools are left at zero.
func (a *Allocator) Withdraw(b *domain.Balances, need decimal.Decimal, phase Phase) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: need, Phase: phase}
	remaining := need
	for _, p := range WithdrawalOrder(phase) {
		if !remaining.IsPositive() {
			break
		}
		if !Balance(b, p).IsPositive() {
			continue
		}
		gross := a.grossFor(b, p, remaining)
		tax, basisReduced := a.take(b, p, gross)
		net := gross.Sub(tax)
		if net.GreaterThan(remaining) {
			net = remaining
		}
		plan.Allocations = append(plan.Allocations, WithdrawalAllocation{
			Pool: p, Gross: gross, Tax: tax, Net: net, BasisReduced: basisReduced,
		})
		plan.Sourced = plan.Sourced.Add(net)
		plan.Tax = plan.Tax.Add(tax)
		remaining = remaining.Sub(net)
	}
	if remaining.IsPositive() {
		plan.Shortfall = remaining
	}
	return plan
}

// Rebalance moves money between taxable equity and the cash, bond and gold
// pools until each matches its target. Sales realize gains and return the tax
// paid. The tax-advantaged pool and the emergency reserve are never touched.
func (a *Allocator) Rebalance(b *domain.Balances, t Targets) decimal.Decimal {
	tax := decimal.Zero
	for _, move := range []struct {
		pool   Pool
		target decimal.Decimal
	}{{Cash, t.Cash}, {Bond, t.Bond}, {Gold, t.Gold}} {
		current := Balance(b, move.pool)
		diff := move.target.Sub(current)
		switch {
		case diff.IsPositive():
			gross := decimal.Min(diff, b.Taxable)
			if !gross.IsPositive() {
				continue
			}
			paid, _ := a.take(b, Taxable, gross)
			tax = tax.Add(paid)
			Deposit(b, move.pool, gross.Sub(paid))
		case diff.IsNegative():
			gross := diff.Neg()
			paid, _ := a.take(b, move.pool, gross)
			tax = tax.Add(paid)
			Deposit(b, Taxable, gross.Sub(paid))
		}
	}
	return tax
}
