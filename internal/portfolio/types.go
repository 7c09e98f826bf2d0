package portfolio

import (
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

// Pool identifies one account pool of the household ledger
type Pool int

const (
	Cash Pool = iota
	Taxable
	TaxAdvantaged
	Bond
	Gold
	Emergency
)

func (p Pool) String() string {
	switch p {
	case Cash:
		return "cash"
	case Taxable:
		return "taxable"
	case TaxAdvantaged:
		return "tax_advantaged"
	case Bond:
		return "bond"
	case Gold:
		return "gold"
	case Emergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Taxed reports whether realized gains in the pool are subject to capital-gains tax
func (p Pool) Taxed() bool {
	return p == Taxable || p == Bond || p == Gold
}

// Phase selects the withdrawal order
type Phase int

const (
	Working Phase = iota
	Retired
	RetiredDownturn
)

func (p Phase) String() string {
	switch p {
	case Working:
		return "working"
	case Retired:
		return "retired"
	case RetiredDownturn:
		return "retired_downturn"
	default:
		return "unknown"
	}
}

// WithdrawalOrder returns the pools in the order they are drawn for a phase.
// Working: cash buffer, taxable, tax-advantaged. Retired: taxable, tax-advantaged,
// bond, gold. Downturn: cash, bond, gold, then equity. The emergency reserve is always last.
func WithdrawalOrder(phase Phase) []Pool {
	switch phase {
	case Retired:
		return []Pool{Taxable, TaxAdvantaged, Bond, Gold, Cash, Emergency}
	case RetiredDownturn:
		return []Pool{Cash, Bond, Gold, Taxable, TaxAdvantaged, Emergency}
	default:
		return []Pool{Cash, Taxable, TaxAdvantaged, Bond, Gold, Emergency}
	}
}

// WithdrawalAllocation captures what was taken from one pool
// Gross: amount removed from the pool
// Tax: capital-gains tax on the realized gain part of Gross
// Net: Gross - Tax, the cash that reached the household
// BasisReduced: cost basis released with the withdrawal
type WithdrawalAllocation struct {
	Pool         Pool
	Gross        decimal.Decimal
	Tax          decimal.Decimal
	Net          decimal.Decimal
	BasisReduced decimal.Decimal
}

// WithdrawalPlan aggregates a withdrawal across pools
type WithdrawalPlan struct {
	Requested   decimal.Decimal
	Allocations []WithdrawalAllocation
	Sourced     decimal.Decimal // net cash delivered
	Tax         decimal.Decimal
	Shortfall   decimal.Decimal // unmet part of Requested; positive means bankruptcy
	Phase       Phase
}

// Targets are the desired safe-asset holdings
type Targets struct {
	Cash decimal.Decimal
	Bond decimal.Decimal
	Gold decimal.Decimal
}

// Safe sums the targets
func (t Targets) Safe() decimal.Decimal {
	return t.Cash.Add(t.Bond).Add(t.Gold)
}

func balanceOf(b *domain.Balances, p Pool) (balance, basis *decimal.Decimal) {
	switch p {
	case Cash:
		return &b.Cash, nil
	case Taxable:
		return &b.Taxable, &b.TaxableBasis
	case TaxAdvantaged:
		return &b.TaxAdvantaged, &b.TaxAdvantagedBasis
	case Bond:
		return &b.Bond, &b.BondBasis
	case Gold:
		return &b.Gold, &b.GoldBasis
	case Emergency:
		return &b.Emergency, nil
	}
	return nil, nil
}

// Balance returns the current balance of a pool
func Balance(b *domain.Balances, p Pool) decimal.Decimal {
	bal, _ := balanceOf(b, p)
	if bal == nil {
		return decimal.Zero
	}
	return *bal
}
