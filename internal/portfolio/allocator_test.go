package portfolio

import (
	"testing"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAllocator() *Allocator {
	return NewAllocator(domain.DefaultParameterSet().Bucket, decimal.NewFromFloat(0.2))
}

func TestTargets(t *testing.T) {
	a := testAllocator()
	expense := decimal.NewFromInt(4_000_000)
	education := decimal.NewFromInt(1_000_000)
	total := decimal.NewFromInt(100_000_000)

	tests := []struct {
		name     string
		age      int
		wantCash string
		wantBond string
		wantGold string
	}{
		{"before ramp holds transient cash only", 40, "500000", "0", "5000000"},
		{"ramp start", 60, "500000", "0", "5000000"},
		{"mid ramp", 62, "3200000", "4800000", "5000000"},
		{"retired", 65, "8000000", "12000000", "5000000"},
		{"late retirement", 78, "8000000", "12000000", "5000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Targets(tt.age, expense, education, total)
			assert.True(t, got.Cash.Equal(decimal.RequireFromString(tt.wantCash)), "cash %s", got.Cash)
			assert.True(t, got.Bond.Equal(decimal.RequireFromString(tt.wantBond)), "bond %s", got.Bond)
			assert.True(t, got.Gold.Equal(decimal.RequireFromString(tt.wantGold)), "gold %s", got.Gold)
		})
	}
}

func TestTargets_SafeCap(t *testing.T) {
	a := testAllocator()
	total := decimal.NewFromInt(10_000_000)
	got := a.Targets(70, decimal.NewFromInt(4_000_000), decimal.Zero, total)

	limit := total.Mul(decimal.NewFromFloat(0.70))
	assert.True(t, got.Safe().LessThanOrEqual(limit.Add(decimal.NewFromInt(1))),
		"safe %s should be capped at %s", got.Safe(), limit)
	assert.True(t, got.Bond.IsPositive())
}

func TestTargets_GoldDisabled(t *testing.T) {
	cfg := domain.DefaultParameterSet().Bucket
	cfg.GoldEnabled = false
	a := NewAllocator(cfg, decimal.Zero)
	got := a.Targets(40, decimal.NewFromInt(1_000_000), decimal.Zero, decimal.NewFromInt(50_000_000))
	assert.True(t, got.Gold.IsZero())
	assert.True(t, got.Cash.IsZero())
}

func TestWithdraw_OrderByPhase(t *testing.T) {
	a := NewAllocator(domain.DefaultParameterSet().Bucket, decimal.Zero)
	newBalances := func() domain.Balances {
		return domain.Balances{
			Cash:               decimal.NewFromInt(100),
			Taxable:            decimal.NewFromInt(100),
			TaxableBasis:       decimal.NewFromInt(100),
			TaxAdvantaged:      decimal.NewFromInt(100),
			TaxAdvantagedBasis: decimal.NewFromInt(100),
			Bond:               decimal.NewFromInt(100),
			BondBasis:          decimal.NewFromInt(100),
		}
	}

	tests := []struct {
		phase Phase
		first Pool
	}{
		{Working, Cash},
		{Retired, Taxable},
		{RetiredDownturn, Cash},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			b := newBalances()
			plan := a.Withdraw(&b, decimal.NewFromInt(50), tt.phase)
			require.Len(t, plan.Allocations, 1)
			assert.Equal(t, tt.first, plan.Allocations[0].Pool)
			assert.True(t, plan.Shortfall.IsZero())
		})
	}

	b := newBalances()
	plan := a.Withdraw(&b, decimal.NewFromInt(150), RetiredDownturn)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, Bond, plan.Allocations[1].Pool, "downturn draws bonds before equity")
	assert.True(t, b.Taxable.Equal(decimal.NewFromInt(100)))
}

func TestWithdraw_GrossUpAndBasis(t *testing.T) {
	a := testAllocator()
	b := domain.Balances{
		Taxable:      decimal.NewFromInt(1_000_000),
		TaxableBasis: decimal.NewFromInt(500_000),
	}
	plan := a.Withdraw(&b, decimal.NewFromInt(90_000), Retired)

	require.Len(t, plan.Allocations, 1)
	alloc := plan.Allocations[0]
	// gain ratio 0.5 at 20%: gross = 90,000 / 0.9
	assert.True(t, alloc.Gross.Equal(decimal.NewFromInt(100_000)), "gross %s", alloc.Gross)
	assert.True(t, alloc.Tax.Equal(decimal.NewFromInt(10_000)), "tax %s", alloc.Tax)
	assert.True(t, plan.Sourced.Equal(decimal.NewFromInt(90_000)))
	assert.True(t, b.Taxable.Equal(decimal.NewFromInt(900_000)))
	assert.True(t, b.TaxableBasis.Equal(decimal.NewFromInt(450_000)))
}

func TestWithdraw_PoolAtLossKeepsBasis(t *testing.T) {
	a := testAllocator()
	b := domain.Balances{
		Taxable:      decimal.NewFromInt(70),
		TaxableBasis: decimal.NewFromInt(100),
	}
	plan := a.Withdraw(&b, decimal.NewFromInt(10), Retired)

	require.Len(t, plan.Allocations, 1)
	assert.True(t, plan.Tax.IsZero(), "no tax on a sale at a loss")
	assert.True(t, b.Taxable.Equal(decimal.NewFromInt(60)))
	// 10/70 of the basis is released
	assert.True(t, b.TaxableBasis.Equal(decimal.RequireFromString("85.71")), "basis %s", b.TaxableBasis)

	// recovery: only the gain over the remaining basis is taxed on exit
	b.Taxable = decimal.NewFromInt(100)
	plan = a.Withdraw(&b, decimal.NewFromInt(200), Retired)
	require.Len(t, plan.Allocations, 1)
	assert.True(t, plan.Tax.Equal(decimal.RequireFromString("2.86")), "tax %s", plan.Tax)
	assert.True(t, b.Taxable.IsZero())
	assert.True(t, b.TaxableBasis.IsZero())
}

func TestWithdraw_Shortfall(t *testing.T) {
	a := testAllocator()
	b := domain.Balances{
		Cash:      decimal.NewFromInt(1_000),
		Emergency: decimal.NewFromInt(2_000),
	}
	plan := a.Withdraw(&b, decimal.NewFromInt(5_000), Working)

	assert.True(t, plan.Shortfall.Equal(decimal.NewFromInt(2_000)))
	assert.True(t, b.Total().IsZero())
	assert.Equal(t, Emergency, plan.Allocations[len(plan.Allocations)-1].Pool)
}

func TestRebalance(t *testing.T) {
	a := testAllocator()
	b := domain.Balances{
		Taxable:            decimal.NewFromInt(10_000_000),
		TaxableBasis:       decimal.NewFromInt(10_000_000),
		TaxAdvantaged:      decimal.NewFromInt(5_000_000),
		TaxAdvantagedBasis: decimal.NewFromInt(4_000_000),
		Gold:               decimal.NewFromInt(1_000_000),
		GoldBasis:          decimal.NewFromInt(500_000),
	}
	targets := Targets{
		Cash: decimal.NewFromInt(1_000_000),
		Bond: decimal.NewFromInt(2_000_000),
		Gold: decimal.NewFromInt(500_000),
	}
	tax := a.Rebalance(&b, targets)

	assert.True(t, b.Cash.Equal(targets.Cash))
	assert.True(t, b.Bond.Equal(targets.Bond))
	assert.True(t, b.Gold.Equal(targets.Gold))
	// selling half the gold realizes 250,000 of gain
	assert.True(t, tax.Equal(decimal.NewFromInt(50_000)), "tax %s", tax)
	assert.True(t, b.TaxAdvantaged.Equal(decimal.NewFromInt(5_000_000)), "tax-advantaged pool untouched")
	assert.True(t, b.TaxableBasis.LessThanOrEqual(b.Taxable))
	assert.True(t, b.GoldBasis.LessThanOrEqual(b.Gold))
}

func TestDeposit(t *testing.T) {
	var b domain.Balances
	Deposit(&b, Bond, decimal.NewFromInt(500))
	Deposit(&b, Cash, decimal.NewFromInt(200))
	Deposit(&b, Cash, decimal.NewFromInt(-50))

	assert.True(t, b.Bond.Equal(decimal.NewFromInt(500)))
	assert.True(t, b.BondBasis.Equal(decimal.NewFromInt(500)))
	assert.True(t, b.Cash.Equal(decimal.NewFromInt(200)))
}
