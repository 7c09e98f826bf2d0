package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestRate_At(t *testing.T) {
	scalar := ScalarRate(0.02)
	assert.True(t, d(0.02).Equal(scalar.At(0)))
	assert.True(t, d(0.02).Equal(scalar.At(40)))

	series := SeriesRate([]decimal.Decimal{d(0.01), d(0.02), d(0.03)})
	tests := []struct {
		year int
		want float64
	}{
		{-1, 0.01},
		{0, 0.01},
		{1, 0.02},
		{2, 0.03},
		{10, 0.03},
	}
	for _, tt := range tests {
		assert.True(t, d(tt.want).Equal(series.At(tt.year)), "year %d: got %s", tt.year, series.At(tt.year))
	}
}

func TestSeriesRate_CopiesInput(t *testing.T) {
	values := []decimal.Decimal{d(0.01), d(0.02)}
	r := SeriesRate(values)
	values[1] = d(0.5)
	assert.True(t, d(0.02).Equal(r.At(1)))
}

func TestRate_Shift(t *testing.T) {
	r := SeriesRate([]decimal.Decimal{d(0.01), d(0.02)}).Shift(d(0.005))
	assert.True(t, d(0.015).Equal(r.At(0)))
	assert.True(t, d(0.025).Equal(r.At(1)))

	s := ScalarRate(0.01).Shift(d(-0.02))
	assert.True(t, d(-0.01).Equal(s.At(3)))
}

func TestRate_GrowthFactor(t *testing.T) {
	r := ScalarRate(0.1)
	assert.True(t, d(1).Equal(r.GrowthFactor(0, 0)))
	assert.True(t, d(1.21).Equal(r.GrowthFactor(0, 2)))

	series := SeriesRate([]decimal.Decimal{d(0.1), d(0.2)})
	assert.True(t, d(1.32).Equal(series.GrowthFactor(0, 2)))
	assert.True(t, d(1.44).Equal(series.GrowthFactor(1, 3)))
}

func TestParameterSet_LoanRate(t *testing.T) {
	p := DefaultParameterSet()
	assert.True(t, d(0.0075).Equal(p.LoanRate(0)))
	assert.True(t, d(0.0075).Equal(p.LoanRate(4)))
	assert.True(t, d(0.010).Equal(p.LoanRate(5)))
	assert.True(t, d(0.0175).Equal(p.LoanRate(34)))
	assert.True(t, d(0.0075).Equal(p.LoanRate(-3)))

	shifted := p.WithLoanRateShift(d(0.005))
	assert.True(t, d(0.0125).Equal(shifted.LoanRate(0)))
	assert.True(t, p.LoanRateShift.IsZero(), "With helpers must not modify the receiver")

	floored := p.WithLoanRateShift(d(-0.05))
	assert.True(t, floored.LoanRate(0).IsZero())
}

func TestParameterSet_WithHelpers(t *testing.T) {
	p := DefaultParameterSet()

	q := p.WithInvestmentReturn(ScalarRate(0.08))
	assert.True(t, d(0.08).Equal(q.InvestmentReturn.At(0)))
	assert.True(t, d(0.05).Equal(p.InvestmentReturn.At(0)))

	m := p.WithMacro(ScalarRate(0.1), ScalarRate(0.03), ScalarRate(0.02))
	assert.True(t, d(1.21).Equal(m.InflationFactor(2)))
	assert.True(t, d(0.03).Equal(m.LandAppreciation.At(0)))
	assert.True(t, d(0.02).Equal(m.WageInflation.At(0)))
}

func TestBucketConfig_RampStartAge(t *testing.T) {
	assert.Equal(t, 60, DefaultParameterSet().Bucket.RampStartAge())
}

func TestChild(t *testing.T) {
	c := Child{BirthAge: 35, IndependenceAge: 22}
	assert.Equal(t, -1, c.AgeAt(34))
	assert.False(t, c.LivesAtHome(34))
	assert.True(t, c.LivesAtHome(35))
	assert.True(t, c.LivesAtHome(56))
	assert.False(t, c.LivesAtHome(57))
}

func TestHousehold(t *testing.T) {
	h := Household{
		StartAges:     [2]int{37, 35},
		AnnualIncomes: [2]decimal.Decimal{decimal.NewFromInt(6_000_000), decimal.NewFromInt(4_000_000)},
		Children:      []Child{{BirthAge: 38, IndependenceAge: 22}, {BirthAge: 40, IndependenceAge: 18}},
		SpecialExpenses: []SpecialExpense{
			{Age: 50, Amount: decimal.NewFromInt(1_000_000), Label: "car"},
			{Age: 45, Amount: decimal.NewFromInt(500_000)},
			{Age: 50, Amount: decimal.NewFromInt(200_000), Label: "trip"},
		},
	}

	assert.Equal(t, 53, h.SpouseAge(55))
	assert.True(t, decimal.NewFromInt(10_000_000).Equal(h.TotalIncome()))
	assert.True(t, d(0.6).Equal(h.IncomeSplit()))
	assert.Equal(t, 60, h.LastIndependenceAge())
	assert.Len(t, h.SpecialExpensesAt(50), 2)
	assert.Empty(t, h.SpecialExpensesAt(46))

	SortSpecialExpenses(h.SpecialExpenses)
	assert.Equal(t, 45, h.SpecialExpenses[0].Age)
	assert.Equal(t, "car", h.SpecialExpenses[1].Label)
	assert.Equal(t, "trip", h.SpecialExpenses[2].Label)

	assert.True(t, d(0.5).Equal(Household{}.IncomeSplit()))
	assert.Equal(t, 0, Household{}.LastIndependenceAge())
}

func TestHousehold_Validate(t *testing.T) {
	valid := Household{StartAges: [2]int{37, 35}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Household)
		want   string
	}{
		{"zero age", func(h *Household) { h.StartAges[1] = 0 }, "start ages"},
		{"too many children", func(h *Household) { h.Children = make([]Child, 3) }, "at most 2 children"},
		{"negative savings", func(h *Household) { h.InitialSavings = decimal.NewFromInt(-1) }, "savings"},
		{"negative income", func(h *Household) { h.AnnualIncomes[1] = decimal.NewFromInt(-1) }, "income 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)
			assert.ErrorContains(t, h.Validate(), tt.want)
		})
	}
}

func TestEventTimeline(t *testing.T) {
	tl := EmptyTimeline()
	assert.False(t, tl.Unemployed(0))
	assert.False(t, tl.InCare(500))
	assert.False(t, tl.RentalRejected(500))
	assert.Equal(t, SplitNone, tl.Split)

	tl.JobLossMonths = []int{12, 13}
	tl.CareMonth = 100
	tl.RentalRejectionMonth = 200
	tl.CareMonthlyCost = decimal.NewFromInt(100_000)
	tl.RentalSurcharge = decimal.NewFromInt(30_000)
	tl.RelocationOneTime = decimal.NewFromInt(800_000)

	assert.True(t, tl.Unemployed(13))
	assert.False(t, tl.Unemployed(14))
	assert.False(t, tl.InCare(99))
	assert.True(t, tl.InCare(100))
	assert.True(t, tl.RentalRejected(250))

	assert.True(t, decimal.NewFromInt(150_000).Equal(tl.CareCost(d(1.5))))
	assert.True(t, decimal.NewFromInt(33_000).Equal(tl.RentalRejectionCost(d(1.1))))
	assert.True(t, decimal.NewFromInt(800_000).Equal(tl.RelocationCost(d(1))))
}

func TestHouseholdSplit_String(t *testing.T) {
	assert.Equal(t, "none", SplitNone.String())
	assert.Equal(t, "divorce", SplitDivorce.String())
	assert.Equal(t, "spouse_death", SplitSpouseDeath.String())
}

func TestEventRiskConfig_ForHousehold(t *testing.T) {
	c := DefaultEventRiskConfig()
	assert.Zero(t, c.ForHousehold(Household{}).RelocationProb)
	assert.Equal(t, 0.02, c.ForHousehold(Household{MayRelocate: true}).RelocationProb)
	assert.Equal(t, 0.02, c.RelocationProb)
}

func TestBalances(t *testing.T) {
	b := Balances{
		TaxAdvantaged: decimal.NewFromInt(100), TaxAdvantagedBasis: decimal.NewFromInt(80),
		Taxable: decimal.NewFromInt(50), TaxableBasis: decimal.NewFromInt(40),
		Bond: decimal.NewFromInt(20), BondBasis: decimal.NewFromInt(20),
		Gold: decimal.NewFromInt(10), GoldBasis: decimal.NewFromInt(5),
		Cash: decimal.NewFromInt(7), Emergency: decimal.NewFromInt(3),
	}
	assert.True(t, decimal.NewFromInt(190).Equal(b.Total()))
	assert.True(t, decimal.NewFromInt(180).Equal(b.Invested()))
	assert.True(t, decimal.NewFromInt(145).Equal(b.InvestedBasis()))
}
