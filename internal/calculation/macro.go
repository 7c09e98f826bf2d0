package calculation

import (
	"math"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// macroPath precomputes the per-year macro indices for one run so the monthly
// loop never recompounds a rate
type macroPath struct {
	inflation []decimal.Decimal // cumulative price factor at the start of each year
	land      []decimal.Decimal // cumulative land factor at the start of each year
	equity    []decimal.Decimal // monthly equity growth factor for each year
	returns   []decimal.Decimal // annual equity return for each year
	bond      decimal.Decimal   // monthly bond growth factor
	gold      decimal.Decimal   // monthly gold growth factor
}

func newMacroPath(p domain.ParameterSet, years int) macroPath {
	m := macroPath{
		inflation: make([]decimal.Decimal, years+1),
		land:      make([]decimal.Decimal, years+1),
		equity:    make([]decimal.Decimal, years),
		returns:   make([]decimal.Decimal, years),
		bond:      monthlyFactor(p.Bucket.BondReturn),
		gold:      monthlyFactor(p.Bucket.GoldReturn),
	}
	m.inflation[0], m.land[0] = one, one
	for y := 0; y < years; y++ {
		m.inflation[y+1] = m.inflation[y].Mul(one.Add(p.InflationRate.At(y))).Round(12)
		m.land[y+1] = m.land[y].Mul(one.Add(p.LandAppreciation.At(y))).Round(12)
		m.returns[y] = p.InvestmentReturn.At(y)
		m.equity[y] = monthlyFactor(m.returns[y])
	}
	return m
}

// growth returns the ratio of an index between two years
func growth(index []decimal.Decimal, from, to int) decimal.Decimal {
	if from < 0 {
		from = 0
	}
	if to >= len(index) {
		to = len(index) - 1
	}
	if from >= to {
		return one
	}
	return index[to].Div(index[from]).Round(12)
}

// monthlyFactor converts an annual rate to its compounding-equivalent monthly factor
func monthlyFactor(annual decimal.Decimal) decimal.Decimal {
	r := annual.InexactFloat64()
	if r <= -0.99 {
		r = -0.99
	}
	return decimal.NewFromFloat(math.Pow(1+r, 1.0/12)).Round(12)
}
