package calculation

import (
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

// yearIncome is the gross annual income of both earners for one year
type yearIncome struct {
	Labour  [2]decimal.Decimal
	Pension [2]decimal.Decimal
}

// LabourTotal sums both earners' labour income
func (y yearIncome) LabourTotal() decimal.Decimal { return y.Labour[0].Add(y.Labour[1]) }

// PensionTotal sums both earners' pensions
func (y yearIncome) PensionTotal() decimal.Decimal { return y.Pension[0].Add(y.Pension[1]) }

// incomeModel walks the career curve of both earners one year at a time.
// Labour income grows at the young-career rate below the base age and the
// mature rate above it, plus wage inflation; from the reduction age it is a
// fixed share of the earner's peak; it stops at the earner's retirement age.
// The public pension is fixed at the claiming age from the household peak and
// then grows at inflation less the macro slide.
type incomeModel struct {
	p     domain.ParameterSet
	h     domain.Household
	macro *macroPath

	career  [2]decimal.Decimal // unreduced career-curve income
	peak    [2]decimal.Decimal
	pension [2]decimal.Decimal
	claimed [2]bool
	present [2]bool // false once an earner has left the household
	widowed bool
	last    int // last year stepped
}

func newIncomeModel(p domain.ParameterSet, h domain.Household, macro *macroPath) *incomeModel {
	m := &incomeModel{p: p, h: h, macro: macro, last: -1}
	for i := 0; i < 2; i++ {
		m.career[i] = h.AnnualIncomes[i]
		m.peak[i] = h.AnnualIncomes[i]
		m.present[i] = true
	}
	return m
}

func (m *incomeModel) earnerAge(i, year int) int {
	return m.h.StartAges[i] + year
}

func (m *incomeModel) stopAge(i int) int {
	stop := m.p.RetirementAges[i]
	if stop <= 0 || stop > m.p.PensionReplaceAge {
		stop = m.p.PensionReplaceAge
	}
	return stop
}

// step advances the model to year and returns that year's gross income.
// Years must be stepped in order.
func (m *incomeModel) step(year int) yearIncome {
	for m.last < year {
		m.last++
		if m.last > 0 {
			m.grow(m.last - 1)
		}
		m.claim(m.last)
	}
	return m.current(year)
}

func (m *incomeModel) grow(prevYear int) {
	wage := m.p.WageInflation.At(prevYear)
	for i := 0; i < 2; i++ {
		age := m.earnerAge(i, prevYear)
		rate := m.p.IncomeGrowthMature
		if age < m.p.IncomeBaseAge {
			rate = m.p.IncomeGrowthYoung
		}
		m.career[i] = m.career[i].Mul(one.Add(rate).Add(wage)).Round(0)
		if age+1 < m.p.IncomeReductionAge && m.career[i].GreaterThan(m.peak[i]) {
			m.peak[i] = m.career[i]
		}
		if m.claimed[i] {
			slide := m.p.InflationRate.At(prevYear).Sub(m.p.Pension.MacroSlide)
			m.pension[i] = m.pension[i].Mul(one.Add(slide)).Round(0)
		}
	}
}

func (m *incomeModel) claim(year int) {
	for i := 0; i < 2; i++ {
		if m.claimed[i] || m.earnerAge(i, year) < m.p.PensionStartAges[i] {
			continue
		}
		m.claimed[i] = true
		m.pension[i] = m.pensionAtClaim(i, year)
	}
}

// pensionAtClaim combines the flat-rate part, the earnings-proportional part
// on the earner's share of household peak income, and the corporate pension,
// then applies the early or deferred claiming adjustment
func (m *incomeModel) pensionAtClaim(i, year int) decimal.Decimal {
	cfg := m.p.Pension
	share := m.h.IncomeSplit()
	if i == 1 {
		share = one.Sub(share)
	}
	householdPeak := m.peak[0].Add(m.peak[1])

	basic := cfg.BasicAnnual.Mul(m.macro.inflation[clampYear(year, len(m.macro.inflation))])
	proportional := householdPeak.Mul(share).Mul(cfg.AverageToPeak).Mul(cfg.ProportionalRate).
		Mul(decimal.NewFromInt(int64(cfg.CareerYears)))
	total := basic.Add(proportional)
	if i == 0 {
		total = total.Add(cfg.CorporateAnnual)
	}
	return total.Mul(claimAdjustment(m.p.PensionStartAges[i], cfg)).Round(0)
}

// claimAdjustment is the multiplier for claiming at startAge instead of the normal age
func claimAdjustment(startAge int, cfg domain.PensionConfig) decimal.Decimal {
	months := decimal.NewFromInt(int64((startAge - cfg.NormalStartAge) * 12))
	switch {
	case months.IsPositive():
		return one.Add(months.Mul(cfg.DeferFactorPerMonth))
	case months.IsNegative():
		adj := one.Add(months.Mul(cfg.EarlyFactorPerMonth))
		if adj.IsNegative() {
			return decimal.Zero
		}
		return adj
	default:
		return one
	}
}

func (m *incomeModel) current(year int) yearIncome {
	var y yearIncome
	for i := 0; i < 2; i++ {
		age := m.earnerAge(i, year)
		if m.present[i] && age < m.stopAge(i) {
			labour := m.career[i]
			if age >= m.p.IncomeReductionAge {
				labour = m.peak[i].Mul(m.p.IncomeReductionRatio).Round(0)
			}
			y.Labour[i] = labour
		}
		if m.claimed[i] && (m.present[i] || m.widowed) {
			y.Pension[i] = m.pension[i]
		}
	}
	if m.widowed {
		y.Pension[1] = y.Pension[1].Mul(m.p.Pension.SurvivorRatio).Round(0)
	}
	return y
}

// divorce removes the second earner from the household entirely
func (m *incomeModel) divorce() {
	m.present[1] = false
}

// widow stops the second earner's labour income; a survivor share of their
// pension remains
func (m *incomeModel) widow() {
	m.present[1] = false
	m.widowed = true
}

func clampYear(year, n int) int {
	if year >= n {
		return n - 1
	}
	if year < 0 {
		return 0
	}
	return year
}
