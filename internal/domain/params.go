package domain

import (
	"github.com/shopspring/decimal"
)

// Rate is an annual rate that is either a single scalar or a per-year sequence.
// A sequence is indexed by elapsed simulation years; lookups past its end
// return the last element.
type Rate struct {
	Value  decimal.Decimal   `json:"value"`
	Series []decimal.Decimal `json:"series,omitempty"`
}

// ScalarRate builds a Rate with a constant value
func ScalarRate(v float64) Rate {
	return Rate{Value: decimal.NewFromFloat(v)}
}

// SeriesRate builds a Rate from a per-year sequence
func SeriesRate(values []decimal.Decimal) Rate {
	r := Rate{Series: append([]decimal.Decimal(nil), values...)}
	if len(values) > 0 {
		r.Value = values[0]
	}
	return r
}

// At returns the rate in effect for the given elapsed year
func (r Rate) At(year int) decimal.Decimal {
	if len(r.Series) == 0 {
		return r.Value
	}
	if year < 0 {
		year = 0
	}
	if year >= len(r.Series) {
		return r.Series[len(r.Series)-1]
	}
	return r.Series[year]
}

// Shift returns a copy with delta added to every value
func (r Rate) Shift(delta decimal.Decimal) Rate {
	out := Rate{Value: r.Value.Add(delta)}
	if len(r.Series) > 0 {
		out.Series = make([]decimal.Decimal, len(r.Series))
		for i, v := range r.Series {
			out.Series[i] = v.Add(delta)
		}
	}
	return out
}

// GrowthFactor compounds the rate from year `from` (inclusive) to `to` (exclusive)
func (r Rate) GrowthFactor(from, to int) decimal.Decimal {
	f := decimal.NewFromInt(1)
	for y := from; y < to; y++ {
		f = f.Mul(decimal.NewFromInt(1).Add(r.At(y)))
	}
	return f.Round(12)
}

// BucketConfig drives the glide-path allocation between equity and safe assets
type BucketConfig struct {
	SafeYears     decimal.Decimal `json:"safeYears"`
	CashYears     decimal.Decimal `json:"cashYears"`
	GoldFraction  decimal.Decimal `json:"goldFraction"`
	GoldEnabled   bool            `json:"goldEnabled"`
	RampYears     int             `json:"rampYears"`
	RetirementAge int             `json:"retirementAge"`
	BondReturn    decimal.Decimal `json:"bondReturn"`
	GoldReturn    decimal.Decimal `json:"goldReturn"`
	SafeCap       decimal.Decimal `json:"safeCap"` // max share of assets held in cash+bond+gold
}

// RampStartAge is the age at which safe-asset targets begin to build up
func (b BucketConfig) RampStartAge() int {
	return b.RetirementAge - b.RampYears
}

// PensionConfig holds public and corporate pension formula constants
type PensionConfig struct {
	BasicAnnual         decimal.Decimal `json:"basicAnnual"`      // flat-rate part per adult
	ProportionalRate    decimal.Decimal `json:"proportionalRate"` // earnings-proportional accrual per year
	CareerYears         int             `json:"careerYears"`
	AverageToPeak       decimal.Decimal `json:"averageToPeak"` // career-average earnings as a share of peak
	CorporateAnnual     decimal.Decimal `json:"corporateAnnual"`
	EarlyFactorPerMonth decimal.Decimal `json:"earlyFactorPerMonth"`
	DeferFactorPerMonth decimal.Decimal `json:"deferFactorPerMonth"`
	MacroSlide          decimal.Decimal `json:"macroSlide"` // annual real-terms reduction
	NormalStartAge      int             `json:"normalStartAge"`
	SurvivorRatio       decimal.Decimal `json:"survivorRatio"`
}

// ScreeningConfig holds loan underwriting limits
type ScreeningConfig struct {
	IncomeMultiplier      decimal.Decimal `json:"incomeMultiplier"`
	StressRate            decimal.Decimal `json:"stressRate"`
	RepaymentRatioCeiling decimal.Decimal `json:"repaymentRatioCeiling"`
}

// ParameterSet is the fully-resolved, immutable configuration consumed by the
// ledger engine. It is passed by value; the With* helpers return modified copies.
type ParameterSet struct {
	InflationRate    Rate `json:"inflationRate"`
	InvestmentReturn Rate `json:"investmentReturn"`
	LandAppreciation Rate `json:"landAppreciation"`
	WageInflation    Rate `json:"wageInflation"`

	IncomeGrowthYoung    decimal.Decimal `json:"incomeGrowthYoung"`
	IncomeGrowthMature   decimal.Decimal `json:"incomeGrowthMature"`
	IncomeBaseAge        int             `json:"incomeBaseAge"`
	IncomeReductionAge   int             `json:"incomeReductionAge"`
	IncomeReductionRatio decimal.Decimal `json:"incomeReductionRatio"`
	PensionReplaceAge    int             `json:"pensionReplaceAge"`
	TakeHomeRatio        decimal.Decimal `json:"takeHomeRatio"`
	PensionTakeHomeRatio decimal.Decimal `json:"pensionTakeHomeRatio"`

	LoanRateSchedule        [5]decimal.Decimal `json:"loanRateSchedule"`
	LoanRateShift           decimal.Decimal    `json:"loanRateShift"`
	LoanTermYears           int                `json:"loanTermYears"`
	LoanDeductionRate       decimal.Decimal    `json:"loanDeductionRate"`
	LoanDeductionYears      int                `json:"loanDeductionYears"`
	LoanDeductionBalanceCap decimal.Decimal    `json:"loanDeductionBalanceCap"`

	LivingCostPerAdult    decimal.Decimal `json:"livingCostPerAdult"`
	LivingCostPerChild    decimal.Decimal `json:"livingCostPerChild"`
	RetirementLivingAge   int             `json:"retirementLivingAge"`
	RetirementLivingRatio decimal.Decimal `json:"retirementLivingRatio"`
	EducationMonthly      decimal.Decimal `json:"educationMonthly"`
	EducationStartAge     int             `json:"educationStartAge"`
	EducationEndAge       int             `json:"educationEndAge"`
	CarMonthly            decimal.Decimal `json:"carMonthly"`
	PetMonthly            decimal.Decimal `json:"petMonthly"`
	ElderlyRentAge        int             `json:"elderlyRentAge"`
	ElderlyRentPremium    decimal.Decimal `json:"elderlyRentPremium"`

	Bucket    BucketConfig    `json:"bucket"`
	Pension   PensionConfig   `json:"pension"`
	Screening ScreeningConfig `json:"screening"`

	RetirementAges   [2]int `json:"retirementAges"`
	PensionStartAges [2]int `json:"pensionStartAges"`

	CapitalGainsTaxRate       decimal.Decimal `json:"capitalGainsTaxRate"`
	RealEstateTaxRate         decimal.Decimal `json:"realEstateTaxRate"`
	PrimaryResidenceExemption decimal.Decimal `json:"primaryResidenceExemption"`
	LiquidationCostRate       decimal.Decimal `json:"liquidationCostRate"`

	NISAAnnualLimitPerAdult   decimal.Decimal `json:"nisaAnnualLimitPerAdult"`
	NISALifetimeLimitPerAdult decimal.Decimal `json:"nisaLifetimeLimitPerAdult"`
	IDeCoEndAge               int             `json:"idecoEndAge"`

	InvestmentDiscipline decimal.Decimal `json:"investmentDiscipline"`
	DivorceSplitRatio    decimal.Decimal `json:"divorceSplitRatio"`
	TerminalAge          int             `json:"terminalAge"`
	MaxPurchaseAge       int             `json:"maxPurchaseAge"`
}

// DefaultParameterSet returns the baseline assumptions
func DefaultParameterSet() ParameterSet {
	d := decimal.NewFromFloat
	return ParameterSet{
		InflationRate:    ScalarRate(0.02),
		InvestmentReturn: ScalarRate(0.05),
		LandAppreciation: ScalarRate(0.005),
		WageInflation:    ScalarRate(0.01),

		IncomeGrowthYoung:    d(0.03),
		IncomeGrowthMature:   d(0.01),
		IncomeBaseAge:        45,
		IncomeReductionAge:   60,
		IncomeReductionRatio: d(0.7),
		PensionReplaceAge:    70,
		TakeHomeRatio:        d(0.78),
		PensionTakeHomeRatio: d(0.90),

		LoanRateSchedule:        [5]decimal.Decimal{d(0.0075), d(0.010), d(0.0125), d(0.015), d(0.0175)},
		LoanTermYears:           35,
		LoanDeductionRate:       d(0.007),
		LoanDeductionYears:      13,
		LoanDeductionBalanceCap: decimal.NewFromInt(45_000_000),

		LivingCostPerAdult:    decimal.NewFromInt(120_000),
		LivingCostPerChild:    decimal.NewFromInt(50_000),
		RetirementLivingAge:   70,
		RetirementLivingRatio: d(0.8),
		EducationMonthly:      decimal.NewFromInt(80_000),
		EducationStartAge:     6,
		EducationEndAge:       22,
		CarMonthly:            decimal.NewFromInt(30_000),
		PetMonthly:            decimal.NewFromInt(15_000),
		ElderlyRentAge:        75,
		ElderlyRentPremium:    d(1.1),

		Bucket: BucketConfig{
			SafeYears:     decimal.NewFromInt(5),
			CashYears:     decimal.NewFromInt(2),
			GoldFraction:  d(0.05),
			GoldEnabled:   true,
			RampYears:     5,
			RetirementAge: 65,
			BondReturn:    d(0.01),
			GoldReturn:    d(0.03),
			SafeCap:       d(0.70),
		},
		Pension: PensionConfig{
			BasicAnnual:         decimal.NewFromInt(816_000),
			ProportionalRate:    d(0.005481),
			CareerYears:         38,
			AverageToPeak:       d(0.75),
			CorporateAnnual:     decimal.Zero,
			EarlyFactorPerMonth: d(0.004),
			DeferFactorPerMonth: d(0.007),
			MacroSlide:          d(0.004),
			NormalStartAge:      65,
			SurvivorRatio:       d(0.75),
		},
		Screening: ScreeningConfig{
			IncomeMultiplier:      d(7.0),
			StressRate:            d(0.035),
			RepaymentRatioCeiling: d(0.35),
		},

		RetirementAges:   [2]int{70, 70},
		PensionStartAges: [2]int{70, 70},

		CapitalGainsTaxRate:       d(0.20315),
		RealEstateTaxRate:         d(0.20315),
		PrimaryResidenceExemption: decimal.NewFromInt(30_000_000),
		LiquidationCostRate:       d(0.04),

		NISAAnnualLimitPerAdult:   decimal.NewFromInt(3_600_000),
		NISALifetimeLimitPerAdult: decimal.NewFromInt(18_000_000),
		IDeCoEndAge:               65,

		InvestmentDiscipline: decimal.NewFromInt(1),
		DivorceSplitRatio:    d(0.5),
		TerminalAge:          80,
		MaxPurchaseAge:       55,
	}
}

// LoanRate returns the contract rate for the given elapsed loan-year.
// The rate steps every five loan-years and holds at the last entry.
func (p ParameterSet) LoanRate(loanYear int) decimal.Decimal {
	idx := loanYear / 5
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.LoanRateSchedule) {
		idx = len(p.LoanRateSchedule) - 1
	}
	r := p.LoanRateSchedule[idx].Add(p.LoanRateShift)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// InflationFactor is cumulative price inflation after the given number of elapsed years
func (p ParameterSet) InflationFactor(years int) decimal.Decimal {
	return p.InflationRate.GrowthFactor(0, years)
}

// WithInvestmentReturn returns a copy with the investment return replaced
func (p ParameterSet) WithInvestmentReturn(r Rate) ParameterSet {
	p.InvestmentReturn = r
	return p
}

// WithMacro returns a copy with the macro rates replaced
func (p ParameterSet) WithMacro(inflation, land, wage Rate) ParameterSet {
	p.InflationRate = inflation
	p.LandAppreciation = land
	p.WageInflation = wage
	return p
}

// WithLoanRateShift returns a copy with a parallel shift applied to the loan schedule
func (p ParameterSet) WithLoanRateShift(shift decimal.Decimal) ParameterSet {
	p.LoanRateShift = shift
	return p
}
