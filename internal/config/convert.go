package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/montecarlo"
	"github.com/rgehrsitz/homesim/internal/strategy"
	"github.com/shopspring/decimal"
)

// ParseSpecialExpenses parses "age:amount[:label],..." into expenses sorted by
// age. An empty string yields no expenses.
func ParseSpecialExpenses(s string) ([]domain.SpecialExpense, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []domain.SpecialExpense
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("expense %q must be age:amount[:label]", item)
		}
		age, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || age <= 0 {
			return nil, fmt.Errorf("expense %q has an invalid age", item)
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(parts[1]), "_", ""))
		if err != nil || amount.IsNegative() {
			return nil, fmt.Errorf("expense %q has an invalid amount", item)
		}
		e := domain.SpecialExpense{Age: age, Amount: amount}
		if len(parts) == 3 {
			e.Label = strings.TrimSpace(parts[2])
		}
		out = append(out, e)
	}
	domain.SortSpecialExpenses(out)
	return out, nil
}

// ResolveHousehold converts the household section
func (in *Input) ResolveHousehold() (domain.Household, error) {
	hi := in.Household
	expenses, err := ParseSpecialExpenses(hi.SpecialExpenses)
	if err != nil {
		return domain.Household{}, err
	}
	h := domain.Household{
		StartAges:           [2]int{hi.StartAges[0], hi.StartAges[1]},
		InitialSavings:      yen(hi.InitialSavings),
		AnnualIncomes:       [2]decimal.Decimal{yen(hi.Incomes[0]), yen(hi.Incomes[1])},
		LivingCostPremium:   yen(hi.LivingCostPremium),
		HasCar:              hi.HasCar,
		HasPet:              hi.HasPet,
		MayRelocate:         hi.MayRelocate,
		IDeCoMonthly:        [2]decimal.Decimal{yen(hi.IDeCoMonthly[0]), yen(hi.IDeCoMonthly[1])},
		EmergencyFundMonths: decimal.NewFromFloat(*hi.EmergencyFundMonths),
		SpecialExpenses:     expenses,
		PurchaseAge:         hi.PurchaseAge,
	}
	for _, c := range hi.Children {
		h.Children = append(h.Children, domain.Child{BirthAge: c.BirthAge, IndependenceAge: c.IndependenceAge})
	}
	return h, h.Validate()
}

// Parameters overlays the assumptions section on the default parameter set
func (in *Input) Parameters() domain.ParameterSet {
	a := in.Assumptions
	p := domain.DefaultParameterSet()

	p.InflationRate = rate(*a.InflationRate, a.InflationSeries)
	p.InvestmentReturn = rate(*a.InvestmentReturn, a.InvestmentReturnSeries)
	p.LandAppreciation = domain.ScalarRate(*a.LandAppreciation)
	p.WageInflation = domain.ScalarRate(*a.WageInflation)

	if len(a.LoanRateSchedule) == len(p.LoanRateSchedule) {
		for i, r := range a.LoanRateSchedule {
			p.LoanRateSchedule[i] = decimal.NewFromFloat(r)
		}
	}
	p.LoanTermYears = a.LoanTermYears
	p.RetirementAges = [2]int{a.RetirementAges[0], a.RetirementAges[1]}
	p.PensionStartAges = [2]int{a.PensionStartAges[0], a.PensionStartAges[1]}
	p.InvestmentDiscipline = decimal.NewFromFloat(*a.InvestmentDiscipline)
	p.DivorceSplitRatio = decimal.NewFromFloat(*a.DivorceSplitRatio)
	p.TerminalAge = a.TerminalAge
	p.MaxPurchaseAge = a.MaxPurchaseAge

	b := a.Bucket
	p.Bucket.SafeYears = decimal.NewFromFloat(b.SafeYears)
	p.Bucket.CashYears = decimal.NewFromFloat(b.CashYears)
	p.Bucket.GoldFraction = decimal.NewFromFloat(b.GoldFraction)
	p.Bucket.GoldEnabled = *b.GoldEnabled
	p.Bucket.RampYears = b.RampYears
	p.Bucket.RetirementAge = b.RetirementAge
	p.Bucket.BondReturn = decimal.NewFromFloat(*b.BondReturn)
	p.Bucket.GoldReturn = decimal.NewFromFloat(*b.GoldReturn)
	p.Bucket.SafeCap = decimal.NewFromFloat(b.SafeCap)
	return p
}

// EventRisk converts the events section; a disabled section has no hazards
func (in *Input) EventRisk() domain.EventRiskConfig {
	e := in.Events
	if e.Disable {
		return domain.EventRiskConfig{}
	}
	return domain.EventRiskConfig{
		JobLossProb:           *e.JobLossProb,
		JobLossMaxOccurrences: e.JobLossMaxOccurrences,
		JobLossDurationMonths: e.JobLossDurationMonths,
		ReemploymentAgeLimit:  e.ReemploymentAgeLimit,
		DisasterProb:          *e.DisasterProb,
		DisasterDamageRatio:   decimal.NewFromFloat(e.DisasterDamageRatio),
		InsuranceCoverage:     decimal.NewFromFloat(e.InsuranceCoverage),
		CareProb:              *e.CareProb,
		CareOnsetAge:          e.CareOnsetAge,
		CareMonthlyCost:       yen(e.CareMonthlyCost),
		RentalRejectionProb:   *e.RentalRejectionProb,
		RentalRejectionCost:   yen(e.RentalRejectionCost),
		DivorceProb:           *e.DivorceProb,
		SpouseDeathProb:       *e.SpouseDeathProb,
		RelocationProb:        *e.RelocationProb,
		RelocationCost:        yen(e.RelocationCost),
	}
}

// BatchConfig converts the Monte Carlo settings
func (in *Input) BatchConfig() montecarlo.Config {
	m := in.MonteCarlo
	return montecarlo.Config{
		Trials:                   m.Trials,
		Seed:                     m.Seed,
		ReturnVolatility:         *m.ReturnVolatility,
		InflationVolatility:      *m.InflationVolatility,
		LandVolatility:           *m.LandVolatility,
		InflationLandCorrelation: *m.InflationLandCorrelation,
		LoanRateShift:            shift(m.LoanRateShift),
		WageShift:                shift(m.WageShift),
		FixedPurchaseAge:         m.FixedPurchaseAge,
		Workers:                  m.Workers,
		CollectGrid:              *m.CollectGrid,
	}
}

// NewDriver builds a Monte Carlo driver for the configured household, risks
// and batch settings
func (in *Input) NewDriver(engine *calculation.Engine) (*montecarlo.Driver, error) {
	h, err := in.ResolveHousehold()
	if err != nil {
		return nil, err
	}
	d := montecarlo.NewDriver(engine, in.Parameters(), h)
	d.Risk = in.EventRisk()
	d.Config = in.BatchConfig()
	if err := d.Config.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Kinds returns the configured strategies in report order, or all of them
func (in *Input) Kinds() ([]strategy.Kind, error) {
	if len(in.Strategies) == 0 {
		return append([]strategy.Kind(nil), strategy.AllKinds...), nil
	}
	seen := make(map[strategy.Kind]bool)
	var kinds []strategy.Kind
	for _, name := range in.Strategies {
		k, err := strategy.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("strategies: %w", err)
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// StrategyOverrides returns the overrides configured for kind
func (in *Input) StrategyOverrides(kind strategy.Kind) strategy.Overrides {
	for name, o := range in.Overrides {
		k, err := strategy.ParseKind(name)
		if err != nil || k != kind {
			continue
		}
		return strategy.Overrides{Price: yen(o.Price), Loan: yen(o.Loan), Rent: yen(o.Rent)}
	}
	return strategy.Overrides{}
}

// Profiles builds one fresh profile per configured strategy
func (in *Input) Profiles(h domain.Household) ([]*strategy.Profile, error) {
	kinds, err := in.Kinds()
	if err != nil {
		return nil, err
	}
	profiles := make([]*strategy.Profile, 0, len(kinds))
	for _, k := range kinds {
		s, err := strategy.New(k, h, in.StrategyOverrides(k))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, s)
	}
	return profiles, nil
}

func rate(scalar float64, series []float64) domain.Rate {
	if len(series) == 0 {
		return domain.ScalarRate(scalar)
	}
	values := make([]decimal.Decimal, len(series))
	for i, v := range series {
		values[i] = decimal.NewFromFloat(v)
	}
	return domain.SeriesRate(values)
}

func shift(s ShiftInput) montecarlo.ShiftConfig {
	return montecarlo.ShiftConfig{Enabled: s.Enabled, Volatility: s.Volatility, Correlation: *s.Correlation}
}

func yen(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}
