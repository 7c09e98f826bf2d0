package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/events"
	"github.com/rgehrsitz/homesim/internal/strategy"
	"github.com/shopspring/decimal"
)

// Factory builds a fresh strategy profile for one trial
type Factory func(h domain.Household) (*strategy.Profile, error)

// KindFactory returns a Factory for one of the built-in strategy kinds
func KindFactory(kind strategy.Kind, o strategy.Overrides) Factory {
	return func(h domain.Household) (*strategy.Profile, error) {
		return strategy.New(kind, h, o)
	}
}

// Recorder receives one observation per finished trial
type Recorder interface {
	TrialFinished(strategy string, bankrupt, invaded, infeasible bool, elapsed time.Duration)
	BatchFinished(strategy string, trials int, elapsed time.Duration)
}

// Driver runs Monte Carlo batches of the ledger engine
type Driver struct {
	Engine    *calculation.Engine
	Base      domain.ParameterSet
	Household domain.Household
	Risk      domain.EventRiskConfig
	Config    Config
	Logger    calculation.Logger
	Metrics   Recorder
	Progress  func(strategy string, done, total int)
}

// NewDriver creates a driver with default batch settings and no life events
func NewDriver(engine *calculation.Engine, base domain.ParameterSet, h domain.Household) *Driver {
	return &Driver{
		Engine:    engine,
		Base:      base,
		Household: h,
		Config:    DefaultConfig(),
		Logger:    calculation.NopLogger{},
	}
}

// trial is everything one ledger run needs; it is built on the driver goroutine
type trial struct {
	params    domain.ParameterSet
	household domain.Household
	profile   *strategy.Profile
	timeline  domain.EventTimeline
	err       error // construction failure
}

type outcome struct {
	assets     decimal.Decimal
	bankrupt   bool
	invaded    bool
	infeasible bool
	series     []ageBalance
}

type ageBalance struct {
	Age     int
	Balance decimal.Decimal
}

// Run executes Config.Trials trials of one strategy. Every random draw is made
// in trial order on the calling goroutine from a source seeded with
// Config.Seed; only the ledger runs fan out to Config.Workers goroutines. The
// result is therefore identical for any worker count.
//
// A trial whose strategy cannot be constructed under its resampled parameters
// counts as bankrupt and principal-invaded with zero terminal assets.
func (d *Driver) Run(ctx context.Context, name string, factory Factory) (*domain.MonteCarloResult, error) {
	if factory == nil {
		return nil, errors.New("strategy factory is required")
	}
	if err := d.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monte carlo config: %w", err)
	}
	if err := d.Household.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household: %w", err)
	}
	start := d.Household.StartAges[0]
	years := d.Base.TerminalAge - start
	if years <= 0 {
		return nil, fmt.Errorf("start age %d must be below terminal age %d", start, d.Base.TerminalAge)
	}

	engine := d.engine()
	log := d.logger()
	began := time.Now()

	fixed := d.Household
	var fixedErr error
	if d.Config.FixedPurchaseAge {
		fixed, fixedErr = d.plan(engine, factory, d.Base, d.Household)
	}

	rng := rand.New(rand.NewSource(d.Config.Seed))
	trials := make([]trial, d.Config.Trials)
	for i := range trials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trials[i] = d.draw(rng, years)
		t := &trials[i]
		if t.err != nil {
			continue
		}
		if d.Config.FixedPurchaseAge {
			t.household, t.err = fixed, fixedErr
		} else {
			t.household, t.err = d.plan(engine, factory, t.params, d.Household)
		}
		if t.err != nil {
			continue
		}
		t.profile, t.err = factory(t.household)
		if t.err != nil {
			continue
		}
		risk := d.Risk.ForHousehold(t.household)
		t.timeline = events.Sample(rng, risk, start, years*12, !t.profile.Owns(), t.params.PensionStartAges[0])
	}

	outcomes := make([]outcome, len(trials))
	semaphore := make(chan struct{}, d.Config.workers())
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0
	for i := range trials {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			t0 := time.Now()
			outcomes[idx] = d.execute(engine, &trials[idx])
			if d.Metrics != nil {
				o := outcomes[idx]
				d.Metrics.TrialFinished(name, o.bankrupt, o.invaded, o.infeasible, time.Since(t0))
			}
			if d.Progress != nil {
				mu.Lock()
				done++
				d.Progress(name, done, len(trials))
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := d.aggregate(name, outcomes)
	elapsed := time.Since(began)
	if d.Metrics != nil {
		d.Metrics.BatchFinished(name, len(trials), elapsed)
	}
	log.Infof("%s: %d trials in %v, median %s, bankrupt %s, invaded %s",
		name, res.Trials, elapsed.Round(time.Millisecond), res.Percentiles[50].StringFixed(0),
		res.BankruptProb.String(), res.InvasionProb.String())
	return res, nil
}

// RunAll runs one batch per strategy kind, each from the same seed.
// overrides may be nil.
func (d *Driver) RunAll(ctx context.Context, kinds []strategy.Kind, overrides func(strategy.Kind) strategy.Overrides) ([]*domain.MonteCarloResult, error) {
	results := make([]*domain.MonteCarloResult, 0, len(kinds))
	for _, k := range kinds {
		var o strategy.Overrides
		if overrides != nil {
			o = overrides(k)
		}
		res, err := d.Run(ctx, k.String(), KindFactory(k, o))
		if err != nil {
			return results, fmt.Errorf("%s: %w", k, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// draw samples the macro path of one trial: yearly returns, the
// inflation/land pair, then the optional loan and wage shifts
func (d *Driver) draw(rng *rand.Rand, years int) trial {
	cfg := d.Config
	p := d.Base

	returns := make([]decimal.Decimal, years)
	for y := range returns {
		mean := p.InvestmentReturn.At(y).InexactFloat64()
		returns[y] = decimal.NewFromFloat(LogNormalReturn(rng, mean, cfg.ReturnVolatility)).Round(6)
	}

	inflShock, landShock, z := CorrelatedPair(rng, 0, cfg.InflationVolatility, 0, cfg.LandVolatility, cfg.InflationLandCorrelation)
	inflation := p.InflationRate.Shift(decimal.NewFromFloat(inflShock).Round(6))
	land := p.LandAppreciation.Shift(decimal.NewFromFloat(landShock).Round(6))
	wage := p.WageInflation

	params := p.WithInvestmentReturn(domain.SeriesRate(returns))
	if cfg.LoanRateShift.Enabled {
		shift := cfg.LoanRateShift.Volatility * Correlate(z, rng.NormFloat64(), cfg.LoanRateShift.Correlation)
		params = params.WithLoanRateShift(p.LoanRateShift.Add(decimal.NewFromFloat(shift).Round(6)))
	}
	if cfg.WageShift.Enabled {
		shift := cfg.WageShift.Volatility * Correlate(z, rng.NormFloat64(), cfg.WageShift.Correlation)
		wage = wage.Shift(decimal.NewFromFloat(shift).Round(6))
	}
	return trial{params: params.WithMacro(inflation, land, wage)}
}

// plan settles the purchase age of a purchase strategy under the given parameters
func (d *Driver) plan(engine *calculation.Engine, factory Factory, p domain.ParameterSet, h domain.Household) (domain.Household, error) {
	s, err := factory(h)
	if err != nil {
		return h, err
	}
	return engine.PlanPurchase(s, h, p)
}

func (d *Driver) execute(engine *calculation.Engine, t *trial) outcome {
	if t.err != nil {
		return outcome{assets: decimal.Zero, bankrupt: true, invaded: true, infeasible: true}
	}
	res, err := engine.Simulate(t.profile, t.params, t.household, &t.timeline)
	if err != nil {
		return outcome{assets: decimal.Zero, bankrupt: true, invaded: true, infeasible: true}
	}
	o := outcome{
		assets:   res.AfterTaxNetAssets,
		bankrupt: res.Bankrupt,
		invaded:  res.PrincipalInvaded,
	}
	if d.Config.CollectGrid {
		o.series = make([]ageBalance, len(res.YearlyLog))
		for i, row := range res.YearlyLog {
			o.series[i] = ageBalance{Age: row.Age, Balance: row.Balance}
		}
	}
	return o
}

func (d *Driver) aggregate(name string, outcomes []outcome) *domain.MonteCarloResult {
	res := &domain.MonteCarloResult{
		Strategy: name,
		Trials:   len(outcomes),
		Seed:     d.Config.Seed,
	}
	assets := make([]decimal.Decimal, len(outcomes))
	var series [][]ageBalance
	for i, o := range outcomes {
		assets[i] = o.assets
		if o.bankrupt {
			res.BankruptCount++
		}
		if o.invaded {
			res.InvasionCount++
		}
		if o.infeasible {
			res.InfeasibleCount++
		}
		if o.series != nil {
			series = append(series, o.series)
		}
	}
	res.Outcomes = sortedCopy(assets)
	res.Percentiles = Percentiles(res.Outcomes, domain.PercentileLevels)
	res.Mean, res.StdDev = MeanStdDev(assets)
	res.BankruptProb = probability(res.BankruptCount, res.Trials)
	res.InvasionProb = probability(res.InvasionCount, res.Trials)
	if d.Config.CollectGrid {
		res.Grid = buildGrid(series, domain.PercentileLevels)
	}
	return res
}

func (d *Driver) engine() *calculation.Engine {
	if d.Engine == nil {
		return calculation.NewEngine()
	}
	return d.Engine
}

func (d *Driver) logger() calculation.Logger {
	if d.Logger == nil {
		return calculation.NopLogger{}
	}
	return d.Logger
}
