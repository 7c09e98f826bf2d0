package montecarlo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHousehold() domain.Household {
	return domain.Household{
		StartAges:           [2]int{37, 37},
		InitialSavings:      decimal.NewFromInt(20_000_000),
		AnnualIncomes:       [2]decimal.Decimal{decimal.NewFromInt(8_000_000), decimal.NewFromInt(5_000_000)},
		EmergencyFundMonths: decimal.NewFromInt(6),
	}
}

func testDriver(trials int) *Driver {
	d := NewDriver(calculation.NewEngine(), domain.DefaultParameterSet(), testHousehold())
	d.Risk = domain.DefaultEventRiskConfig()
	d.Config.Trials = trials
	return d
}

type recorder struct {
	mu         sync.Mutex
	trials     int
	infeasible int
	batches    int
}

func (r *recorder) TrialFinished(_ string, _, _, infeasible bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trials++
	if infeasible {
		r.infeasible++
	}
}

func (r *recorder) BatchFinished(string, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
}

func assertSameResult(t *testing.T, a, b *domain.MonteCarloResult) {
	t.Helper()
	require.Len(t, b.Outcomes, len(a.Outcomes))
	for i := range a.Outcomes {
		assert.True(t, a.Outcomes[i].Equal(b.Outcomes[i]), "outcome %d differs", i)
	}
	for _, p := range domain.PercentileLevels {
		assert.True(t, a.Percentiles[p].Equal(b.Percentiles[p]), "P%d differs", p)
	}
	assert.Equal(t, a.BankruptCount, b.BankruptCount)
	assert.Equal(t, a.InvasionCount, b.InvasionCount)
	assert.True(t, a.Mean.Equal(b.Mean))
	assert.True(t, a.StdDev.Equal(b.StdDev))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Trials = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.WageShift.Correlation = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LandVolatility = -0.1
	assert.Error(t, cfg.Validate())
}

func TestRun_SameSeedIsDeterministic(t *testing.T) {
	factory := KindFactory(strategy.NormalRental, strategy.Overrides{})

	d := testDriver(12)
	d.Config.LoanRateShift.Enabled = true
	d.Config.WageShift.Enabled = true
	first, err := d.Run(context.Background(), "normal_rental", factory)
	require.NoError(t, err)
	second, err := d.Run(context.Background(), "normal_rental", factory)
	require.NoError(t, err)
	assertSameResult(t, first, second)

	d.Config.Workers = 4
	parallel, err := d.Run(context.Background(), "normal_rental", factory)
	require.NoError(t, err)
	assertSameResult(t, first, parallel)
}

func TestRun_HigherVolatilityWidensSpread(t *testing.T) {
	factory := KindFactory(strategy.NormalRental, strategy.Overrides{})
	spread := func(vol float64) decimal.Decimal {
		d := testDriver(40)
		d.Risk = domain.EventRiskConfig{}
		d.Config.ReturnVolatility = vol
		d.Config.Workers = 4
		res, err := d.Run(context.Background(), "normal_rental", factory)
		require.NoError(t, err)
		return res.Percentiles[95].Sub(res.Percentiles[5])
	}

	low := spread(0.05)
	high := spread(0.25)
	assert.True(t, high.GreaterThan(low), "P5-P95 spread %s should exceed %s", high, low)
}

func TestRun_InfeasibleTrialsAreFoldedIn(t *testing.T) {
	d := testDriver(5)
	d.Household.InitialSavings = decimal.NewFromInt(1_000_000)
	d.Household.AnnualIncomes = [2]decimal.Decimal{decimal.NewFromInt(3_000_000), decimal.NewFromInt(1_000_000)}
	rec := &recorder{}
	d.Metrics = rec

	res, err := d.Run(context.Background(), "mansion_purchase", KindFactory(strategy.MansionPurchase, strategy.Overrides{}))
	require.NoError(t, err, "infeasibility never aborts a batch")

	assert.Equal(t, 5, res.Trials)
	assert.Equal(t, 5, res.InfeasibleCount)
	assert.Equal(t, 5, res.BankruptCount)
	assert.Equal(t, 5, res.InvasionCount)
	assert.Equal(t, "1", res.BankruptProb.String())
	for _, p := range domain.PercentileLevels {
		assert.True(t, res.Percentiles[p].IsZero())
	}
	assert.Empty(t, res.Grid)
	assert.Equal(t, 5, rec.trials)
	assert.Equal(t, 5, rec.infeasible)
	assert.Equal(t, 1, rec.batches)
}

func TestRun_Grid(t *testing.T) {
	d := testDriver(6)
	d.Config.Workers = 2
	var calls []int
	d.Progress = func(strategy string, done, total int) {
		assert.Equal(t, "strategic_rental", strategy)
		assert.Equal(t, 6, total)
		calls = append(calls, done)
	}

	res, err := d.Run(context.Background(), "strategic_rental", KindFactory(strategy.StrategicRental, strategy.Overrides{}))
	require.NoError(t, err)

	assert.Len(t, calls, 6)
	assert.Equal(t, 6, calls[len(calls)-1])
	start, end := d.Household.StartAges[0], d.Base.TerminalAge
	assert.Len(t, res.Grid, end-start)
	for age := start; age < end; age++ {
		row, ok := res.Grid[age]
		require.True(t, ok, "age %d missing", age)
		assert.False(t, row[5].GreaterThan(row[50]))
		assert.False(t, row[50].GreaterThan(row[95]))
	}
	assert.Len(t, res.Outcomes, 6)
	assert.False(t, res.Outcomes[0].GreaterThan(res.Outcomes[5]), "outcomes are sorted")
}

func TestRun_FixedPurchaseAge(t *testing.T) {
	d := testDriver(4)
	d.Config.FixedPurchaseAge = true
	res, err := d.Run(context.Background(), "house_purchase", KindFactory(strategy.HousePurchase, strategy.Overrides{}))
	require.NoError(t, err)
	assert.Equal(t, 0, res.InfeasibleCount)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testDriver(3).Run(ctx, "normal_rental", KindFactory(strategy.NormalRental, strategy.Overrides{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	d := testDriver(3)
	d.Config.CollectGrid = false
	results, err := d.RunAll(context.Background(), []strategy.Kind{strategy.NormalRental, strategy.StrategicRental}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, strategy.NormalRental.String(), results[0].Strategy)
	assert.Equal(t, strategy.StrategicRental.String(), results[1].Strategy)
	assert.Nil(t, results[0].Grid)
	assert.Equal(t, int64(42), results[1].Seed)
}

func TestRun_RequiresFactory(t *testing.T) {
	_, err := testDriver(1).Run(context.Background(), "x", nil)
	assert.Error(t, err)
}
