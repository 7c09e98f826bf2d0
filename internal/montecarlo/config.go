package montecarlo

import (
	"fmt"
)

// ShiftConfig controls an optional per-trial parallel shift correlated with inflation
type ShiftConfig struct {
	Enabled     bool    `json:"enabled"`
	Volatility  float64 `json:"volatility"`
	Correlation float64 `json:"correlation"` // with the inflation shock
}

// Config holds Monte Carlo batch settings
type Config struct {
	Trials                   int         `json:"trials"`
	Seed                     int64       `json:"seed"`
	ReturnVolatility         float64     `json:"returnVolatility"`
	InflationVolatility      float64     `json:"inflationVolatility"`
	LandVolatility           float64     `json:"landVolatility"`
	InflationLandCorrelation float64     `json:"inflationLandCorrelation"`
	LoanRateShift            ShiftConfig `json:"loanRateShift"`
	WageShift                ShiftConfig `json:"wageShift"`
	FixedPurchaseAge         bool        `json:"fixedPurchaseAge"` // skip re-resolving the purchase age per trial
	Workers                  int         `json:"workers"`
	CollectGrid              bool        `json:"collectGrid"`
}

// DefaultConfig returns the default batch settings
func DefaultConfig() Config {
	return Config{
		Trials:                   1000,
		Seed:                     42,
		ReturnVolatility:         0.15,
		InflationVolatility:      0.01,
		LandVolatility:           0.02,
		InflationLandCorrelation: 0.5,
		LoanRateShift:            ShiftConfig{Volatility: 0.005, Correlation: 0.6},
		WageShift:                ShiftConfig{Volatility: 0.005, Correlation: 0.7},
		Workers:                  1,
		CollectGrid:              true,
	}
}

// Validate checks the batch settings
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.ReturnVolatility < 0 || c.InflationVolatility < 0 || c.LandVolatility < 0 {
		return fmt.Errorf("volatilities cannot be negative")
	}
	for name, rho := range map[string]float64{
		"inflation/land":  c.InflationLandCorrelation,
		"loan rate shift": c.LoanRateShift.Correlation,
		"wage shift":      c.WageShift.Correlation,
	} {
		if rho < -1 || rho > 1 {
			return fmt.Errorf("%s correlation must be within [-1, 1], got %g", name, rho)
		}
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
