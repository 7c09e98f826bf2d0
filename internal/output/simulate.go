package output

import (
	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/config"
)

// Simulate runs every configured strategy once with no life events and
// assembles the deterministic report
func Simulate(engine *calculation.Engine, in *config.Input) (*Report, error) {
	h, err := in.ResolveHousehold()
	if err != nil {
		return nil, err
	}
	p := in.Parameters()
	profiles, err := in.Profiles(h)
	if err != nil {
		return nil, err
	}
	results, failures := engine.SimulateAll(profiles, p, h)
	return NewReport(h, p, results, failures), nil
}
