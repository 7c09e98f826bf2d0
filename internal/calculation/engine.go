package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/strategy"
)

// Engine runs the monthly household ledger for one strategy at a time.
// It holds no run state and may be shared between goroutines.
type Engine struct {
	Logger Logger
}

// NewEngine creates a new ledger engine
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the logger; nil restores the no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// Simulate advances the household month by month from the primary earner's
// start age to the terminal age under one strategy. A nil timeline runs without
// life events.
//
// A configuration that cannot start (savings short of the up-front cash) is
// returned as a *strategy.InfeasibleError. Running out of money later is not an
// error: it is recorded as bankruptcy on the result and the run continues with
// empty pools.
func (e *Engine) Simulate(s *strategy.Profile, p domain.ParameterSet, h domain.Household, timeline *domain.EventTimeline) (*domain.SimulationResult, error) {
	if s == nil {
		return nil, errors.New("strategy profile is required")
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household: %w", err)
	}
	if h.StartAges[0] >= p.TerminalAge {
		return nil, fmt.Errorf("start age %d must be below terminal age %d", h.StartAges[0], p.TerminalAge)
	}

	tl := domain.EmptyTimeline()
	if timeline != nil {
		tl = *timeline
	}

	log := e.logger()
	l, err := newLedger(s, p, h, tl, log)
	if err != nil {
		log.Warnf("%s: cannot start: %v", s.Name(), err)
		return nil, err
	}
	return l.run(), nil
}

// SimulateAll runs every strategy against the same household and parameters.
// Strategies that cannot start are reported in the error map and skipped.
func (e *Engine) SimulateAll(profiles []*strategy.Profile, p domain.ParameterSet, h domain.Household) ([]*domain.SimulationResult, map[string]error) {
	var results []*domain.SimulationResult
	failures := make(map[string]error)
	for _, s := range profiles {
		planned, err := e.PlanPurchase(s, h, p)
		if err != nil {
			failures[s.Name()] = err
			continue
		}
		res, err := e.Simulate(s, p, planned, nil)
		if err != nil {
			failures[s.Name()] = err
			continue
		}
		results = append(results, res)
	}
	return results, failures
}
