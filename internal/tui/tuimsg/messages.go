// Package tuimsg holds the messages scenes emit back to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/homesim/internal/domain"
)

// StrategySelectedMsg signals a strategy row was chosen in the summary table
type StrategySelectedMsg struct {
	Strategy string
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// RunBatchMsg asks the root model to start a Monte Carlo batch
type RunBatchMsg struct{}

// BatchProgressMsg reports completed trials for the running batch
type BatchProgressMsg struct {
	Strategy string
	Done     int
	Total    int
}

// BatchCompleteMsg carries the finished batch, or the error that stopped it
type BatchCompleteMsg struct {
	Results []*domain.MonteCarloResult
	Err     error
}
