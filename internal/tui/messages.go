package tui

import (
	"github.com/rgehrsitz/homesim/internal/config"
	"github.com/rgehrsitz/homesim/internal/output"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneStrategies Scene = iota
	SceneYearly
	SceneMonteCarlo
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneStrategies:
		return "Strategies"
	case SceneYearly:
		return "Yearly Log"
	case SceneMonteCarlo:
		return "Monte Carlo"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ConfigLoadedMsg signals configuration has been loaded and validated
type ConfigLoadedMsg struct {
	Input *config.Input
}

// SimulationCompleteMsg carries the deterministic runs of every strategy
type SimulationCompleteMsg struct {
	Report *output.Report
	Err    error
}
