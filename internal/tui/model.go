package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/config"
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/montecarlo"
	"github.com/rgehrsitz/homesim/internal/output"
	"github.com/rgehrsitz/homesim/internal/tui/scenes"
	"github.com/rgehrsitz/homesim/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	input      *config.Input
	report     *output.Report

	engine *calculation.Engine
	logger calculation.Logger

	keys keyMap
	help help.Model

	strategiesModel *scenes.StrategiesModel
	yearlyModel     *scenes.YearlyModel
	monteCarloModel *scenes.MonteCarloModel

	// Running batch; nil when idle
	batch  <-chan tea.Msg
	cancel context.CancelFunc

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. A nil logger discards output.
func NewModel(configPath string, engine *calculation.Engine, logger calculation.Logger) Model {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return Model{
		currentScene:    SceneStrategies,
		configPath:      configPath,
		engine:          engine,
		logger:          logger,
		keys:            defaultKeyMap(),
		help:            help.New(),
		strategiesModel: scenes.NewStrategiesModel(),
		yearlyModel:     scenes.NewYearlyModel(),
		monteCarloModel: scenes.NewMonteCarloModel(),
		width:           80,
		height:          24,
		loading:         true,
		loadingMessage:  "Loading configuration...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		in, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Input: in}
	}
}

// simulateCmd runs every configured strategy once with no life events
func simulateCmd(engine *calculation.Engine, in *config.Input) tea.Cmd {
	return func() tea.Msg {
		report, err := output.Simulate(engine, in)
		return SimulationCompleteMsg{Report: report, Err: err}
	}
}

// startBatchCmd runs a Monte Carlo batch per configured strategy in the
// background. Progress and the final result arrive on the returned channel,
// which is closed after the BatchCompleteMsg.
func startBatchCmd(ctx context.Context, engine *calculation.Engine, logger calculation.Logger, in *config.Input) (<-chan tea.Msg, error) {
	d, err := in.NewDriver(engine)
	if err != nil {
		return nil, err
	}
	d.Logger = logger
	kinds, err := in.Kinds()
	if err != nil {
		return nil, err
	}

	ch := make(chan tea.Msg, 64)
	go func() {
		defer close(ch)
		send := func(msg tea.Msg) {
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		}
		var results []*domain.MonteCarloResult
		d.Progress = func(strategy string, done, total int) {
			send(tuimsg.BatchProgressMsg{Strategy: strategy, Done: done, Total: total})
		}
		for _, k := range kinds {
			name := k.String()
			res, err := d.Run(ctx, name, montecarlo.KindFactory(k, in.StrategyOverrides(k)))
			if err != nil {
				send(tuimsg.BatchCompleteMsg{Err: fmt.Errorf("%s: %w", name, err)})
				return
			}
			results = append(results, res)
		}
		send(tuimsg.BatchCompleteMsg{Results: results})
	}()
	return ch, nil
}

// waitForBatch delivers the next message from a running batch
func waitForBatch(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
