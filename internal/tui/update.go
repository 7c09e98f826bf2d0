package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/homesim/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.strategiesModel.SetSize(msg.Width, msg.Height-4)
		m.yearlyModel.SetSize(msg.Width, msg.Height-4)
		m.monteCarloModel.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.input = msg.Input
		m.loadingMessage = "Simulating strategies..."
		return m, simulateCmd(m.engine, msg.Input)

	case SimulationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.report = msg.Report
		m.strategiesModel.SetReport(msg.Report)
		return m, nil

	case tuimsg.StrategySelectedMsg:
		m.yearlyModel.SetResult(m.strategiesModel.Selected())
		return m, navigate(SceneYearly)

	case tuimsg.RunBatchMsg:
		if m.input == nil || m.batch != nil {
			return m, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := startBatchCmd(ctx, m.engine, m.logger, m.input)
		if err != nil {
			cancel()
			m.err = err
			return m, nil
		}
		m.batch = ch
		m.cancel = cancel
		m.monteCarloModel.Start()
		return m, waitForBatch(ch)

	case tuimsg.BatchProgressMsg:
		if m.batch == nil {
			return m, nil
		}
		m.monteCarloModel.SetProgress(msg)
		return m, waitForBatch(m.batch)

	case tuimsg.BatchCompleteMsg:
		m.stopBatch()
		if msg.Err != nil {
			m.monteCarloModel.Stop()
			m.err = msg.Err
			return m, nil
		}
		m.monteCarloModel.SetResults(msg.Results)
		if m.report != nil {
			m.report.MonteCarlo = msg.Results
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.stopBatch()
		return m, tea.Quit
	}

	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		return m, navigate(SceneHelp)

	case key.Matches(msg, m.keys.Back):
		if m.currentScene == SceneStrategies {
			return m, nil
		}
		back := m.previousScene
		if back == m.currentScene {
			back = SceneStrategies
		}
		return m, navigate(back)

	case key.Matches(msg, m.keys.Strategies):
		return m, navigate(SceneStrategies)

	case key.Matches(msg, m.keys.MonteCarlo):
		return m, navigate(SceneMonteCarlo)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneStrategies:
		m.strategiesModel, cmd = m.strategiesModel.Update(msg)
	case SceneYearly:
		m.yearlyModel, cmd = m.yearlyModel.Update(msg)
	case SceneMonteCarlo:
		m.monteCarloModel, cmd = m.monteCarloModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) stopBatch() {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = nil
	m.batch = nil
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}
