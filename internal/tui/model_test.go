package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/config"
	"github.com/rgehrsitz/homesim/internal/tui/tuimsg"
)

const testYAML = `
household:
  start_ages: [37, 35]
  initial_savings: 20000000
  incomes: [8000000, 5000000]
strategies: [normal_rental, house_purchase]
monte_carlo:
  trials: 3
  seed: 9
`

func testInput(t *testing.T) *config.Input {
	t.Helper()
	in, err := config.NewInputParser().Parse([]byte(testYAML))
	require.NoError(t, err)
	return in
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model that has finished its deterministic runs
func loaded(t *testing.T) Model {
	t.Helper()
	m := NewModel("unused.yaml", calculation.NewEngine(), nil)
	m, cmd := update(t, m, ConfigLoadedMsg{Input: testInput(t)})
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	msg := cmd()
	done, ok := msg.(SimulationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	m, _ = update(t, m, msg)
	require.False(t, m.loading)
	return m
}

func TestModel_LoadsAndShowsStrategies(t *testing.T) {
	m := loaded(t)
	assert.Equal(t, SceneStrategies, m.currentScene)
	assert.Contains(t, m.View(), "normal_rental")
}

func TestModel_ConfigErrorIsShownAndDismissed(t *testing.T) {
	m := NewModel("missing.yaml", nil, nil)
	msg := m.Init()()
	_, ok := msg.(tuimsg.ErrorMsg)
	require.True(t, ok)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.View(), "Error:")

	m, _ = update(t, m, keyPress("x"))
	assert.Nil(t, m.err)
}

func TestModel_EnterOpensYearlyLog(t *testing.T) {
	m := loaded(t)

	m, cmd := update(t, m, keyPress("enter"))
	require.NotNil(t, cmd)
	selected, ok := cmd().(tuimsg.StrategySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "normal_rental", selected.Strategy)

	m, cmd = update(t, m, selected)
	m, _ = update(t, m, cmd())
	assert.Equal(t, SceneYearly, m.currentScene)
	assert.Contains(t, m.View(), "normal_rental")

	m, cmd = update(t, m, keyPress("esc"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, SceneStrategies, m.currentScene)
}

func TestModel_MonteCarloBatch(t *testing.T) {
	m := loaded(t)

	m, cmd := update(t, m, keyPress("m"))
	m, _ = update(t, m, cmd())
	require.Equal(t, SceneMonteCarlo, m.currentScene)

	m, cmd = update(t, m, keyPress("enter"))
	require.NotNil(t, cmd)
	m, cmd = update(t, m, cmd())
	require.NotNil(t, m.batch, "batch should be running")
	assert.True(t, m.monteCarloModel.Running())

	progress := 0
	for i := 0; cmd != nil && i < 1000; i++ {
		msg := cmd()
		if _, ok := msg.(tuimsg.BatchProgressMsg); ok {
			progress++
		}
		m, cmd = update(t, m, msg)
		if _, ok := msg.(tuimsg.BatchCompleteMsg); ok {
			break
		}
	}

	assert.Equal(t, 6, progress, "one progress message per trial per strategy")
	assert.Nil(t, m.batch)
	assert.False(t, m.monteCarloModel.Running())
	require.Len(t, m.report.MonteCarlo, 2)
	assert.Equal(t, int64(9), m.report.MonteCarlo[0].Seed)
	assert.Contains(t, m.View(), "P50")
}

func TestModel_BatchErrorStopsRun(t *testing.T) {
	m := loaded(t)
	m.monteCarloModel.Start()
	m, _ = update(t, m, tuimsg.BatchCompleteMsg{Err: errors.New("boom")})
	assert.False(t, m.monteCarloModel.Running())
	assert.EqualError(t, m.err, "boom")
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t)
	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m := loaded(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestScene_String(t *testing.T) {
	assert.Equal(t, "Monte Carlo", SceneMonteCarlo.String())
	assert.Equal(t, "Unknown", Scene(99).String())
}
