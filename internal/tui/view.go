package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneStrategies:
		content = m.strategiesModel.View()
	case SceneYearly:
		content = m.yearlyModel.View()
	case SceneMonteCarlo:
		content = m.monteCarloModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4 // Title (2) + status (1) + padding (1)
	if contentHeight < 0 {
		contentHeight = 0
	}
	container := lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		container,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("homesim - buy vs rent")
	crumb := m.currentScene.String()
	if m.currentScene == SceneYearly {
		if res := m.strategiesModel.Selected(); res != nil {
			crumb = fmt.Sprintf("%s / %s", crumb, res.Strategy)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.batch != nil {
		running := tuistyles.StatusKeyStyle.Render(fmt.Sprintf("batch %.0f%%", m.monteCarloModel.Percent()*100))
		gap := m.width - lipgloss.Width(status) - lipgloss.Width(running) - 2
		status += strings.Repeat(" ", max(1, gap)) + running
	}
	return tuistyles.StatusBarStyle.Width(m.width).Render(status)
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(tuistyles.BorderStyle.Render("⠋ " + message))
}

func (m Model) renderError() string {
	return m.renderApp(tuistyles.ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err),
	))
}

func (m Model) renderHelp() string {
	text := `Strategies shows one deterministic run per strategy with no life events.
Enter on a row opens its yearly log.

Monte Carlo runs the configured batch for every strategy and shows
percentile bands of total assets by age. Enter starts or reruns it.

`
	return tuistyles.BorderStyle.Render(text + m.help.FullHelpView(m.keys.FullHelp()))
}
