package scenes

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/output"
	"github.com/rgehrsitz/homesim/internal/tui/components"
	"github.com/rgehrsitz/homesim/internal/tui/tuimsg"
	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

var runKey = key.NewBinding(key.WithKeys("enter", "R"), key.WithHelp("enter", "run batch"))

// MonteCarloModel runs a batch and shows percentile bands per strategy
type MonteCarloModel struct {
	results []*domain.MonteCarloResult
	table   table.Model
	bar     progress.Model

	running  bool
	strategy string
	done     int
	total    int

	width  int
	height int
}

// NewMonteCarloModel creates an idle Monte Carlo scene
func NewMonteCarloModel() *MonteCarloModel {
	cols := []table.Column{{Title: "Strategy", Width: 18}}
	for _, p := range domain.PercentileLevels {
		cols = append(cols, table.Column{Title: "P" + strconv.Itoa(p), Width: 10})
	}
	cols = append(cols, table.Column{Title: "Bankrupt", Width: 8}, table.Column{Title: "Invaded", Width: 8})

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(5),
		table.WithStyles(tuistyles.TableStyles()),
	)
	return &MonteCarloModel{table: t, bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))}
}

// Start marks a batch as running
func (m *MonteCarloModel) Start() {
	m.running = true
	m.strategy = ""
	m.done, m.total = 0, 0
}

// Running reports whether a batch is in flight
func (m *MonteCarloModel) Running() bool { return m.running }

// SetProgress records trial progress for the running batch
func (m *MonteCarloModel) SetProgress(msg tuimsg.BatchProgressMsg) {
	m.strategy = msg.Strategy
	m.done = msg.Done
	m.total = msg.Total
}

// Percent is the completed share of the current strategy's trials
func (m *MonteCarloModel) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// SetResults ends the running batch and shows its results
func (m *MonteCarloModel) SetResults(results []*domain.MonteCarloResult) {
	m.running = false
	m.results = results
	rows := make([]table.Row, 0, len(results))
	for _, mc := range results {
		row := table.Row{mc.Strategy}
		for _, p := range domain.PercentileLevels {
			row = append(row, output.FormatMan(mc.Percentiles[p]))
		}
		row = append(row, output.FormatPercentage(mc.BankruptProb), output.FormatPercentage(mc.InvasionProb))
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Stop ends the running batch without results
func (m *MonteCarloModel) Stop() {
	m.running = false
}

// SetSize updates the scene dimensions
func (m *MonteCarloModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 20 {
		m.bar.Width = min(width-20, 60)
	}
}

// Update handles messages for the Monte Carlo scene
func (m *MonteCarloModel) Update(msg tea.Msg) (*MonteCarloModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, runKey) {
		if m.running {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.RunBatchMsg{} }
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders progress while running, otherwise the percentile table and
// the selected strategy's per-age bands
func (m *MonteCarloModel) View() string {
	if m.running {
		label := "Starting batch..."
		if m.strategy != "" {
			label = fmt.Sprintf("%s: %d / %d trials", m.strategy, m.done, m.total)
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			tuistyles.InfoStyle.Render(label),
			"",
			m.bar.ViewAs(m.Percent()),
		)
	}
	if len(m.results) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			tuistyles.SubtitleStyle.Render("No Monte Carlo results yet."),
			tuistyles.HelpStyle.Render("enter run batch"),
		)
	}

	parts := []string{m.table.View()}
	if i := m.table.Cursor(); i >= 0 && i < len(m.results) {
		mc := m.results[i]
		parts = append(parts, "", fmt.Sprintf("%d trials • seed %d • mean %s • std %s",
			mc.Trials, mc.Seed, output.FormatMan(mc.Mean), output.FormatMan(mc.StdDev)))
		if mc.InfeasibleCount > 0 {
			parts = append(parts, tuistyles.ToneStyle(false).Render(
				fmt.Sprintf("%d trials could not start and count as bankrupt", mc.InfeasibleCount)))
		}
		parts = append(parts, "", m.bands(mc))
	}
	parts = append(parts, tuistyles.HelpStyle.Render("↑/↓ strategy • enter rerun • esc back"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *MonteCarloModel) bands(mc *domain.MonteCarloResult) string {
	if len(mc.Grid) == 0 {
		return tuistyles.SubtitleStyle.Render("no per-age grid collected")
	}
	ages := make([]int, 0, len(mc.Grid))
	for age := range mc.Grid {
		ages = append(ages, age)
	}
	sort.Ints(ages)

	line := func(p int) []float64 {
		points := make([]float64, len(ages))
		for i, age := range ages {
			points[i] = mc.Grid[age][p].InexactFloat64()
		}
		return points
	}
	chart := components.NewBalanceChart(mc.Strategy+" balance by age", ages).
		AddLine("P95", line(95), tuistyles.ColorBandHigh).
		AddLine("P50", line(50), tuistyles.ColorBandMid).
		AddLine("P5", line(5), tuistyles.ColorBandLow)
	if m.width > 40 {
		chart.WithSize(m.width-4, 12)
	}
	return chart.Render()
}
