package scenes

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/output"
	"github.com/rgehrsitz/homesim/internal/tui/components"
	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

// YearlyModel shows one strategy's yearly ledger log
type YearlyModel struct {
	result *domain.SimulationResult
	table  table.Model
	width  int
	height int
}

// NewYearlyModel creates an empty yearly scene
func NewYearlyModel() *YearlyModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Age", Width: 4},
			{Title: "Income", Width: 10},
			{Title: "Housing", Width: 10},
			{Title: "Education", Width: 10},
			{Title: "Living", Width: 10},
			{Title: "Events", Width: 10},
			{Title: "Return", Width: 10},
			{Title: "Balance", Width: 12},
			{Title: "Loan", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tuistyles.TableStyles()),
	)
	return &YearlyModel{table: t}
}

// SetResult shows res; nil clears the scene
func (m *YearlyModel) SetResult(res *domain.SimulationResult) {
	m.result = res
	if res == nil {
		m.table.SetRows(nil)
		return
	}
	rows := make([]table.Row, 0, len(res.YearlyLog))
	for _, y := range res.YearlyLog {
		rows = append(rows, table.Row{
			strconv.Itoa(y.Age),
			output.FormatMan(y.Income),
			output.FormatMan(y.Housing),
			output.FormatMan(y.Education),
			output.FormatMan(y.Living),
			output.FormatMan(y.EventCost.Add(y.OneTime)),
			output.FormatMan(y.InvestReturn),
			output.FormatMan(y.Balance),
			output.FormatMan(y.LoanBalance),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// SetSize updates the scene dimensions
func (m *YearlyModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if h := height - 24; h > 5 {
		m.table.SetHeight(h)
	}
}

// Update scrolls the table
func (m *YearlyModel) Update(msg tea.Msg) (*YearlyModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the balance chart above the yearly table
func (m *YearlyModel) View() string {
	if m.result == nil {
		return tuistyles.SubtitleStyle.Render("Select a strategy with enter to see its yearly log.")
	}
	log := m.result.YearlyLog
	ages := make([]int, len(log))
	balance := make([]float64, len(log))
	loan := make([]float64, len(log))
	for i, y := range log {
		ages[i] = y.Age
		balance[i] = y.Balance.InexactFloat64()
		loan[i] = y.LoanBalance.InexactFloat64()
	}

	chart := components.NewBalanceChart(m.result.Strategy, ages).
		AddLine("balance", balance, tuistyles.ColorBandMid)
	if m.result.PurchaseAge > 0 {
		chart.AddLine("loan", loan, tuistyles.ColorAccent)
	}
	if m.width > 40 {
		chart.WithSize(m.width-4, 12)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		chart.Render(),
		"",
		m.table.View(),
		tuistyles.HelpStyle.Render("↑/↓ scroll • esc back"),
	)
}
