package scenes

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/output"
	"github.com/rgehrsitz/homesim/internal/tui/components"
	"github.com/rgehrsitz/homesim/internal/tui/tuimsg"
	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

var selectKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "yearly log"))

// StrategiesModel is the summary table of deterministic runs
type StrategiesModel struct {
	params   domain.ParameterSet
	results  []*domain.SimulationResult
	failures map[string]string
	table    table.Model
	width    int
	height   int
}

// NewStrategiesModel creates an empty strategies scene
func NewStrategiesModel() *StrategiesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Strategy", Width: 18},
			{Title: "Buy at", Width: 6},
			{Title: "Net assets", Width: 14},
			{Title: "Financial", Width: 14},
			{Title: "Property", Width: 12},
			{Title: "Bankrupt", Width: 8},
			{Title: "Grade", Width: 5},
		}),
		table.WithFocused(true),
		table.WithHeight(6),
		table.WithStyles(tuistyles.TableStyles()),
	)
	return &StrategiesModel{table: t}
}

// SetReport loads the deterministic results
func (m *StrategiesModel) SetReport(r *output.Report) {
	m.params = r.Parameters
	m.results = r.Results
	m.failures = r.Failures

	rows := make([]table.Row, 0, len(r.Results))
	for _, res := range r.Results {
		buyAt := "-"
		if res.PurchaseAge > 0 {
			buyAt = strconv.Itoa(res.PurchaseAge)
		}
		bankrupt := "-"
		if res.Bankrupt {
			bankrupt = strconv.Itoa(res.BankruptAge)
		}
		rows = append(rows, table.Row{
			res.Strategy,
			buyAt,
			output.FormatMan(res.AfterTaxNetAssets),
			output.FormatMan(res.FinancialAssets),
			output.FormatMan(res.PropertyValue),
			bankrupt,
			m.grade(res).Label,
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// SetSize updates the scene dimensions
func (m *StrategiesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the result under the cursor
func (m *StrategiesModel) Selected() *domain.SimulationResult {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.results) {
		return nil
	}
	return m.results[i]
}

// Update handles messages for the strategies scene
func (m *StrategiesModel) Update(msg tea.Msg) (*StrategiesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, selectKey) {
		res := m.Selected()
		if res == nil {
			return m, nil
		}
		return m, func() tea.Msg {
			return tuimsg.StrategySelectedMsg{Strategy: res.Strategy}
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table, the selected strategy's cards and any failures
func (m *StrategiesModel) View() string {
	if len(m.results) == 0 && len(m.failures) == 0 {
		return tuistyles.SubtitleStyle.Render("No strategies simulated.")
	}

	parts := []string{m.table.View()}
	if res := m.Selected(); res != nil {
		parts = append(parts, "", m.cards(res))
	}
	if len(m.failures) > 0 {
		parts = append(parts, "", renderFailures(m.failures))
	}
	parts = append(parts, "", tuistyles.HelpStyle.Render("↑/↓ move • enter yearly log"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *StrategiesModel) grade(res *domain.SimulationResult) output.FacilityGrade {
	years := m.params.TerminalAge - res.StartAge
	realAssets := output.RealTerms(res.AfterTaxNetAssets, m.params.InflationFactor(years))
	return output.GradeFacility(realAssets, res.FinalPensionMonthly)
}

func (m *StrategiesModel) cards(res *domain.SimulationResult) string {
	grade := m.grade(res)
	cards := []*components.MetricCard{
		components.NewMetricCard("After-tax net assets", output.FormatMan(res.AfterTaxNetAssets)).
			WithTone(res.AfterTaxNetAssets.IsPositive()),
		components.NewMetricCard("Taxes realized", output.FormatMan(res.RealizedTaxes)),
		components.NewMetricCard("Pension / month", output.FormatYen(res.FinalPensionMonthly)),
		components.NewMetricCard("Senior residence", grade.Label).WithNote(grade.Description),
	}
	if res.Bankrupt {
		cards = append(cards, components.NewMetricCard("Bankrupt at", strconv.Itoa(res.BankruptAge)).WithTone(false))
	}
	if res.PrincipalInvaded {
		cards = append(cards, components.NewMetricCard("Principal invaded at", strconv.Itoa(res.PrincipalInvadedAge)).WithTone(false))
	}
	if res.Split != domain.SplitNone {
		cards = append(cards, components.NewMetricCard("Household split", res.Split.String()).
			WithNote("at "+strconv.Itoa(res.SplitAge)))
	}
	return components.MetricGrid(cards, 4)
}

func renderFailures(failures map[string]string) string {
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := []string{tuistyles.ToneStyle(false).Bold(true).Render("Not simulated")}
	for _, name := range names {
		lines = append(lines, "  "+name+": "+failures[name])
	}
	return strings.Join(lines, "\n")
}
