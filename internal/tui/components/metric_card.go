package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

// MetricCard displays one terminal figure with a label and optional note
type MetricCard struct {
	Label string
	Value string
	Note  string
	Width int

	// Tone colors the value; nil leaves it neutral
	Tone *bool
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 24}
}

// WithTone marks the value as good or bad news
func (m *MetricCard) WithTone(good bool) *MetricCard {
	m.Tone = &good
	return m
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	value := tuistyles.MetricValueStyle.Render(m.Value)
	if m.Tone != nil {
		value = tuistyles.ToneStyle(*m.Tone).Bold(true).Render(m.Value)
	}
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + value
	if m.Note != "" {
		content += "\n" + tuistyles.HelpStyle.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays cards out left to right, wrapping after columns cards
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}
	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
