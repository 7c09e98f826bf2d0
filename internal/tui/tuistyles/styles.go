// Package tuistyles holds the colors and lipgloss styles shared by the
// browser's scenes and components.
package tuistyles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#5A9BD5")
	ColorSecondary = lipgloss.Color("#A5A5A5")
	ColorAccent    = lipgloss.Color("#ED7D31")
	ColorSuccess   = lipgloss.Color("#70AD47")
	ColorDanger    = lipgloss.Color("#E05A5A")
	ColorWarning   = lipgloss.Color("#FFC000")

	ColorForeground = lipgloss.Color("#E6E6E6")
	ColorMuted      = lipgloss.Color("#7F7F7F")
	ColorBorder     = lipgloss.Color("#44546A")

	// Percentile band lines, low to high
	ColorBandLow  = lipgloss.Color("#E05A5A")
	ColorBandMid  = lipgloss.Color("#5A9BD5")
	ColorBandHigh = lipgloss.Color("#70AD47")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorBorder).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// ToneStyle colors a value by whether it is good news
func ToneStyle(good bool) lipgloss.Style {
	if good {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

// TableStyles returns the bubbles table styles used by every scene
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorForeground).
		Background(ColorBorder).
		Bold(true)
	return s
}
