package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

// Line is one plotted series of yen balances
type Line struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// BalanceChart plots balances against age as ASCII lines
type BalanceChart struct {
	Title  string
	Lines  []Line
	Ages   []int
	Width  int
	Height int
}

// NewBalanceChart creates a chart over the given ages
func NewBalanceChart(title string, ages []int) *BalanceChart {
	return &BalanceChart{Title: title, Ages: ages, Width: 64, Height: 12}
}

// AddLine appends a series; points are indexed like Ages
func (c *BalanceChart) AddLine(name string, points []float64, color lipgloss.Color) *BalanceChart {
	c.Lines = append(c.Lines, Line{Name: name, Points: points, Color: color})
	return c
}

// WithSize sets the outer dimensions
func (c *BalanceChart) WithSize(width, height int) *BalanceChart {
	c.Width = width
	c.Height = height
	return c
}

// Render draws the chart
func (c *BalanceChart) Render() string {
	if len(c.Lines) == 0 || len(c.Ages) < 2 {
		return tuistyles.SubtitleStyle.Render("not enough data to chart")
	}

	var out strings.Builder
	if c.Title != "" {
		out.WriteString(tuistyles.TitleStyle.Render(c.Title))
		out.WriteString("\n")
	}

	lo, hi := c.bounds()
	out.WriteString(c.plot(lo, hi))
	out.WriteString(c.legend())
	return out.String()
}

// bounds returns the value range padded by 5% and always containing zero
func (c *BalanceChart) bounds() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, l := range c.Lines {
		for _, p := range l.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

const axisWidth = 10

var lineMarks = []rune{'●', '■', '▲', '◆', '○'}

func (c *BalanceChart) plot(lo, hi float64) string {
	width := c.Width - axisWidth - 3
	if width < 10 {
		width = 10
	}
	grid := make([][]rune, c.Height)
	colors := make([][]lipgloss.Color, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
		colors[i] = make([]lipgloss.Color, width)
	}

	col := func(i, n int) int { return int(float64(i) / float64(n-1) * float64(width-1)) }
	row := func(v float64) int {
		return c.Height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(c.Height-1)))
	}

	if zero := row(0); zero >= 0 && zero < c.Height {
		for x := range grid[zero] {
			grid[zero][x] = '·'
			colors[zero][x] = tuistyles.ColorMuted
		}
	}

	for li, l := range c.Lines {
		n := len(l.Points)
		if n < 2 {
			continue
		}
		mark := lineMarks[li%len(lineMarks)]
		for i := 1; i < n; i++ {
			segment(grid, colors, col(i-1, n), row(l.Points[i-1]), col(i, n), row(l.Points[i]), mark, l.Color)
		}
	}

	var out strings.Builder
	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(axisWidth).Align(lipgloss.Right)
	for y := range grid {
		label := ""
		if y == 0 || y == c.Height-1 || y == c.Height/2 {
			label = manLabel(hi - float64(y)/float64(c.Height-1)*(hi-lo))
		}
		out.WriteString(axis.Render(label))
		out.WriteString(" │ ")
		for x, r := range grid[y] {
			if colors[y][x] == "" {
				out.WriteRune(r)
				continue
			}
			out.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(r)))
		}
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", axisWidth+1))
	out.WriteString("└")
	out.WriteString(strings.Repeat("─", width+1))
	out.WriteString("\n")

	first, last := fmt.Sprint(c.Ages[0]), fmt.Sprint(c.Ages[len(c.Ages)-1])
	gap := width + 1 - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	out.WriteString(strings.Repeat(" ", axisWidth+2))
	out.WriteString(first + strings.Repeat(" ", gap) + last)
	out.WriteString("\n")
	return out.String()
}

// segment draws a line between two cells (Bresenham), never overwriting a
// series point already on the grid
func segment(grid [][]rune, colors [][]lipgloss.Color, x0, y0, x1, y1 int, mark rune, color lipgloss.Color) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx - dy
	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) {
			if grid[y0][x0] == ' ' || grid[y0][x0] == '·' {
				grid[y0][x0] = mark
				colors[y0][x0] = color
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *BalanceChart) legend() string {
	items := make([]string, 0, len(c.Lines))
	for i, l := range c.Lines {
		symbol := lipgloss.NewStyle().Foreground(l.Color).Render(string(lineMarks[i%len(lineMarks)]))
		items = append(items, symbol+" "+l.Name)
	}
	return tuistyles.HelpStyle.Render(strings.Join(items, "  "))
}

// manLabel renders a yen value in units of 10,000 yen
func manLabel(v float64) string {
	man := v / 10_000
	if math.Abs(man) >= 10_000 {
		return fmt.Sprintf("%.1f億", man/10_000)
	}
	return fmt.Sprintf("%.0f万", man)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
