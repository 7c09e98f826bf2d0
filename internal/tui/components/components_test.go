package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/homesim/internal/tui/tuistyles"
)

func TestBalanceChart_Render(t *testing.T) {
	chart := NewBalanceChart("balances", []int{37, 38, 39, 40}).
		AddLine("P50", []float64{10_000_000, 12_000_000, 9_000_000, 15_000_000}, tuistyles.ColorBandMid).
		AddLine("P5", []float64{-2_000_000, 1_000_000, 0, 3_000_000}, tuistyles.ColorBandLow).
		WithSize(50, 8)

	out := chart.Render()
	assert.Contains(t, out, "balances")
	assert.Contains(t, out, "37")
	assert.Contains(t, out, "40")
	assert.Contains(t, out, "P50")
	assert.Contains(t, out, "P5")
	assert.Contains(t, out, "└")
	assert.GreaterOrEqual(t, strings.Count(out, "│"), 8)
}

func TestBalanceChart_NotEnoughData(t *testing.T) {
	assert.Contains(t, NewBalanceChart("x", []int{40}).Render(), "not enough data")
	assert.Contains(t, NewBalanceChart("x", []int{40, 41}).Render(), "not enough data")
}

func TestBalanceChart_FlatSeries(t *testing.T) {
	out := NewBalanceChart("", []int{1, 2}).AddLine("zero", []float64{0, 0}, tuistyles.ColorMuted).Render()
	assert.Contains(t, out, "zero")
}

func TestManLabel(t *testing.T) {
	assert.Equal(t, "500万", manLabel(5_000_000))
	assert.Equal(t, "1.5億", manLabel(150_000_000))
	assert.Equal(t, "-20万", manLabel(-200_000))
}

func TestMetricCard(t *testing.T) {
	card := NewMetricCard("Net assets", "3,000万円").WithTone(true).WithNote("real terms")
	out := card.Render()
	assert.Contains(t, out, "Net assets")
	assert.Contains(t, out, "3,000万円")
	assert.Contains(t, out, "real terms")
	assert.NotNil(t, card.Tone)
}

func TestMetricGrid(t *testing.T) {
	cards := []*MetricCard{NewMetricCard("a", "1"), NewMetricCard("b", "2"), NewMetricCard("c", "3")}
	out := MetricGrid(cards, 2)
	for _, s := range []string{"a", "b", "c"} {
		assert.Contains(t, out, s)
	}
	assert.Empty(t, MetricGrid(nil, 2))
	assert.Empty(t, MetricGrid(cards, 0))
}
