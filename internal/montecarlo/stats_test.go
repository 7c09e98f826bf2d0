package montecarlo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimals(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestPercentile_NearestRank(t *testing.T) {
	sorted := decimals(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	tests := []struct {
		p    int
		want int64
	}{
		{5, 1},
		{25, 3},
		{50, 5},
		{75, 8},
		{95, 10},
		{100, 10},
		{0, 1},
	}
	for _, tt := range tests {
		assert.True(t, decimal.NewFromInt(tt.want).Equal(Percentile(sorted, tt.p)), "P%d", tt.p)
	}
}

func TestPercentile_EdgeCases(t *testing.T) {
	assert.True(t, Percentile(nil, 50).IsZero())
	assert.True(t, decimal.NewFromInt(42).Equal(Percentile(decimals(42), 5)))
	assert.True(t, decimal.NewFromInt(42).Equal(Percentile(decimals(42), 95)))
}

func TestMeanStdDev(t *testing.T) {
	mean, std := MeanStdDev(decimals(2, 4, 4, 4, 5, 5, 7, 9))
	assert.Equal(t, "5", mean.String())
	assert.Equal(t, "2", std.String())

	mean, std = MeanStdDev(nil)
	assert.True(t, mean.IsZero())
	assert.True(t, std.IsZero())
}

func TestSortedCopy_LeavesInputAlone(t *testing.T) {
	in := decimals(3, 1, 2)
	out := sortedCopy(in)
	assert.Equal(t, "3", in[0].String())
	assert.Equal(t, []string{"1", "2", "3"}, []string{out[0].String(), out[1].String(), out[2].String()})
}

func TestBuildGrid(t *testing.T) {
	series := [][]ageBalance{
		{{Age: 40, Balance: decimal.NewFromInt(100)}, {Age: 41, Balance: decimal.NewFromInt(10)}},
		{{Age: 40, Balance: decimal.NewFromInt(300)}, {Age: 41, Balance: decimal.NewFromInt(30)}},
		{{Age: 40, Balance: decimal.NewFromInt(200)}},
	}
	grid := buildGrid(series, []int{5, 50, 95})

	assert.Len(t, grid, 2)
	assert.Equal(t, "100", grid[40][5].String())
	assert.Equal(t, "200", grid[40][50].String())
	assert.Equal(t, "300", grid[40][95].String())
	assert.Equal(t, "10", grid[41][50].String())
	assert.Equal(t, "30", grid[41][95].String())
}

func TestProbability(t *testing.T) {
	assert.Equal(t, "0.25", probability(1, 4).String())
	assert.True(t, probability(3, 0).IsZero())
}
