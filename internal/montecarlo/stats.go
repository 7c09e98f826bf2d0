package montecarlo

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Percentile returns the nearest-rank percentile of an ascending slice:
// the element at index ceil(p/100 * n) - 1, clamped to the slice
func Percentile(sorted []decimal.Decimal, p int) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	idx := int(math.Ceil(float64(p)/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Percentiles computes each requested level
func Percentiles(sorted []decimal.Decimal, levels []int) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(levels))
	for _, p := range levels {
		out[p] = Percentile(sorted, p)
	}
	return out
}

// MeanStdDev returns the mean and population standard deviation
func MeanStdDev(values []decimal.Decimal) (mean, std decimal.Decimal) {
	n := len(values)
	if n == 0 {
		return decimal.Zero, decimal.Zero
	}
	count := decimal.NewFromInt(int64(n))
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	mean = sum.Div(count)
	sq := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.Div(count).InexactFloat64()
	return mean.Round(0), decimal.NewFromFloat(math.Sqrt(variance)).Round(0)
}

// sortedCopy returns the values in ascending order without touching the input
func sortedCopy(values []decimal.Decimal) []decimal.Decimal {
	out := append([]decimal.Decimal(nil), values...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

// buildGrid buckets the year-end balances of every trial by age and reduces
// each bucket to the requested percentiles
func buildGrid(series [][]ageBalance, levels []int) map[int]map[int]decimal.Decimal {
	byAge := make(map[int][]decimal.Decimal)
	for _, trial := range series {
		for _, ab := range trial {
			byAge[ab.Age] = append(byAge[ab.Age], ab.Balance)
		}
	}
	grid := make(map[int]map[int]decimal.Decimal, len(byAge))
	for age, values := range byAge {
		grid[age] = Percentiles(sortedCopy(values), levels)
	}
	return grid
}

func probability(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total))).Round(4)
}
