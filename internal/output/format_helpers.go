package output

import (
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var tenThousand = decimal.NewFromInt(10_000)

// FormatYen formats an amount as whole yen with thousands separators
func FormatYen(amount decimal.Decimal) string {
	return money.New(amount.Round(0).IntPart(), money.JPY).Display()
}

// FormatMan formats an amount in units of 10,000 yen
func FormatMan(amount decimal.Decimal) string {
	s := money.New(amount.Div(tenThousand).Round(0).IntPart(), money.JPY).Display()
	return strings.Replace(s, "¥", "", 1) + "万円"
}

// FormatPercentage formats a ratio as a percentage with one decimal
func FormatPercentage(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// formatAge renders an optional age; zero means the event never happened
func formatAge(age int, happened bool) string {
	if !happened {
		return "-"
	}
	return strconv.Itoa(age)
}
