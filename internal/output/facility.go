package output

import (
	"github.com/shopspring/decimal"
)

// FacilityResidenceYears is the stay over which real assets are spread when
// judging what grade of senior residence the household can afford
const FacilityResidenceYears = 15

// FacilityGrade is a senior-residence affordability band
type FacilityGrade struct {
	Label       string
	MinMonthly  decimal.Decimal
	Description string
}

// FacilityGrades are ordered from most to least expensive
var FacilityGrades = []FacilityGrade{
	{"S", decimal.NewFromInt(400_000), "premium residence with full concierge care"},
	{"A", decimal.NewFromInt(300_000), "upscale private residence"},
	{"B", decimal.NewFromInt(200_000), "standard private care home"},
	{"C", decimal.NewFromInt(150_000), "basic private care home"},
	{"D", decimal.Zero, "public facility only"},
}

// MonthlyFacilityBudget is the monthly pension plus real assets spread over
// FacilityResidenceYears. Negative assets count as zero.
func MonthlyFacilityBudget(realAssets, monthlyPension decimal.Decimal) decimal.Decimal {
	assets := decimal.Max(realAssets, decimal.Zero)
	return monthlyPension.Add(assets.Div(decimal.NewFromInt(FacilityResidenceYears * 12))).Round(0)
}

// GradeFacility maps real-terms assets and monthly pension to a facility grade
func GradeFacility(realAssets, monthlyPension decimal.Decimal) FacilityGrade {
	budget := MonthlyFacilityBudget(realAssets, monthlyPension)
	for _, g := range FacilityGrades {
		if budget.GreaterThanOrEqual(g.MinMonthly) {
			return g
		}
	}
	return FacilityGrades[len(FacilityGrades)-1]
}

// RealTerms deflates a nominal terminal amount by cumulative inflation
func RealTerms(nominal, inflationFactor decimal.Decimal) decimal.Decimal {
	if !inflationFactor.IsPositive() {
		return nominal
	}
	return nominal.Div(inflationFactor).Round(0)
}
