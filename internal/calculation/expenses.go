package calculation

import (
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

// childrenAtHome counts the children living in the household at the primary earner's age
func childrenAtHome(h domain.Household, age int) int {
	n := 0
	for _, c := range h.Children {
		if c.LivesAtHome(age) {
			n++
		}
	}
	return n
}

// educationCost is the monthly school cost for every child in the school-age window.
// It is a fixed amount and is not inflated.
func educationCost(p domain.ParameterSet, h domain.Household, age int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range h.Children {
		a := c.AgeAt(age)
		if a >= p.EducationStartAge && a < p.EducationEndAge {
			total = total.Add(p.EducationMonthly)
		}
	}
	return total
}

// livingCost is the inflated monthly living cost: a per-adult baseline, a
// per-child increment, the household premium, and car and pet upkeep. It drops
// to the retirement ratio from the retirement living age.
func livingCost(p domain.ParameterSet, h domain.Household, age, adults int, inflation decimal.Decimal) decimal.Decimal {
	base := p.LivingCostPerAdult.Mul(decimal.NewFromInt(int64(adults))).
		Add(p.LivingCostPerChild.Mul(decimal.NewFromInt(int64(childrenAtHome(h, age))))).
		Add(h.LivingCostPremium)
	if h.HasCar {
		base = base.Add(p.CarMonthly)
	}
	if h.HasPet {
		base = base.Add(p.PetMonthly)
	}
	if age >= p.RetirementLivingAge {
		base = base.Mul(p.RetirementLivingRatio)
	}
	return base.Mul(inflation).Round(0)
}

// specialExpenses totals the household's one-time expenses at age, inflated
func specialExpenses(h domain.Household, age int, inflation decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, e := range h.SpecialExpensesAt(age) {
		total = total.Add(e.Amount)
	}
	return total.Mul(inflation).Round(0)
}

// iDeCoContribution is the monthly tax-advantaged contribution of the earners
// who are still working and below the contribution end age
func iDeCoContribution(p domain.ParameterSet, h domain.Household, inc yearIncome, year int, unemployed bool) decimal.Decimal {
	if unemployed {
		return decimal.Zero
	}
	total := decimal.Zero
	for i := 0; i < 2; i++ {
		if h.StartAges[i]+year < p.IDeCoEndAge && inc.Labour[i].IsPositive() {
			total = total.Add(h.IDeCoMonthly[i])
		}
	}
	return total
}
