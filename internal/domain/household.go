package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MaxChildren is the largest household the engine models
const MaxChildren = 2

// Child describes one child by the primary earner's age at birth
type Child struct {
	BirthAge        int `json:"birthAge"`
	IndependenceAge int `json:"independenceAge"` // child's own age
}

// AgeAt returns the child's age when the primary earner is parentAge; negative before birth
func (c Child) AgeAt(parentAge int) int {
	return parentAge - c.BirthAge
}

// LivesAtHome reports whether the child is born and not yet independent
func (c Child) LivesAtHome(parentAge int) bool {
	a := c.AgeAt(parentAge)
	return a >= 0 && a < c.IndependenceAge
}

// SpecialExpense is a one-time household expense at a given primary-earner age,
// stated in base-year money
type SpecialExpense struct {
	Age    int             `json:"age"`
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label,omitempty"`
}

// Household is the resolved two-earner household the ledger simulates
type Household struct {
	StartAges           [2]int             `json:"startAges"`
	InitialSavings      decimal.Decimal    `json:"initialSavings"`
	AnnualIncomes       [2]decimal.Decimal `json:"annualIncomes"`
	Children            []Child            `json:"children,omitempty"`
	LivingCostPremium   decimal.Decimal    `json:"livingCostPremium"`
	HasCar              bool               `json:"hasCar"`
	HasPet              bool               `json:"hasPet"`
	MayRelocate         bool               `json:"mayRelocate"`
	IDeCoMonthly        [2]decimal.Decimal `json:"idecoMonthly"`
	EmergencyFundMonths decimal.Decimal    `json:"emergencyFundMonths"`
	SpecialExpenses     []SpecialExpense   `json:"specialExpenses,omitempty"`
	PurchaseAge         int                `json:"purchaseAge,omitempty"` // 0 = buy at start
}

// SpouseAge returns the second earner's age when the primary earner is primaryAge
func (h Household) SpouseAge(primaryAge int) int {
	return primaryAge + h.StartAges[1] - h.StartAges[0]
}

// TotalIncome is the household's starting annual gross income
func (h Household) TotalIncome() decimal.Decimal {
	return h.AnnualIncomes[0].Add(h.AnnualIncomes[1])
}

// IncomeSplit returns the primary earner's share of household income
func (h Household) IncomeSplit() decimal.Decimal {
	total := h.TotalIncome()
	if total.IsZero() {
		return decimal.NewFromFloat(0.5)
	}
	return h.AnnualIncomes[0].Div(total)
}

// LastIndependenceAge is the primary earner's age when the last child leaves home.
// It returns 0 for a household without children.
func (h Household) LastIndependenceAge() int {
	last := 0
	for _, c := range h.Children {
		if a := c.BirthAge + c.IndependenceAge; a > last {
			last = a
		}
	}
	return last
}

// SpecialExpensesAt returns the expenses scheduled at the given age
func (h Household) SpecialExpensesAt(age int) []SpecialExpense {
	var out []SpecialExpense
	for _, e := range h.SpecialExpenses {
		if e.Age == age {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks structural constraints that do not depend on a strategy
func (h Household) Validate() error {
	if h.StartAges[0] <= 0 || h.StartAges[1] <= 0 {
		return fmt.Errorf("start ages must be positive, got %d and %d", h.StartAges[0], h.StartAges[1])
	}
	if len(h.Children) > MaxChildren {
		return fmt.Errorf("at most %d children supported, got %d", MaxChildren, len(h.Children))
	}
	if h.InitialSavings.IsNegative() {
		return fmt.Errorf("initial savings cannot be negative")
	}
	for i, inc := range h.AnnualIncomes {
		if inc.IsNegative() {
			return fmt.Errorf("income %d cannot be negative", i+1)
		}
	}
	return nil
}

// SortSpecialExpenses orders expenses by age, keeping input order within an age
func SortSpecialExpenses(list []SpecialExpense) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Age < list[j].Age })
}
