package strategy

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

// Kind enumerates the housing strategies
type Kind int

const (
	MansionPurchase Kind = iota
	HousePurchase
	StrategicRental
	NormalRental
)

// AllKinds lists every strategy in report order
var AllKinds = []Kind{MansionPurchase, HousePurchase, StrategicRental, NormalRental}

func (k Kind) String() string {
	switch k {
	case MansionPurchase:
		return "mansion_purchase"
	case HousePurchase:
		return "house_purchase"
	case StrategicRental:
		return "strategic_rental"
	case NormalRental:
		return "normal_rental"
	default:
		return "unknown"
	}
}

// ParseKind resolves a strategy name as used in configuration and on the command line
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "mansion_purchase", "mansion", "condo":
		return MansionPurchase, nil
	case "house_purchase", "house":
		return HousePurchase, nil
	case "strategic_rental", "strategic":
		return StrategicRental, nil
	case "normal_rental", "rental", "rent":
		return NormalRental, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}

// Purchase reports whether the kind buys property
func (k Kind) Purchase() bool {
	return k == MansionPurchase || k == HousePurchase
}

// ScheduledExpense is a one-time cost keyed by building age, in base-year money
type ScheduledExpense struct {
	BuildingAge int
	Amount      decimal.Decimal
	Label       string
}

// AcquisitionTerms are the economics of entering the strategy
type AcquisitionTerms struct {
	Price                 decimal.Decimal `json:"price"`
	Loan                  decimal.Decimal `json:"loan"`
	LandRatio             decimal.Decimal `json:"landRatio"`
	LiquidityDiscount     decimal.Decimal `json:"liquidityDiscount"`
	ClosingCosts          decimal.Decimal `json:"closingCosts"` // cash needed up front, down payment included
	BuildingUsefulLife    int             `json:"buildingUsefulLife"`
	BuildingAgeAtPurchase int             `json:"buildingAgeAtPurchase"`
}

// LandValue is the land component of the price
func (t AcquisitionTerms) LandValue() decimal.Decimal {
	return t.Price.Mul(t.LandRatio).Round(0)
}

// BuildingValue is the building component of the price
func (t AcquisitionTerms) BuildingValue() decimal.Decimal {
	return t.Price.Sub(t.LandValue())
}

// Overrides replace default strategy economics; zero values keep the defaults
type Overrides struct {
	Price decimal.Decimal
	Loan  decimal.Decimal
	Rent  decimal.Decimal
}

// Profile is one housing strategy. It is a closed variant selected by Kind and
// holds no per-run state: loan amortization lives in a Loan created per run.
type Profile struct {
	kind  Kind
	name  string
	terms AcquisitionTerms

	// owner economics
	monthlyFees       decimal.Decimal // management or maintenance fee
	repairReserve     decimal.Decimal // condo only; steps up every ten building-years
	repairStep        decimal.Decimal
	annualPropertyTax decimal.Decimal
	oneTime           []ScheduledExpense

	// renter economics
	rent          decimal.Decimal
	downsizedRent decimal.Decimal
	downsizeAge   int // primary earner's age at which the smaller unit is taken
	renewalMonths int
	moveInMonths  decimal.Decimal
}

const (
	closingCostRate = 0.07
	renewalCycle    = 24
	moveInRentMonth = 4
)

// New builds a fresh profile for kind. The household determines the strategic
// rental's downsize age; overrides replace default prices.
func New(kind Kind, h domain.Household, o Overrides) (*Profile, error) {
	var s *Profile
	switch kind {
	case MansionPurchase:
		s = &Profile{
			terms: AcquisitionTerms{
				Price:              decimal.NewFromInt(75_000_000),
				Loan:               decimal.NewFromInt(70_000_000),
				LandRatio:          decimal.NewFromFloat(0.25),
				LiquidityDiscount:  decimal.Zero,
				BuildingUsefulLife: 47,
			},
			monthlyFees:       decimal.NewFromInt(20_000),
			repairReserve:     decimal.NewFromInt(12_000),
			repairStep:        decimal.NewFromFloat(1.5),
			annualPropertyTax: decimal.NewFromInt(150_000),
			oneTime: []ScheduledExpense{
				{BuildingAge: 30, Amount: decimal.NewFromInt(1_000_000), Label: "major repair assessment"},
				{BuildingAge: 45, Amount: decimal.NewFromInt(1_500_000), Label: "second major repair assessment"},
			},
		}
	case HousePurchase:
		s = &Profile{
			terms: AcquisitionTerms{
				Price:              decimal.NewFromInt(60_000_000),
				Loan:               decimal.NewFromInt(55_000_000),
				LandRatio:          decimal.NewFromFloat(0.6),
				LiquidityDiscount:  decimal.NewFromFloat(0.15),
				BuildingUsefulLife: 22,
			},
			monthlyFees:       decimal.NewFromInt(10_000),
			annualPropertyTax: decimal.NewFromInt(120_000),
			oneTime: []ScheduledExpense{
				{BuildingAge: 15, Amount: decimal.NewFromInt(1_500_000), Label: "exterior repaint"},
				{BuildingAge: 30, Amount: decimal.NewFromInt(3_000_000), Label: "roof and plumbing"},
				{BuildingAge: 45, Amount: decimal.NewFromInt(2_000_000), Label: "interior renovation"},
			},
		}
	case StrategicRental:
		s = &Profile{
			rent:          decimal.NewFromInt(200_000),
			downsizedRent: decimal.NewFromInt(140_000),
			downsizeAge:   h.LastIndependenceAge(),
		}
	case NormalRental:
		s = &Profile{rent: decimal.NewFromInt(180_000)}
	default:
		return nil, fmt.Errorf("unknown strategy kind %d", int(kind))
	}
	s.kind = kind
	s.name = kind.String()

	if kind.Purchase() {
		if o.Price.IsPositive() {
			s.terms.Price = o.Price
		}
		if o.Loan.IsPositive() {
			s.terms.Loan = o.Loan
		}
		if s.terms.Loan.GreaterThan(s.terms.Price) {
			return nil, fmt.Errorf("%s: loan %s exceeds price %s", s.name, s.terms.Loan.StringFixed(0), s.terms.Price.StringFixed(0))
		}
		s.terms.ClosingCosts = purchaseClosingCosts(s.terms.Price, s.terms.Loan)
	} else {
		if o.Rent.IsPositive() {
			s.rent = o.Rent
		}
		s.renewalMonths = renewalCycle
		s.moveInMonths = decimal.NewFromInt(moveInRentMonth)
		s.terms.ClosingCosts = s.BaseRent(0).Mul(s.moveInMonths)
	}
	return s, nil
}

// NewRental builds a plain rental at a fixed base-year rent. The ledger uses it
// for the interim unit before a deferred purchase and the single-adult unit after a divorce.
func NewRental(name string, rent decimal.Decimal) *Profile {
	s := &Profile{
		kind:          NormalRental,
		name:          name,
		rent:          rent,
		renewalMonths: renewalCycle,
		moveInMonths:  decimal.NewFromInt(moveInRentMonth),
	}
	s.terms.ClosingCosts = rent.Mul(s.moveInMonths)
	return s
}

func purchaseClosingCosts(price, loan decimal.Decimal) decimal.Decimal {
	fees := price.Mul(decimal.NewFromFloat(closingCostRate))
	return fees.Add(price.Sub(loan)).Round(0)
}

func (s *Profile) Kind() Kind              { return s.kind }
func (s *Profile) Name() string            { return s.name }
func (s *Profile) Owns() bool              { return s.kind.Purchase() }
func (s *Profile) Terms() AcquisitionTerms { return s.terms }

// BaseRent is the base-year monthly rent of the unit occupied at the given age.
// It is zero for owners.
func (s *Profile) BaseRent(age int) decimal.Decimal {
	if s.Owns() {
		return decimal.Zero
	}
	if s.kind == StrategicRental && s.downsizedRent.IsPositive() && age >= s.downsizeAge {
		return s.downsizedRent
	}
	return s.rent
}

// MoveInCost is the one-time cost of taking a unit at the given base rent
func (s *Profile) MoveInCost(baseRent, inflation decimal.Decimal) decimal.Decimal {
	return baseRent.Mul(s.moveInMonths).Mul(inflation).Round(0)
}

// RentCost is the monthly rent for a base-year rent level, inflated, with the
// renewal fee due on every completed renewal cycle of the tenancy
func (s *Profile) RentCost(baseRent decimal.Decimal, tenureMonths int, inflation decimal.Decimal) decimal.Decimal {
	rent := baseRent.Mul(inflation)
	if s.renewalMonths > 0 && tenureMonths > 0 && tenureMonths%s.renewalMonths == 0 {
		rent = rent.Add(rent)
	}
	return rent.Round(0)
}

// HousingCost is the recurring monthly housing cost excluding loan repayment.
// monthsOwned counts months since purchase for owners and months in the current
// unit for renters; inflation is the cumulative price factor for the month.
func (s *Profile) HousingCost(age, monthsOwned int, inflation decimal.Decimal) decimal.Decimal {
	if !s.Owns() {
		return s.RentCost(s.BaseRent(age), monthsOwned, inflation)
	}
	buildingAge := s.terms.BuildingAgeAtPurchase + monthsOwned/12
	fees := s.monthlyFees
	if s.repairReserve.IsPositive() {
		reserve := s.repairReserve
		for step := 10; step <= buildingAge; step += 10 {
			reserve = reserve.Mul(s.repairStep)
		}
		fees = fees.Add(reserve)
	}
	fees = fees.Add(s.annualPropertyTax.Div(decimal.NewFromInt(12)))
	return fees.Mul(inflation).Round(0)
}

// OneTimeAt returns the scheduled expense total for a building age, in base-year money
func (s *Profile) OneTimeAt(buildingAge int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.oneTime {
		if e.BuildingAge == buildingAge {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// BuildingResidual is the depreciated building value after yearsOwned, before
// any price growth, using straight-line depreciation over the useful life
func (s *Profile) BuildingResidual(yearsOwned int) decimal.Decimal {
	life := s.terms.BuildingUsefulLife
	if life <= 0 {
		return decimal.Zero
	}
	age := s.terms.BuildingAgeAtPurchase + yearsOwned
	if age >= life {
		return decimal.Zero
	}
	remaining := decimal.NewFromInt(int64(life - age)).Div(decimal.NewFromInt(int64(life)))
	return s.terms.BuildingValue().Mul(remaining).Round(0)
}

// Deferred returns a copy of a purchase profile repriced for a later purchase:
// the land component grows by landFactor and the building by buildingFactor,
// and the loan keeps its loan-to-price ratio.
func (s *Profile) Deferred(landFactor, buildingFactor decimal.Decimal) *Profile {
	c := *s
	c.oneTime = append([]ScheduledExpense(nil), s.oneTime...)
	if !s.Owns() {
		return &c
	}
	oldPrice := s.terms.Price
	newPrice := s.terms.LandValue().Mul(landFactor).Add(s.terms.BuildingValue().Mul(buildingFactor)).Round(0)
	c.terms.Price = newPrice
	if oldPrice.IsPositive() {
		c.terms.Loan = s.terms.Loan.Mul(newPrice).Div(oldPrice).Round(0)
		c.terms.LandRatio = s.terms.LandValue().Mul(landFactor).Div(newPrice).Round(6)
	}
	c.terms.ClosingCosts = purchaseClosingCosts(c.terms.Price, c.terms.Loan)
	return &c
}
