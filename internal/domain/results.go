package domain

import (
	"github.com/shopspring/decimal"
)

// YearlySnapshot is one row of the yearly ledger log. Flow fields are sums over
// the twelve months of the year; Balance is the year-end total of all pools.
type YearlySnapshot struct {
	Age          int             `json:"age"`
	Income       decimal.Decimal `json:"income"`
	Housing      decimal.Decimal `json:"housing"`
	Education    decimal.Decimal `json:"education"`
	Living       decimal.Decimal `json:"living"`
	OneTime      decimal.Decimal `json:"oneTime"`
	EventCost    decimal.Decimal `json:"eventCost"`
	Investable   decimal.Decimal `json:"investable"`
	Balance      decimal.Decimal `json:"balance"`
	LoanBalance  decimal.Decimal `json:"loanBalance"`
	InvestReturn decimal.Decimal `json:"investReturn"`
}

// Balances are the household's account pools at a point in time
type Balances struct {
	TaxAdvantaged      decimal.Decimal `json:"taxAdvantaged"`
	TaxAdvantagedBasis decimal.Decimal `json:"taxAdvantagedBasis"`
	Taxable            decimal.Decimal `json:"taxable"`
	TaxableBasis       decimal.Decimal `json:"taxableBasis"`
	Bond               decimal.Decimal `json:"bond"`
	BondBasis          decimal.Decimal `json:"bondBasis"`
	Gold               decimal.Decimal `json:"gold"`
	GoldBasis          decimal.Decimal `json:"goldBasis"`
	Cash               decimal.Decimal `json:"cash"`
	Emergency          decimal.Decimal `json:"emergency"`
}

// Total sums every pool
func (b Balances) Total() decimal.Decimal {
	return b.TaxAdvantaged.Add(b.Taxable).Add(b.Bond).Add(b.Gold).Add(b.Cash).Add(b.Emergency)
}

// Invested sums the pools that carry a cost basis
func (b Balances) Invested() decimal.Decimal {
	return b.TaxAdvantaged.Add(b.Taxable).Add(b.Bond).Add(b.Gold)
}

// InvestedBasis sums the cost bases of the invested pools
func (b Balances) InvestedBasis() decimal.Decimal {
	return b.TaxAdvantagedBasis.Add(b.TaxableBasis).Add(b.BondBasis).Add(b.GoldBasis)
}

// SimulationResult is the per-run record produced by the ledger engine
type SimulationResult struct {
	Strategy    string `json:"strategy"`
	StartAge    int    `json:"startAge"`
	PurchaseAge int    `json:"purchaseAge,omitempty"`

	Final Balances `json:"final"`

	PropertyValue       decimal.Decimal `json:"propertyValue"`
	LandValue           decimal.Decimal `json:"landValue"`
	LiquidationCost     decimal.Decimal `json:"liquidationCost"`
	SecuritiesTax       decimal.Decimal `json:"securitiesTax"`
	RealEstateTax       decimal.Decimal `json:"realEstateTax"`
	LoanRemaining       decimal.Decimal `json:"loanRemaining"`
	RealizedTaxes       decimal.Decimal `json:"realizedTaxes"`
	LoanDeduction       decimal.Decimal `json:"loanDeduction"`
	FinancialAssets     decimal.Decimal `json:"financialAssets"`
	AfterTaxNetAssets   decimal.Decimal `json:"afterTaxNetAssets"`
	FinalPensionMonthly decimal.Decimal `json:"finalPensionMonthly"`

	Bankrupt            bool `json:"bankrupt"`
	BankruptAge         int  `json:"bankruptAge,omitempty"`
	PrincipalInvaded    bool `json:"principalInvaded"`
	PrincipalInvadedAge int  `json:"principalInvadedAge,omitempty"`

	Split    HouseholdSplit `json:"split"`
	SplitAge int            `json:"splitAge,omitempty"`

	YearlyLog []YearlySnapshot `json:"yearlyLog"`
}

// MonteCarloResult aggregates terminal outcomes of many trials for one strategy.
// It is built once after all trials complete and is read-only afterwards.
type MonteCarloResult struct {
	Strategy        string                          `json:"strategy"`
	Trials          int                             `json:"trials"`
	Seed            int64                           `json:"seed"`
	Outcomes        []decimal.Decimal               `json:"outcomes"` // sorted ascending
	Percentiles     map[int]decimal.Decimal         `json:"percentiles"`
	Mean            decimal.Decimal                 `json:"mean"`
	StdDev          decimal.Decimal                 `json:"stdDev"`
	BankruptCount   int                             `json:"bankruptCount"`
	BankruptProb    decimal.Decimal                 `json:"bankruptProb"`
	InvasionCount   int                             `json:"invasionCount"`
	InvasionProb    decimal.Decimal                 `json:"invasionProb"`
	InfeasibleCount int                             `json:"infeasibleCount"`
	Grid            map[int]map[int]decimal.Decimal `json:"grid,omitempty"` // age -> percentile -> balance
}

// PercentileLevels are the percentiles reported for every Monte Carlo result
var PercentileLevels = []int{5, 25, 50, 75, 95}
