package calculation

import (
	"github.com/shopspring/decimal"
)

// finish computes the terminal figures: the property's sale value with the
// liquidity haircut, liquidation cost, capital-gains tax on unrealized
// securities gains, real-estate capital-gains tax after the primary-residence
// exemption, and the after-tax net assets
func (l *ledger) finish() {
	end := l.months / 12
	res := l.res
	res.Final = l.bal
	res.FinancialAssets = l.bal.Total()
	res.SecuritiesTax = l.securitiesTax()
	res.FinalPensionMonthly = l.lastPension

	if l.owned {
		land, building := l.propertyParts(end)
		land = land.Mul(one.Sub(l.home.Terms().LiquidityDiscount)).Round(0)
		value := land.Add(building)

		res.LandValue = land
		res.PropertyValue = value
		res.LiquidationCost = value.Mul(l.p.LiquidationCostRate).Round(0)
		res.RealEstateTax = l.realEstateTax(value, res.LiquidationCost, end)
		res.LoanRemaining = l.loan.BalanceOrZero()
	}

	res.AfterTaxNetAssets = res.FinancialAssets.
		Sub(res.SecuritiesTax).
		Add(res.PropertyValue).
		Sub(res.LiquidationCost).
		Sub(res.RealEstateTax).
		Sub(res.LoanRemaining).
		Round(0)
}

// securitiesTax is the flat capital-gains tax on unrealized gains in the taxed pools
func (l *ledger) securitiesTax() decimal.Decimal {
	gain := decimal.Zero
	for _, pair := range [][2]decimal.Decimal{
		{l.bal.Taxable, l.bal.TaxableBasis},
		{l.bal.Bond, l.bal.BondBasis},
		{l.bal.Gold, l.bal.GoldBasis},
	} {
		if g := pair[0].Sub(pair[1]); g.IsPositive() {
			gain = gain.Add(g)
		}
	}
	return gain.Mul(l.p.CapitalGainsTaxRate).Round(0)
}

// realEstateTax taxes the sale gain over the acquisition cost (land plus the
// depreciated building) net of selling costs and the residence exemption
func (l *ledger) realEstateTax(sale, liquidation decimal.Decimal, end int) decimal.Decimal {
	acquisition := l.home.Terms().LandValue().Add(l.home.BuildingResidual(end - l.purchaseYear))
	gain := sale.Sub(liquidation).Sub(acquisition).Sub(l.p.PrimaryResidenceExemption)
	if !gain.IsPositive() {
		return decimal.Zero
	}
	return gain.Mul(l.p.RealEstateTaxRate).Round(0)
}
