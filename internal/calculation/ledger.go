package calculation

import (
	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/rgehrsitz/homesim/internal/portfolio"
	"github.com/rgehrsitz/homesim/internal/strategy"
	"github.com/shopspring/decimal"
)

// Base-year monthly rents of the units the ledger moves into on its own
const (
	InterimRent = 150_000 // rented while waiting for a deferred purchase
	DivorceRent = 100_000 // single-adult unit after a divorce
)

// ledger is the mutable state of one run. It is created per Simulate call and
// never shared.
type ledger struct {
	log    Logger
	p      domain.ParameterSet
	h      domain.Household
	tl     domain.EventTimeline
	macro  macroPath
	income *incomeModel
	alloc  *portfolio.Allocator

	startAge int
	months   int

	base          *strategy.Profile // strategy under evaluation
	home          *strategy.Profile // unit currently occupied
	owned         bool
	loan          *strategy.Loan
	purchaseMonth int
	purchaseYear  int

	unitBase   decimal.Decimal // base-year rent of the current rental unit
	seniorBase decimal.Decimal // fixed once at the elderly-rent transition
	seniorSet  bool
	tenure     int

	adults       int
	bal          domain.Balances
	targets      portfolio.Targets
	principal    decimal.Decimal // money put into the portfolio from outside
	nisaYear     decimal.Decimal
	nisaLifetime decimal.Decimal

	year        yearIncome
	row         domain.YearlySnapshot
	lastPension decimal.Decimal
	res         *domain.SimulationResult
}

func newLedger(base *strategy.Profile, p domain.ParameterSet, h domain.Household, tl domain.EventTimeline, log Logger) (*ledger, error) {
	startAge := h.StartAges[0]
	years := p.TerminalAge - startAge
	l := &ledger{
		log:           log,
		p:             p,
		h:             h,
		tl:            tl,
		macro:         newMacroPath(p, years),
		alloc:         portfolio.NewAllocator(p.Bucket, p.CapitalGainsTaxRate),
		startAge:      startAge,
		months:        years * 12,
		base:          base,
		purchaseMonth: -1,
		adults:        2,
		res: &domain.SimulationResult{
			Strategy: base.Name(),
			StartAge: startAge,
		},
	}
	l.income = newIncomeModel(p, h, &l.macro)

	var upFront decimal.Decimal
	switch {
	case base.Owns() && h.PurchaseAge > startAge:
		if h.PurchaseAge >= p.TerminalAge {
			return nil, &strategy.InfeasibleError{
				Strategy: base.Name(),
				Reason:   "purchase age is at or beyond the terminal age",
			}
		}
		interim := strategy.NewRental("interim_rental", decimal.NewFromInt(InterimRent))
		l.moveInto(interim, startAge, one)
		l.purchaseMonth = (h.PurchaseAge - startAge) * 12
		upFront = interim.Terms().ClosingCosts
	case base.Owns():
		l.buy(base, 0)
		upFront = base.Terms().ClosingCosts
	default:
		l.moveInto(base, startAge, one)
		upFront = base.Terms().ClosingCosts
	}
	if err := strategy.CheckUpFront(base.Name(), upFront, h.InitialSavings); err != nil {
		return nil, err
	}

	remaining := h.InitialSavings.Sub(upFront)
	reserve := livingCost(p, h, startAge, l.adults, one).Mul(h.EmergencyFundMonths).Round(0)
	reserve = decimal.Min(reserve, remaining)
	if reserve.IsPositive() {
		portfolio.Deposit(&l.bal, portfolio.Emergency, reserve)
	}
	portfolio.Deposit(&l.bal, portfolio.Taxable, remaining.Sub(reserve))
	l.principal = remaining
	return l, nil
}

func (l *ledger) run() *domain.SimulationResult {
	for m := 0; m < l.months; m++ {
		l.step(m)
	}
	l.finish()
	return l.res
}

// step advances the ledger by one month
func (l *ledger) step(m int) {
	year := m / 12
	age := l.startAge + year
	infl := l.macro.inflation[year]
	oneTime := decimal.Zero
	eventCost := decimal.Zero

	if m%12 == 0 {
		l.year = l.income.step(year)
		l.nisaYear = decimal.Zero
		l.row = domain.YearlySnapshot{Age: age}
		oneTime = oneTime.Add(specialExpenses(l.h, age, infl))
		oneTime = oneTime.Add(l.yearStartHousing(m, age, infl))
	}
	if m == l.purchaseMonth && !l.owned && l.res.Split != domain.SplitDivorce {
		deferred := l.base.Deferred(growth(l.macro.land, 0, year), infl)
		l.buy(deferred, m)
		oneTime = oneTime.Add(deferred.Terms().ClosingCosts)
		l.log.Debugf("%s: deferred purchase at age %d for %s", l.res.Strategy, age, deferred.Terms().Price.StringFixed(0))
	}
	if m == l.tl.SplitMonth && l.tl.Split != domain.SplitNone {
		oneTime = oneTime.Add(l.split(m, age, year, infl))
	}
	if m%12 == 0 {
		l.rebalance(m, age, infl)
	}

	// income
	unemployed := l.tl.Unemployed(m)
	labour := l.year.LabourTotal()
	if unemployed {
		labour = decimal.Zero
	}
	pension := l.year.PensionTotal().Mul(l.p.PensionTakeHomeRatio).Div(twelve).Round(0)
	income := labour.Mul(l.p.TakeHomeRatio).Div(twelve).Round(0).Add(pension)
	l.lastPension = pension

	// expenses
	deduction := l.loanDeduction(m)
	housing := l.housingCost(m, age, infl)
	education := educationCost(l.p, l.h, age)
	living := livingCost(l.p, l.h, age, l.adults, infl)
	eventCost = eventCost.Add(l.eventCosts(m, age, year, infl))
	contribution := iDeCoContribution(l.p, l.h, l.year, year, unemployed)

	net := income.Add(deduction).
		Sub(housing).Sub(education).Sub(living).Sub(eventCost).Sub(oneTime).Sub(contribution)
	if net.IsPositive() && l.p.InvestmentDiscipline.LessThan(one) {
		net = net.Mul(l.p.InvestmentDiscipline).Round(0)
	}

	gain := l.compound(year)
	if contribution.IsPositive() {
		portfolio.Deposit(&l.bal, portfolio.TaxAdvantaged, contribution)
		l.principal = l.principal.Add(contribution)
	}
	switch {
	case net.IsPositive():
		l.invest(net, age)
		l.principal = l.principal.Add(net)
	case net.IsNegative():
		l.withdraw(net.Neg(), age, year)
	}

	l.res.LoanDeduction = l.res.LoanDeduction.Add(deduction)
	l.row.Income = l.row.Income.Add(income)
	l.row.Housing = l.row.Housing.Add(housing)
	l.row.Education = l.row.Education.Add(education)
	l.row.Living = l.row.Living.Add(living)
	l.row.OneTime = l.row.OneTime.Add(oneTime)
	l.row.EventCost = l.row.EventCost.Add(eventCost)
	l.row.Investable = l.row.Investable.Add(net)
	l.row.InvestReturn = l.row.InvestReturn.Add(gain)
	if m%12 == 11 || m == l.months-1 {
		l.row.Balance = l.bal.Total()
		if l.loan != nil {
			l.row.LoanBalance = l.loan.Balance
		}
		l.res.YearlyLog = append(l.res.YearlyLog, l.row)
		l.log.Debugf("%s: age %d balance %s", l.res.Strategy, age, l.row.Balance.StringFixed(0))
	}
}

// moveInto takes a rental unit and returns its move-in cost at the given inflation
func (l *ledger) moveInto(s *strategy.Profile, age int, inflation decimal.Decimal) decimal.Decimal {
	l.home = s
	l.owned = false
	l.unitBase = s.BaseRent(age)
	l.tenure = 0
	if l.seniorSet {
		l.seniorBase = l.unitBase.Mul(l.p.ElderlyRentPremium)
	}
	return s.MoveInCost(l.unitBase, inflation)
}

func (l *ledger) buy(s *strategy.Profile, m int) {
	age := l.startAge + m/12
	l.home = s
	l.owned = true
	l.purchaseMonth = m
	l.purchaseYear = m / 12
	l.seniorSet = false
	if loan := s.Terms().Loan; loan.IsPositive() {
		term := strategy.CappedTerm(l.p.LoanTermYears, age, l.p.TerminalAge)
		l.loan = strategy.NewLoan(loan, term, l.p)
	}
	l.res.PurchaseAge = age
}

// yearStartHousing handles the housing transitions that happen on a year
// boundary and returns their one-time cost: building-age repairs for owners;
// a downsize or the elderly-rent premium for renters
func (l *ledger) yearStartHousing(m, age int, infl decimal.Decimal) decimal.Decimal {
	if l.owned {
		monthsOwned := m - l.purchaseMonth
		if monthsOwned > 0 && monthsOwned%12 == 0 {
			buildingAge := l.home.Terms().BuildingAgeAtPurchase + monthsOwned/12
			return l.home.OneTimeAt(buildingAge).Mul(infl).Round(0)
		}
		return decimal.Zero
	}
	cost := decimal.Zero
	if rent := l.home.BaseRent(age); !rent.Equal(l.unitBase) {
		cost = l.moveInto(l.home, age, infl)
	}
	if !l.seniorSet && age >= l.p.ElderlyRentAge {
		l.seniorSet = true
		l.seniorBase = l.unitBase.Mul(l.p.ElderlyRentPremium)
	}
	return cost
}

// housingCost is the month's housing outflow including any loan payment
func (l *ledger) housingCost(m, age int, infl decimal.Decimal) decimal.Decimal {
	if l.owned {
		cost := l.home.HousingCost(age, m-l.purchaseMonth, infl)
		if l.loan.Active() {
			payment, _ := l.loan.Step()
			cost = cost.Add(payment)
		}
		return cost
	}
	rent := l.unitBase
	if l.seniorSet {
		rent = l.seniorBase
	}
	cost := l.home.RentCost(rent, l.tenure, infl)
	l.tenure++
	return cost
}

// loanDeduction is the monthly mortgage tax credit on the capped outstanding
// balance, granted for a fixed number of years after purchase
func (l *ledger) loanDeduction(m int) decimal.Decimal {
	if !l.owned || !l.loan.Active() || m-l.purchaseMonth >= l.p.LoanDeductionYears*12 {
		return decimal.Zero
	}
	balance := decimal.Min(l.loan.Balance, l.p.LoanDeductionBalanceCap)
	return balance.Mul(l.p.LoanDeductionRate).Div(twelve).Round(0)
}

func (l *ledger) eventCosts(m, age, year int, infl decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	if l.tl.InCare(m) {
		cost = cost.Add(l.tl.CareCost(infl))
	}
	if !l.owned && l.tl.RentalRejected(m) {
		cost = cost.Add(l.tl.RentalRejectionCost(infl))
	}
	if m == l.tl.RelocationMonth {
		cost = cost.Add(l.tl.RelocationCost(infl))
		if !l.owned {
			cost = cost.Add(l.moveInto(l.home, age, infl))
		}
	}
	if m == l.tl.DisasterMonth && l.owned {
		damage := l.marketValue(year).Mul(l.tl.DisasterNetDamage).Round(0)
		cost = cost.Add(damage)
		l.log.Debugf("%s: disaster at age %d, net damage %s", l.res.Strategy, age, damage.StringFixed(0))
	}
	return cost
}

// split applies a divorce or spousal death at month m and returns any cash the
// household must find that month
func (l *ledger) split(m, age, year int, infl decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	switch l.tl.Split {
	case domain.SplitDivorce:
		keep := one.Sub(l.p.DivorceSplitRatio)
		l.scaleBalances(keep)
		l.principal = l.principal.Mul(keep).Round(2)
		if l.owned {
			value := l.marketValue(year)
			proceeds := value.Sub(value.Mul(l.p.LiquidationCostRate)).Sub(l.loan.BalanceOrZero())
			l.loan.Settle()
			share := proceeds.Mul(keep).Round(0)
			if share.IsPositive() {
				portfolio.Deposit(&l.bal, portfolio.Taxable, share)
				l.principal = l.principal.Add(share)
			} else {
				cost = cost.Add(share.Neg())
			}
		}
		cost = cost.Add(l.moveInto(strategy.NewRental("single_rental", decimal.NewFromInt(DivorceRent)), age, infl))
		l.purchaseMonth = -1
		l.income.divorce()
	case domain.SplitSpouseDeath:
		// group credit life insurance clears the mortgage
		l.loan.Settle()
		l.income.widow()
	}
	l.adults = 1
	l.year = l.income.current(year)
	l.res.Split = l.tl.Split
	l.res.SplitAge = age
	l.log.Infof("%s: household %s at age %d", l.res.Strategy, l.tl.Split, age)
	return cost
}

func (l *ledger) scaleBalances(f decimal.Decimal) {
	for _, v := range []*decimal.Decimal{
		&l.bal.TaxAdvantaged, &l.bal.TaxAdvantagedBasis,
		&l.bal.Taxable, &l.bal.TaxableBasis,
		&l.bal.Bond, &l.bal.BondBasis,
		&l.bal.Gold, &l.bal.GoldBasis,
		&l.bal.Cash, &l.bal.Emergency,
	} {
		*v = v.Mul(f).Round(2)
	}
}

// rebalance resets the bucket targets for the year and moves money to meet them
func (l *ledger) rebalance(m, age int, infl decimal.Decimal) {
	monthly := livingCost(l.p, l.h, age, l.adults, infl)
	if l.owned {
		monthly = monthly.Add(l.home.HousingCost(age, m-l.purchaseMonth, infl))
		if l.loan.Active() {
			monthly = monthly.Add(l.loan.Payment)
		}
	} else {
		rent := l.unitBase
		if l.seniorSet {
			rent = l.seniorBase
		}
		monthly = monthly.Add(rent.Mul(infl))
	}
	annualExpense := monthly.Mul(twelve)
	annualEducation := educationCost(l.p, l.h, age).Mul(twelve)
	total := portfolio.NonTaxAdvantaged(&l.bal)

	l.targets = l.alloc.Targets(age, annualExpense, annualEducation, total)
	tax := l.alloc.Rebalance(&l.bal, l.targets)
	l.res.RealizedTaxes = l.res.RealizedTaxes.Add(tax)
}

// compound applies one month of growth to the invested pools and returns the gain
func (l *ledger) compound(year int) decimal.Decimal {
	before := l.bal.Invested()
	l.bal.TaxAdvantaged = l.bal.TaxAdvantaged.Mul(l.macro.equity[year]).Round(2)
	l.bal.Taxable = l.bal.Taxable.Mul(l.macro.equity[year]).Round(2)
	l.bal.Bond = l.bal.Bond.Mul(l.macro.bond).Round(2)
	l.bal.Gold = l.bal.Gold.Mul(l.macro.gold).Round(2)
	return l.bal.Invested().Sub(before)
}

// invest deposits positive net cash: the cash buffer first while working,
// then the tax-advantaged pool within the annual and lifetime limits, then
// taxable equity
func (l *ledger) invest(amount decimal.Decimal, age int) {
	if age < l.p.Bucket.RetirementAge {
		if gap := l.targets.Cash.Sub(l.bal.Cash); gap.IsPositive() {
			put := decimal.Min(gap, amount)
			portfolio.Deposit(&l.bal, portfolio.Cash, put)
			amount = amount.Sub(put)
		}
	}
	if !amount.IsPositive() {
		return
	}
	adults := decimal.NewFromInt(int64(l.adults))
	room := decimal.Min(
		l.p.NISAAnnualLimitPerAdult.Mul(adults).Sub(l.nisaYear),
		l.p.NISALifetimeLimitPerAdult.Mul(adults).Sub(l.nisaLifetime),
	)
	if room.IsPositive() {
		put := decimal.Min(room, amount)
		portfolio.Deposit(&l.bal, portfolio.TaxAdvantaged, put)
		l.nisaYear = l.nisaYear.Add(put)
		l.nisaLifetime = l.nisaLifetime.Add(put)
		amount = amount.Sub(put)
	}
	portfolio.Deposit(&l.bal, portfolio.Taxable, amount)
}

func (l *ledger) phase(age, year int) portfolio.Phase {
	switch {
	case age < l.p.Bucket.RetirementAge:
		return portfolio.Working
	case l.macro.returns[year].IsNegative():
		return portfolio.RetiredDownturn
	default:
		return portfolio.Retired
	}
}

// withdraw covers a monthly deficit. Running dry is recorded as bankruptcy and
// the run continues with empty pools.
func (l *ledger) withdraw(need decimal.Decimal, age, year int) {
	plan := l.alloc.Withdraw(&l.bal, need, l.phase(age, year))
	l.res.RealizedTaxes = l.res.RealizedTaxes.Add(plan.Tax)
	if plan.Shortfall.IsPositive() {
		if !l.res.Bankrupt {
			l.res.Bankrupt = true
			l.res.BankruptAge = age
			l.log.Infof("%s: bankrupt at age %d, shortfall %s", l.res.Strategy, age, plan.Shortfall.StringFixed(0))
		}
		l.invaded(age)
		return
	}
	if l.bal.Total().LessThan(l.principal) {
		l.invaded(age)
	}
}

func (l *ledger) invaded(age int) {
	if l.res.PrincipalInvaded {
		return
	}
	l.res.PrincipalInvaded = true
	l.res.PrincipalInvadedAge = age
}

// marketValue is the property's value at the start of year: land grown at
// land appreciation and the depreciated building grown with inflation
func (l *ledger) marketValue(year int) decimal.Decimal {
	land, building := l.propertyParts(year)
	return land.Add(building)
}

func (l *ledger) propertyParts(year int) (land, building decimal.Decimal) {
	terms := l.home.Terms()
	land = terms.LandValue().Mul(growth(l.macro.land, l.purchaseYear, year)).Round(0)
	building = l.home.BuildingResidual(year - l.purchaseYear).Mul(growth(l.macro.inflation, l.purchaseYear, year)).Round(0)
	return land, building
}
