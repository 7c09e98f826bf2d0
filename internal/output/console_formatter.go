package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/homesim/internal/domain"
)

// ConsoleFormatter renders a plain-text report. Verbose adds the yearly log
// of every deterministic run.
type ConsoleFormatter struct {
	Verbose bool
}

func (c ConsoleFormatter) Name() string {
	if c.Verbose {
		return "console-verbose"
	}
	return "console"
}

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, "BUY VS RENT HOUSEHOLD SIMULATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	writeHousehold(&buf, r)

	if len(r.Results) > 0 {
		writeSummaryTable(&buf, r.Results)
		for _, res := range r.Results {
			writeStrategyDetail(&buf, r.Parameters, res)
			if c.Verbose {
				writeYearlyLog(&buf, res)
			}
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "STRATEGIES NOT SIMULATED")
		fmt.Fprintln(&buf, strings.Repeat("-", 80))
		names := make([]string, 0, len(r.Failures))
		for name := range r.Failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&buf, "  %-20s %s\n", name, r.Failures[name])
		}
	}

	if len(r.MonteCarlo) > 0 {
		writeMonteCarlo(&buf, r.MonteCarlo)
	}
	return buf.Bytes(), nil
}

func writeHousehold(buf *bytes.Buffer, r *Report) {
	h := r.Household
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Start ages:        %d / %d\n", h.StartAges[0], h.StartAges[1])
	fmt.Fprintf(buf, "Initial savings:   %s\n", FormatYen(h.InitialSavings))
	fmt.Fprintf(buf, "Annual incomes:    %s / %s\n", FormatYen(h.AnnualIncomes[0]), FormatYen(h.AnnualIncomes[1]))
	fmt.Fprintf(buf, "Children:          %d\n", len(h.Children))
	fmt.Fprintf(buf, "Horizon:           to age %d\n", r.Parameters.TerminalAge)
}

func writeSummaryTable(buf *bytes.Buffer, results []*domain.SimulationResult) {
	const nameWidth, numWidth = 18, 16
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "TERMINAL POSITION")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	fmt.Fprintf(buf, "%-*s %*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Net Assets",
		numWidth, "Financial",
		numWidth, "Property",
		8, "Bankrupt")
	for _, res := range results {
		fmt.Fprintf(buf, "%-*s %*s %*s %*s %*s\n",
			nameWidth, res.Strategy,
			numWidth, FormatMan(res.AfterTaxNetAssets),
			numWidth, FormatMan(res.FinancialAssets),
			numWidth, FormatMan(res.PropertyValue),
			8, formatAge(res.BankruptAge, res.Bankrupt))
	}
}

func writeStrategyDetail(buf *bytes.Buffer, p domain.ParameterSet, res *domain.SimulationResult) {
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%s\n", strings.ToUpper(res.Strategy))
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	if res.PurchaseAge > 0 {
		fmt.Fprintf(buf, "  Purchase age:          %d\n", res.PurchaseAge)
	}
	fmt.Fprintf(buf, "  After-tax net assets:  %s\n", FormatYen(res.AfterTaxNetAssets))
	fmt.Fprintf(buf, "  Financial assets:      %s\n", FormatYen(res.FinancialAssets))
	if !res.PropertyValue.IsZero() {
		fmt.Fprintf(buf, "  Property value:        %s\n", FormatYen(res.PropertyValue))
		fmt.Fprintf(buf, "  Liquidation cost:      %s\n", FormatYen(res.LiquidationCost))
		fmt.Fprintf(buf, "  Real estate tax:       %s\n", FormatYen(res.RealEstateTax))
		fmt.Fprintf(buf, "  Loan remaining:        %s\n", FormatYen(res.LoanRemaining))
	}
	fmt.Fprintf(buf, "  Securities tax:        %s\n", FormatYen(res.SecuritiesTax))
	fmt.Fprintf(buf, "  Taxes realized:        %s\n", FormatYen(res.RealizedTaxes))
	if !res.LoanDeduction.IsZero() {
		fmt.Fprintf(buf, "  Loan deduction:        %s\n", FormatYen(res.LoanDeduction))
	}
	fmt.Fprintf(buf, "  Bankrupt at:           %s\n", formatAge(res.BankruptAge, res.Bankrupt))
	fmt.Fprintf(buf, "  Principal invaded at:  %s\n", formatAge(res.PrincipalInvadedAge, res.PrincipalInvaded))
	if res.Split != domain.SplitNone {
		fmt.Fprintf(buf, "  Household split:       %s at %d\n", res.Split, res.SplitAge)
	}
	fmt.Fprintf(buf, "  Final pension/month:   %s\n", FormatYen(res.FinalPensionMonthly))

	years := p.TerminalAge - res.StartAge
	realAssets := RealTerms(res.AfterTaxNetAssets, p.InflationFactor(years))
	grade := GradeFacility(realAssets, res.FinalPensionMonthly)
	fmt.Fprintf(buf, "  Real net assets:       %s\n", FormatYen(realAssets))
	fmt.Fprintf(buf, "  Senior residence:      %s (%s)\n", grade.Label, grade.Description)
}

func writeYearlyLog(buf *bytes.Buffer, res *domain.SimulationResult) {
	if len(res.YearlyLog) == 0 {
		return
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  %4s %12s %12s %12s %12s %12s %14s %12s\n",
		"Age", "Income", "Housing", "Education", "Living", "Events", "Balance", "Loan")
	for _, y := range res.YearlyLog {
		fmt.Fprintf(buf, "  %4d %12s %12s %12s %12s %12s %14s %12s\n",
			y.Age,
			FormatMan(y.Income),
			FormatMan(y.Housing),
			FormatMan(y.Education),
			FormatMan(y.Living),
			FormatMan(y.EventCost.Add(y.OneTime)),
			FormatMan(y.Balance),
			FormatMan(y.LoanBalance))
	}
}

func writeMonteCarlo(buf *bytes.Buffer, results []*domain.MonteCarloResult) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "MONTE CARLO")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	for _, mc := range results {
		fmt.Fprintf(buf, "%s (%d trials, seed %d)\n", mc.Strategy, mc.Trials, mc.Seed)
		for _, p := range domain.PercentileLevels {
			fmt.Fprintf(buf, "  P%-3d %16s\n", p, FormatMan(mc.Percentiles[p]))
		}
		fmt.Fprintf(buf, "  Mean %16s   Std dev %s\n", FormatMan(mc.Mean), FormatMan(mc.StdDev))
		fmt.Fprintf(buf, "  Bankruptcy probability:        %s\n", FormatPercentage(mc.BankruptProb))
		fmt.Fprintf(buf, "  Principal invasion probability: %s\n", FormatPercentage(mc.InvasionProb))
		if mc.InfeasibleCount > 0 {
			fmt.Fprintf(buf, "  Infeasible trials:             %d\n", mc.InfeasibleCount)
		}
		fmt.Fprintln(buf)
	}
}
