package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/rgehrsitz/homesim/internal/domain"
)

// CSVSummarizer writes one row per deterministic strategy run.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Strategy", "PurchaseAge", "AfterTaxNetAssets", "FinancialAssets", "PropertyValue", "LoanRemaining", "RealizedTaxes", "Bankrupt", "BankruptAge", "PrincipalInvaded", "Split", "FinalPensionMonthly"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, res := range r.Results {
		row := []string{
			res.Strategy,
			strconv.Itoa(res.PurchaseAge),
			res.AfterTaxNetAssets.StringFixed(0),
			res.FinancialAssets.StringFixed(0),
			res.PropertyValue.StringFixed(0),
			res.LoanRemaining.StringFixed(0),
			res.RealizedTaxes.StringFixed(0),
			strconv.FormatBool(res.Bankrupt),
			strconv.Itoa(res.BankruptAge),
			strconv.FormatBool(res.PrincipalInvaded),
			res.Split.String(),
			res.FinalPensionMonthly.StringFixed(0),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVYearlyExporter writes the yearly log of every run in long format.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string { return "yearly-csv" }

func (c CSVYearlyExporter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Strategy", "Age", "Income", "Housing", "Education", "Living", "OneTime", "EventCost", "Investable", "InvestReturn", "Balance", "LoanBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, res := range r.Results {
		for _, y := range res.YearlyLog {
			row := []string{
				res.Strategy,
				strconv.Itoa(y.Age),
				y.Income.StringFixed(0),
				y.Housing.StringFixed(0),
				y.Education.StringFixed(0),
				y.Living.StringFixed(0),
				y.OneTime.StringFixed(0),
				y.EventCost.StringFixed(0),
				y.Investable.StringFixed(0),
				y.InvestReturn.StringFixed(0),
				y.Balance.StringFixed(0),
				y.LoanBalance.StringFixed(0),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// MonteCarloCSV writes the percentile bands of each batch. Rows with an empty
// Age are terminal outcomes; the rest come from the per-age grid.
type MonteCarloCSV struct{}

func (c MonteCarloCSV) Name() string { return "montecarlo-csv" }

func (c MonteCarloCSV) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Strategy", "Age"}
	for _, p := range domain.PercentileLevels {
		header = append(header, "P"+strconv.Itoa(p))
	}
	header = append(header, "Mean", "StdDev", "BankruptProb", "InvasionProb", "Trials")
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, mc := range r.MonteCarlo {
		row := []string{mc.Strategy, ""}
		for _, p := range domain.PercentileLevels {
			row = append(row, mc.Percentiles[p].StringFixed(0))
		}
		row = append(row,
			mc.Mean.StringFixed(0),
			mc.StdDev.StringFixed(0),
			mc.BankruptProb.StringFixed(4),
			mc.InvasionProb.StringFixed(4),
			strconv.Itoa(mc.Trials))
		if err := w.Write(row); err != nil {
			return nil, err
		}

		ages := make([]int, 0, len(mc.Grid))
		for age := range mc.Grid {
			ages = append(ages, age)
		}
		sort.Ints(ages)
		for _, age := range ages {
			row := []string{mc.Strategy, strconv.Itoa(age)}
			for _, p := range domain.PercentileLevels {
				row = append(row, mc.Grid[age][p].StringFixed(0))
			}
			row = append(row, "", "", "", "", "")
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
