package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/homesim/internal/domain"
)

// Report is everything a formatter can render for one run of the tool
type Report struct {
	Household  domain.Household           `json:"household"`
	Parameters domain.ParameterSet        `json:"parameters"`
	Results    []*domain.SimulationResult `json:"results,omitempty"`
	Failures   map[string]string          `json:"failures,omitempty"` // strategy -> reason it could not start
	MonteCarlo []*domain.MonteCarloResult `json:"monteCarlo,omitempty"`
}

// NewReport assembles a report from deterministic results and the strategies
// that could not start, keeping results in the order given
func NewReport(h domain.Household, p domain.ParameterSet, results []*domain.SimulationResult, failures map[string]error) *Report {
	r := &Report{Household: h, Parameters: p, Results: results}
	for name, err := range failures {
		r.AddFailure(name, err)
	}
	return r
}

// AddFailure records a strategy that could not be simulated
func (r *Report) AddFailure(strategy string, err error) {
	if r.Failures == nil {
		r.Failures = make(map[string]string)
	}
	r.Failures[strategy] = err.Error()
}

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(r *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, r *Report, dir, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("homesim_report_%s.%s", time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleFormatter{Verbose: true},
	JSONFormatter{},
	CSVSummarizer{},
	CSVYearlyExporter{},
	MonteCarloCSV{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"verbose":     "console-verbose",
	"text":        "console",
	"csv-summary": "csv",
	"csv-yearly":  "yearly-csv",
	"csv-mc":      "montecarlo-csv",
	"mc-csv":      "montecarlo-csv",
	"json-pretty": "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}
