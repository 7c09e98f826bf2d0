package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
household:
  start_ages: [37, 35]
  initial_savings: 20000000
  incomes: [8000000, 5000000]
strategies: [normal_rental, house_purchase]
monte_carlo:
  trials: 4
  seed: 3
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

// resetFlags restores every flag to its default between runs of the shared
// command tree
func resetFlags(t *testing.T) {
	t.Helper()
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "homesim", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"simulate", "monte-carlo", "resolve-age", "validate", "formats", "browse", "version"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "missing command %s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "homesim dev")
}

func TestFormatsCommand(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "montecarlo-csv")
	assert.Contains(t, out, "console-verbose")
}

func TestValidateCommand(t *testing.T) {
	path := writeTestConfig(t)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.NotContains(t, out, "terminal_age")

	out, err = run(t, "validate", path, "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "terminal_age: 80")

	_, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSimulateCommand(t *testing.T) {
	path := writeTestConfig(t)

	out, err := run(t, "simulate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "NORMAL_RENTAL")

	out, err = run(t, "simulate", path, "--format", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "household")

	_, err = run(t, "simulate", path, "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestSimulateCommand_OutputDir(t *testing.T) {
	path := writeTestConfig(t)
	dir := t.TempDir()

	out, err := run(t, "simulate", path, "-f", "csv", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	files, err := filepath.Glob(filepath.Join(dir, "homesim_report_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Strategy,"))
}

func TestMonteCarloCommand(t *testing.T) {
	path := writeTestConfig(t)
	metricsFile := filepath.Join(t.TempDir(), "homesim.prom")

	out, err := run(t, "monte-carlo", path, "--trials", "3", "--workers", "2", "-f", "montecarlo-csv", "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "normal_rental,,")
	assert.Contains(t, out, "house_purchase,,")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `homesim_trials_total{strategy="normal_rental"} 3`)
}

func TestMonteCarloCommand_InvalidTrials(t *testing.T) {
	_, err := run(t, "monte-carlo", writeTestConfig(t), "--trials", "0")
	assert.Error(t, err)
}

func TestResolveAgeCommand(t *testing.T) {
	out, err := run(t, "resolve-age", writeTestConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "house_purchase")
	assert.NotContains(t, out, "normal_rental")
}

func TestLogFlags(t *testing.T) {
	path := writeTestConfig(t)
	logFile := filepath.Join(t.TempDir(), "homesim.log")

	_, err := run(t, "simulate", path, "--log-level", "debug", "--log-format", "json", "--log-file", logFile)
	require.NoError(t, err)
	_, err = os.Stat(logFile)
	assert.NoError(t, err)

	_, err = run(t, "simulate", path, "--log-level", "loud")
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "json", extension("json"))
	assert.Equal(t, "csv", extension("yearly-csv"))
	assert.Equal(t, "txt", extension("console-verbose"))
}
