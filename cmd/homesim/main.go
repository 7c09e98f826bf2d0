package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/config"
	"github.com/rgehrsitz/homesim/internal/logging"
	"github.com/rgehrsitz/homesim/internal/metrics"
	"github.com/rgehrsitz/homesim/internal/output"
	"github.com/rgehrsitz/homesim/internal/strategy"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "homesim %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "homesim",
	Short: "Buy vs rent household finance simulator",
	Long: "Simulates a two-earner household month by month to a terminal age under\n" +
		"mansion purchase, house purchase, strategic rental and normal rental\n" +
		"strategies, deterministically or as a Monte Carlo batch.",
	SilenceUsage: true,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [input-file]",
	Short: "Run every configured strategy once with no life events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		engine := calculation.NewEngine()
		engine.SetLogger(logger)
		report, err := output.Simulate(engine, in)
		if err != nil {
			return err
		}
		return writeReport(cmd, report)
	},
}

var monteCarloCmd = &cobra.Command{
	Use:   "monte-carlo [input-file]",
	Short: "Run a Monte Carlo batch for every configured strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}
		applyBatchFlags(cmd, in)

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		engine := calculation.NewEngine()
		engine.SetLogger(logger)
		d, err := in.NewDriver(engine)
		if err != nil {
			return err
		}
		d.Logger = logger

		recorder := metrics.New()
		d.Metrics = recorder

		kinds, err := in.Kinds()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		results, err := d.RunAll(ctx, kinds, in.StrategyOverrides)
		if err != nil {
			return err
		}

		report := output.NewReport(d.Household, d.Base, nil, nil)
		report.MonteCarlo = results

		if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
			if err := recorder.WriteTextfile(path); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}
		return writeReport(cmd, report)
	},
}

var resolveAgeCmd = &cobra.Command{
	Use:   "resolve-age [input-file]",
	Short: "Find the first age at which each purchase strategy passes underwriting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}
		h, err := in.ResolveHousehold()
		if err != nil {
			return err
		}
		p := in.Parameters()
		kinds, err := in.Kinds()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, k := range kinds {
			if !k.Purchase() {
				continue
			}
			s, err := strategy.New(k, h, in.StrategyOverrides(k))
			if err != nil {
				return err
			}
			age, err := calculation.ResolvePurchaseAge(s, h, p)
			if err != nil {
				return err
			}
			if age == calculation.NoFeasibleAge {
				fmt.Fprintf(out, "%-18s no feasible age up to %d\n", k, p.MaxPurchaseAge)
				continue
			}
			fmt.Fprintf(out, "%-18s %d\n", k, age)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}
		if _, err := in.ResolveHousehold(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s is valid\n", args[0])

		if show, _ := cmd.Flags().GetBool("print"); show {
			data, err := yaml.Marshal(in)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available output formats",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(output.AvailableFormatterNames(), "\n"))
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")

	for _, c := range []*cobra.Command{simulateCmd, monteCarloCmd} {
		c.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
		c.Flags().StringP("output-dir", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	}

	monteCarloCmd.Flags().IntP("trials", "n", 0, "Number of trials (overrides the configuration)")
	monteCarloCmd.Flags().Int64("seed", 0, "Random seed (overrides the configuration)")
	monteCarloCmd.Flags().IntP("workers", "w", 0, "Parallel ledger runs (overrides the configuration)")
	monteCarloCmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file")

	validateCmd.Flags().Bool("print", false, "Print the configuration with defaults applied")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(monteCarloCmd)
	rootCmd.AddCommand(resolveAgeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd())
}

func loadInput(path string) (*config.Input, error) {
	return config.NewInputParser().LoadFromFile(path)
}

func newLogger(cmd *cobra.Command) (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level, _ = cmd.Flags().GetString("log-level")
	cfg.Format, _ = cmd.Flags().GetString("log-format")
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.Output = file
	}
	return logging.New(cfg)
}

// applyBatchFlags lets command-line flags override the batch settings
func applyBatchFlags(cmd *cobra.Command, in *config.Input) {
	if cmd.Flags().Changed("trials") {
		in.MonteCarlo.Trials, _ = cmd.Flags().GetInt("trials")
	}
	if cmd.Flags().Changed("seed") {
		in.MonteCarlo.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("workers") {
		in.MonteCarlo.Workers, _ = cmd.Flags().GetInt("workers")
	}
}

func writeReport(cmd *cobra.Command, report *output.Report) error {
	name, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(name)
	if f == nil {
		return fmt.Errorf("unsupported format %q (available: %s)", name, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		path, err := output.WriteFormatted(f, report, dir, extension(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}

	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func extension(format string) string {
	switch {
	case format == "json":
		return "json"
	case strings.HasSuffix(format, "csv"):
		return "csv"
	default:
		return "txt"
	}
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
