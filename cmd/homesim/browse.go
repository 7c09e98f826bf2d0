package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/homesim/internal/calculation"
	"github.com/rgehrsitz/homesim/internal/logging"
	"github.com/rgehrsitz/homesim/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [input-file]",
	Short: "Browse results interactively in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", configPath)
		}

		// The terminal belongs to the UI, so logs go to a file or nowhere
		var logger calculation.Logger = calculation.NopLogger{}
		if file, _ := cmd.Flags().GetString("log-file"); file != "" {
			cfg := logging.DefaultConfig()
			cfg.Level, _ = cmd.Flags().GetString("log-level")
			cfg.Format, _ = cmd.Flags().GetString("log-format")
			cfg.Output = file
			l, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer l.Close()
			logger = l
		}

		engine := calculation.NewEngine()
		engine.SetLogger(logger)
		model := tui.NewModel(configPath, engine, logger)

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	},
}
