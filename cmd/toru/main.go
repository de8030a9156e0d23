package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"toru/internal/config"
	"toru/internal/debuglog"
	"toru/internal/history"
	"toru/internal/tui"
)

// Version is set at build time.
var Version = "dev"

var (
	flagConfig         string
	flagGenerateConfig bool
)

var rootCmd = &cobra.Command{
	Use:           "toru",
	Short:         "Browse and download from torrent indexes in the terminal",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		if flagGenerateConfig {
			path := flagConfig
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			fmt.Printf("Generated default configuration at: %s\n", path)
			return nil
		}
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to configuration file")
	rootCmd.Flags().BoolVar(&flagGenerateConfig, "generate-config", false, "write the default config file and exit")
}

func run() error {
	// A broken config never aborts startup; the error is shown in-app
	// over the defaults.
	cfg, cfgErr := config.Load(flagConfig)

	if level := debuglog.ParseLogLevel(cfg.Log.Level); level != debuglog.LevelOff {
		if err := debuglog.Setup(level, cfg.Log.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		defer debuglog.Close()
	}

	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.NewStore(cfg.History.Path)
		if err != nil {
			debuglog.Warnf("history disabled: %v", err)
		} else {
			defer store.Close()
		}
	}

	configPath := flagConfig
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	app, err := tui.NewApp(cfg, configPath, store, cfgErr)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
