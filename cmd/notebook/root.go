package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/notebook"
)

var (
	configPath string
	dbPath     string
	bodyFormat string
	logLevel   string

	logger *slog.Logger
	nb     *notebook.Notebook
)

var rootCmd = &cobra.Command{
	Use:           "notebook",
	Short:         "Rich note editor backend: storage, Markdown and PDF export",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
		slog.SetDefault(logger)

		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		nb, err = notebook.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if nb == nil {
			return nil
		}
		return nb.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to notebook.yaml config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&bodyFormat, "format", "", "note body format: html or markdown (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveConfig() (*notebook.Config, error) {
	cfg := &notebook.Config{}
	if configPath != "" {
		loaded, err := notebook.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if bodyFormat != "" {
		cfg.BodyFormat = bodyFormat
	}
	return cfg, nil
}
