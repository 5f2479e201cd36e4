package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "intellicor",
	Short: "INTELLICOR multi-tenant brokerage site",
	Long: `Serves the white-label landing pages, lead capture, chatbot and
role dashboards of every brokerage in the tenant registry.

Configuration comes from an optional .env file and environment variables.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to an env-format config file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, tenantsCmd, themeCmd, migrateCmd)
}

// loadConfig reads the config file from --config, or .env and the environment
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadWithPath(configPath)
	}
	return config.Load()
}

// initLogger installs the global logger for cfg
func initLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.App.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
		OutputPath:  "stdout",
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Get(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
