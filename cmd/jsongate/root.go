package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/jsongate/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	configFile   string
	strategyFlag string
	portFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "jsongate",
	Short: "jsongate is an HTTP service with JSON request admission",
	Long: `jsongate rejects every request to a JSON endpoint whose Content-Type is not
exactly application/json or whose body is not a single valid JSON value.

Configuration is read from an optional YAML file, then JSONGATE_* environment
variables, then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&strategyFlag, "strategy", "", "admission strategy: gateway or guard (overrides config)")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "HTTP port (overrides config)")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(
		config.WithConfigFile(configFile),
		config.WithOverrides(map[string]any{
			"admission.strategy": strategyFlag,
			"server.port":        portFlag,
		}),
	)
}
