package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/config"
)

var (
	cfgFile string
	verbose bool
	asJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Wi-Fi threat assessor: network security scoring and speed measurement",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(speedtestCmd)
}

// loadConfig resolves the effective configuration: the --config file when
// given, otherwise built-in defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}
