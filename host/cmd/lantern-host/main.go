package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	verbose bool
	logger  *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "lantern-host",
		Short: "Host tool for the signal lantern firmware",
		Long:  "Monitor lantern telemetry over a serial port, list ports, or simulate the lantern on this machine.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(portsCmd, monitorCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
