package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lantern/host/monitor"
	"lantern/host/serial"
)

var (
	monitorOpts = struct {
		device string
		baud   int
	}{}

	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Print lantern telemetry from a serial port",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serial.DefaultConfig(monitorOpts.device)
			cfg.Baud = monitorOpts.baud

			port, err := serial.Open(cfg)
			if err != nil {
				return err
			}
			defer port.Close()

			if err := port.Flush(); err != nil {
				logger.Debug("flush failed", "err", err)
			}
			logger.Info("monitoring", "device", cfg.Device, "baud", cfg.Baud)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			m := monitor.New(port, cmd.OutOrStdout(), logger)
			m.StopOnEOF = false
			err = m.Run(ctx)

			reports, decodeErrs, lost, corrupt := m.Stats()
			logger.Info("monitor stopped", "reports", reports, "decode_errors", decodeErrs,
				"lost", lost, "corrupt", corrupt)
			return err
		},
	}
)

func init() {
	monitorCmd.Flags().StringVarP(&monitorOpts.device, "device", "d", "/dev/ttyACM0", "serial device path")
	monitorCmd.Flags().IntVarP(&monitorOpts.baud, "baud", "b", 115200, "baud rate (ignored for USB CDC)")
}
