package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lantern/core"
	"lantern/host/monitor"
	"lantern/host/sim"
)

var (
	simOpts = struct {
		state      string
		blink      bool
		bothLow    string
		duration   time.Duration
		syncPeriod time.Duration
		sample     time.Duration
		telemetry  bool
	}{}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run the lantern against virtual pins and print the output trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := parseState(simOpts.state)
			if err != nil {
				return err
			}
			policy, err := parsePolicy(simOpts.bothLow)
			if err != nil {
				return err
			}

			sc := sim.Scenario{
				BothLow:     policy,
				Inputs:      []sim.InputChange{sim.InputsFor(state)},
				Duration:    simOpts.duration,
				SyncPeriod:  simOpts.syncPeriod,
				SampleEvery: simOpts.sample,
			}
			if simOpts.blink {
				sc.Mode = core.ModeBlink
			}

			// Telemetry goes through the same decoder the monitor uses.
			var tm *monitor.Monitor
			if simOpts.telemetry {
				tm = monitor.New(nil, os.Stderr, logger)
				sc.Telemetry = telemetrySink{tm}
			}

			logger.Debug("simulating", "mode", sc.Mode, "state", state, "both_low", simOpts.bothLow,
				"duration", sc.Duration, "sync", sc.SyncPeriod)

			trace, err := sim.Run(sc)
			if err != nil {
				return err
			}
			for _, s := range trace {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
)

func init() {
	f := simulateCmd.Flags()
	f.StringVarP(&simOpts.state, "state", "s", "reverse", "direction input: normal, reverse, moving (both low) or error (both high)")
	f.BoolVar(&simOpts.blink, "blink", false, "simulate the polled blink lantern instead of the PWM lantern")
	f.StringVar(&simOpts.bothLow, "both-low", "", "meaning of both pins low: error or moving (default: error for PWM, moving for blink)")
	f.DurationVarP(&simOpts.duration, "duration", "d", time.Second, "simulated run time")
	f.DurationVar(&simOpts.syncPeriod, "sync-period", 0, "interval between sync pulses (0 = none)")
	f.DurationVar(&simOpts.sample, "sample", 0, "trace interval in PWM mode (0 = once per waveform step)")
	f.BoolVarP(&simOpts.telemetry, "telemetry", "t", false, "decode the simulated telemetry stream to stderr")
}

// telemetrySink feeds simulated telemetry straight into a monitor
type telemetrySink struct {
	m *monitor.Monitor
}

func (t telemetrySink) Write(p []byte) (int, error) {
	if _, err := t.m.Process(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func parseState(s string) (core.LanternState, error) {
	for _, st := range []core.LanternState{core.StateNormal, core.StateReverse, core.StateMoving, core.StateError} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", s)
}

func parsePolicy(s string) (core.BothLowPolicy, error) {
	switch s {
	case "":
		if simOpts.blink {
			return core.BothLowMoving, nil
		}
		return core.BothLowError, nil
	case "error":
		return core.BothLowError, nil
	case "moving":
		return core.BothLowMoving, nil
	}
	return 0, fmt.Errorf("unknown both-low policy %q", s)
}
