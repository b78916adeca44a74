//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"lantern/core"
	"lantern/protocol"
)

// Board wiring
const (
	reversePin core.GPIOPin = 2
	normalPin  core.GPIOPin = 3
	syncPin    core.GPIOPin = 4
	ledPin     core.GPIOPin = 25 // on-board LED, PWM slice 4 channel B
	pixelPin                = machine.GPIO16
)

// debugOutput turns on println diagnostics and periodic event ring dumps
const debugOutput = false

// eventDumpTicks is the interval between event ring dumps
var eventDumpTicks = core.TimerFromUS(5000000)

var (
	// Debug counters
	loopPanics uint32
	bootErrors uint32
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	core.SetDebugWriter(func(msg string) { println(msg) })
	core.SetDebugEnabled(debugOutput)
	core.InitAsyncDebug()
	UpdateSystemTime()

	cfg := boardConfig(GetMode())
	core.DebugAsync("lantern " + protocol.Version + " mode=" + cfg.Mode.String())
	gpio := NewRPGPIODriver()

	if cfg.Mode == core.ModeBlink {
		runBlink(cfg, gpio)
		return
	}
	runPWMSync(cfg, gpio)
}

func boardConfig(mode core.Mode) core.Config {
	cfg := core.DefaultConfig()
	if mode == core.ModeBlink {
		cfg = core.DefaultBlinkConfig()
	}
	cfg.ReversePin = reversePin
	cfg.NormalPin = normalPin
	cfg.SyncPin = syncPin
	cfg.LEDPin = ledPin
	cfg.PullDown = true
	return cfg
}

func runBlink(cfg core.Config, gpio *RPGPIODriver) {
	b := core.NewBlinker(cfg, gpio, nil)
	if err := b.Setup(cfg.PullDown); err != nil {
		bootErrors++
		core.DebugPrintln("blink setup failed: " + err.Error())
	}
	b.Run()
}

func runPWMSync(cfg core.Config, gpio *RPGPIODriver) {
	sched := core.NewScheduler(nil)
	lantern := core.NewLantern(cfg, gpio, NewRP2040PWMDriver(), sched)
	lantern.AttachTelemetry(initTelemetry())

	if err := lantern.Start(); err != nil {
		// Keep the loop alive with the LED off so telemetry still shows
		// the zero refresh count.
		bootErrors++
		core.DebugPrintln("lantern start failed: " + err.Error())
	}

	pixel := newPixelMirror(pixelPin)
	nextDump := sched.Now() + eventDumpTicks

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
				}
			}()

			UpdateSystemTime()
			sched.Dispatch()
			lantern.TelemetryTask()

			snap := lantern.Snapshot()
			pixel.Show(uint8(snap.State), lantern.LastDuty(), lantern.MaxDuty())

			if core.IsDebugEnabled() && int32(sched.Now()-nextDump) >= 0 {
				nextDump += eventDumpTicks
				core.DumpEventRing()
				core.ClearEventRing()
			}
		}()

		// Yield to other goroutines
		time.Sleep(10 * time.Microsecond)
	}
}
