// Package sim runs the lantern firmware logic on the host against a
// virtual board and a virtual microsecond clock.
package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"lantern/core"
)

// Pin assignments of the simulated board, matching the RP2040 target
const (
	ReversePin core.GPIOPin = 2
	NormalPin  core.GPIOPin = 3
	SyncPin    core.GPIOPin = 4
	LEDPin     core.GPIOPin = 25
)

// MaxDuration is the longest span the wrapping 32-bit microsecond clock
// can order correctly.
const MaxDuration = time.Duration(math.MaxInt32) * time.Microsecond

var ErrDurationTooLong = errors.New("sim: duration exceeds MaxDuration")

// syncPulse is how long the sync line stays high per clock pulse
const syncPulse = time.Millisecond

// InputChange sets both direction pins at a point in simulated time.
type InputChange struct {
	At      time.Duration
	Reverse bool
	Normal  bool
}

// Scenario describes one simulated run.
type Scenario struct {
	Mode    core.Mode
	BothLow core.BothLowPolicy

	Inputs   []InputChange
	Duration time.Duration

	// SyncPeriod is the interval between sync pulses; 0 leaves the line low
	SyncPeriod time.Duration

	// SampleEvery is the trace interval in PWM mode; 0 samples once per
	// waveform step. Samples are taken in the middle of each interval.
	SampleEvery time.Duration

	// Telemetry, when set, receives the framed reports the firmware would
	// send over USB
	Telemetry io.Writer
}

// InputsFor returns pin levels that produce state s. Moving is both pins
// low, which only reads as Moving under BothLowMoving.
func InputsFor(s core.LanternState) InputChange {
	switch s {
	case core.StateNormal:
		return InputChange{Normal: true}
	case core.StateReverse:
		return InputChange{Reverse: true}
	case core.StateMoving:
		return InputChange{}
	default:
		return InputChange{Reverse: true, Normal: true}
	}
}

// Sample is one point of the output trace.
type Sample struct {
	At       time.Duration
	State    core.LanternState
	Position uint32
	Duty     uint32 // PWM register, or 0/255 for the blink LED
}

func (s Sample) String() string {
	return fmt.Sprintf("%9s  %-7s pos=%-2d duty=%3d", s.At, s.State, s.Position, s.Duty)
}

// clock is the virtual microsecond counter shared by the scheduler
type clock struct {
	now uint32
}

func (c *clock) ticks() uint32 { return c.now }

func (c *clock) at() time.Duration {
	return time.Duration(core.TimerToUS(c.now)) * time.Microsecond
}

func toTicks(d time.Duration) uint32 {
	return core.TimerFromUS(uint32(d / time.Microsecond))
}

func before(a, b uint32) bool {
	return int32(a-b) < 0
}

func config(sc Scenario) core.Config {
	var cfg core.Config
	if sc.Mode == core.ModeBlink {
		cfg = core.DefaultBlinkConfig()
	} else {
		cfg = core.DefaultConfig()
	}
	cfg.BothLow = sc.BothLow
	cfg.ReversePin = ReversePin
	cfg.NormalPin = NormalPin
	cfg.SyncPin = SyncPin
	cfg.LEDPin = LEDPin
	cfg.PullDown = true
	return cfg
}

func sortedInputs(sc Scenario) []InputChange {
	inputs := append([]InputChange(nil), sc.Inputs...)
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].At < inputs[j].At })
	return inputs
}

// Run executes the scenario and returns the output trace.
func Run(sc Scenario) ([]Sample, error) {
	if err := checkSpans(sc); err != nil {
		return nil, err
	}
	if sc.Mode == core.ModeBlink {
		return runBlink(sc)
	}
	return runPWM(sc)
}

func checkSpans(sc Scenario) error {
	spans := []time.Duration{sc.Duration, sc.SyncPeriod, sc.SampleEvery}
	for _, in := range sc.Inputs {
		spans = append(spans, in.At)
	}
	for _, d := range spans {
		if d < 0 || d > MaxDuration {
			return fmt.Errorf("%w: %v", ErrDurationTooLong, d)
		}
	}
	return nil
}

func runPWM(sc Scenario) ([]Sample, error) {
	cfg := config(sc)
	clk := &clock{}
	sched := core.NewScheduler(clk.ticks)
	board := NewBoard()
	inputs := sortedInputs(sc)

	// Levels present at power-on are read by Start.
	for len(inputs) > 0 && inputs[0].At <= 0 {
		board.Drive(ReversePin, inputs[0].Reverse)
		board.Drive(NormalPin, inputs[0].Normal)
		inputs = inputs[1:]
	}

	l := core.NewLantern(cfg, board, board, sched)
	if sc.Telemetry != nil {
		l.AttachTelemetry(sc.Telemetry)
	}
	if err := l.Start(); err != nil {
		return nil, fmt.Errorf("lantern start failed: %w", err)
	}
	defer l.Stop()

	end := toTicks(sc.Duration)
	sampleEvery := toTicks(sc.SampleEvery)
	if sampleEvery == 0 {
		sampleEvery = cfg.StepTicks
	}
	syncPeriod := toTicks(sc.SyncPeriod)
	pulse := toTicks(syncPulse)

	nextSample := sampleEvery / 2
	nextSync := syncPeriod
	syncHigh := false

	var trace []Sample
	for {
		// Pick the earliest pending event.
		next := end
		if wake, ok := sched.Pending(); ok && before(wake, next) {
			next = wake
		}
		if before(nextSample, next) {
			next = nextSample
		}
		if syncPeriod != 0 && before(nextSync, next) {
			next = nextSync
		}
		if len(inputs) > 0 {
			if at := toTicks(inputs[0].At); before(at, next) {
				next = at
			}
		}
		if before(end, next) {
			break
		}
		clk.now = next

		for len(inputs) > 0 && !before(clk.now, toTicks(inputs[0].At)) {
			board.Drive(ReversePin, inputs[0].Reverse)
			board.Drive(NormalPin, inputs[0].Normal)
			inputs = inputs[1:]
		}

		if syncPeriod != 0 && clk.now == nextSync {
			if syncHigh {
				board.Drive(SyncPin, false)
				nextSync += syncPeriod - pulse
			} else {
				board.Drive(SyncPin, true)
				nextSync += pulse
			}
			syncHigh = !syncHigh
		}

		sched.Dispatch()
		l.TelemetryTask()

		if clk.now == nextSample {
			trace = append(trace, Sample{
				At:       clk.at(),
				State:    l.State(),
				Position: l.Position(),
				Duty:     uint32(board.Duty(core.PWMPin(LEDPin))),
			})
			nextSample += sampleEvery
		}

		if clk.now == end {
			break
		}
	}
	return trace, nil
}

func runBlink(sc Scenario) ([]Sample, error) {
	cfg := config(sc)
	clk := &clock{}
	board := NewBoard()
	inputs := sortedInputs(sc)
	end := toTicks(sc.Duration)

	var (
		trace []Sample
		b     *core.Blinker
	)
	board.OnPinWrite = func(pin core.GPIOPin, level bool) {
		if pin != LEDPin {
			return
		}
		var duty uint32
		if level {
			duty = 255
		}
		trace = append(trace, Sample{At: clk.at(), State: b.State(), Duty: duty})
	}

	b = core.NewBlinker(cfg, board, func(d time.Duration) {
		clk.now += toTicks(d)
	})
	if err := b.Setup(cfg.PullDown); err != nil {
		return nil, fmt.Errorf("blinker setup failed: %w", err)
	}

	for before(clk.now, end) {
		for len(inputs) > 0 && !before(clk.now, toTicks(inputs[0].At)) {
			board.Drive(ReversePin, inputs[0].Reverse)
			board.Drive(NormalPin, inputs[0].Normal)
			inputs = inputs[1:]
		}
		b.Step()
	}
	return trace, nil
}
