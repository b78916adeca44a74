package core

import "time"

// BlinkStep is one action of a blink pattern: drive or toggle the LED,
// then wait.
type BlinkStep struct {
	Toggle bool // toggle instead of driving Level
	Level  bool
	Delay  time.Duration
}

// BlinkPollInterval is how often a steady lantern re-reads its inputs.
const BlinkPollInterval = 10 * time.Millisecond

var (
	steadyPattern = []BlinkStep{{Level: true, Delay: BlinkPollInterval}}
	softPattern   = []BlinkStep{{Level: true, Delay: 20 * time.Millisecond}, {Level: false, Delay: 180 * time.Millisecond}}
	hardPattern   = []BlinkStep{{Toggle: true, Delay: 100 * time.Millisecond}}
	fastPattern   = []BlinkStep{{Toggle: true, Delay: 10 * time.Millisecond}}
)

// BlinkPattern returns the steps run for one iteration in state s:
// steady for Normal, a short flash per 200ms for Reverse, a 100ms
// square wave for Moving and a 10ms square wave for Error.
func BlinkPattern(s LanternState) []BlinkStep {
	switch s {
	case StateNormal:
		return steadyPattern
	case StateReverse:
		return softPattern
	case StateMoving:
		return hardPattern
	default:
		return fastPattern
	}
}

// Blinker is the polled lantern: each Step samples the direction pins and
// runs one iteration of the matching pattern on a plain GPIO output.
type Blinker struct {
	sampler *Sampler
	gpio    GPIODriver
	led     GPIOPin
	delay   func(time.Duration)
	level   bool
}

// NewBlinker creates a polled lantern. A nil delay uses time.Sleep.
func NewBlinker(cfg Config, gpio GPIODriver, delay func(time.Duration)) *Blinker {
	if delay == nil {
		delay = time.Sleep
	}
	return &Blinker{
		sampler: NewSampler(gpio, cfg.ReversePin, cfg.NormalPin, cfg.BothLow),
		gpio:    gpio,
		led:     cfg.LEDPin,
		delay:   delay,
	}
}

// Setup configures the direction inputs and the LED output.
func (b *Blinker) Setup(pullDown bool) error {
	if b.gpio == nil {
		return ErrNoGPIODriver
	}
	if err := configureInput(b.gpio, b.sampler.reverse, pullDown); err != nil {
		return err
	}
	if err := configureInput(b.gpio, b.sampler.normal, pullDown); err != nil {
		return err
	}
	return b.gpio.ConfigureOutput(b.led)
}

// Step samples the inputs and runs one pattern iteration.
func (b *Blinker) Step() LanternState {
	state := b.sampler.Update()
	for _, step := range BlinkPattern(state) {
		if step.Toggle {
			b.level = !b.level
		} else {
			b.level = step.Level
		}
		_ = b.gpio.SetPin(b.led, b.level)
		b.delay(step.Delay)
	}
	return state
}

// Run loops forever.
func (b *Blinker) Run() {
	for {
		b.Step()
	}
}

// State returns the state seen by the last Step.
func (b *Blinker) State() LanternState {
	return b.sampler.State()
}
