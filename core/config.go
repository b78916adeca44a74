package core

// Mode selects which lantern program runs.
type Mode uint8

const (
	// ModePWMSync drives the LED with a waveform synchronized to the clock pin.
	ModePWMSync Mode = iota
	// ModeBlink polls the direction pins and blinks the LED with fixed delays.
	ModeBlink
)

func (m Mode) String() string {
	if m == ModeBlink {
		return "blink"
	}
	return "pwm_sync"
}

// Config holds the lantern's compile-time settings. Targets start from
// DefaultConfig and fill in their pin numbers.
type Config struct {
	Mode Mode

	// Inputs
	ReversePin GPIOPin
	NormalPin  GPIOPin
	SyncPin    GPIOPin
	PullDown   bool // enable pull-downs on the three inputs

	// Output
	LEDPin GPIOPin

	// PWMCycleTicks is the hardware PWM period
	PWMCycleTicks uint32
	// RefreshTicks is the compare-match period: how often the duty
	// register is rewritten
	RefreshTicks uint32
	// StepTicks is the overflow period: how long each waveform position lasts
	StepTicks uint32

	// BothLow decides what "neither direction pin active" means
	BothLow BothLowPolicy

	// TelemetryTicks is the interval between periodic stats reports;
	// 0 disables them
	TelemetryTicks uint32
}

// DefaultConfig returns the settings the lantern ships with: a 1kHz PWM
// carrier refreshed every millisecond and a one second waveform cycle.
func DefaultConfig() Config {
	return Config{
		Mode:           ModePWMSync,
		PWMCycleTicks:  TimerFromUS(1000),
		RefreshTicks:   TimerFromUS(1000),
		StepTicks:      TimerFromUS(62500),
		BothLow:        BothLowError,
		TelemetryTicks: TimerFromUS(1000000),
	}
}

// DefaultBlinkConfig returns the settings for the polled blink lantern,
// which reads both-low as "moving".
func DefaultBlinkConfig() Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeBlink
	cfg.BothLow = BothLowMoving
	return cfg
}

// applyDefaults fills in missing timing values with the defaults
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.PWMCycleTicks == 0 {
		cfg.PWMCycleTicks = def.PWMCycleTicks
	}
	if cfg.RefreshTicks == 0 {
		cfg.RefreshTicks = def.RefreshTicks
	}
	if cfg.StepTicks == 0 {
		cfg.StepTicks = def.StepTicks
	}
}
