package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// Edge selects which level transitions raise a pin-change interrupt.
type Edge uint8

const (
	EdgeRising Edge = iota + 1
	EdgeFalling
	EdgeBoth
)

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInput configures a pin as a floating digital input
	ConfigureInput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down resistor
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// ReadPin reads the current pin level. It must be safe to call from
	// an interrupt handler.
	ReadPin(pin GPIOPin) bool

	// SetPinInterrupt installs handler as the pin-change interrupt for pin.
	// A nil handler disables the interrupt. Handlers run in interrupt
	// context and must not block.
	SetPinInterrupt(pin GPIOPin, edge Edge, handler func()) error
}
