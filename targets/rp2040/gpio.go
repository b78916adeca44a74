//go:build rp2040 || rp2350

package main

import (
	"machine"

	"lantern/core"
)

// RPGPIODriver implements the GPIODriver interface for RP2040/RP2350.
// Pins map directly to GPIO numbers.
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if _, exists := d.configuredPins[pin]; exists {
		// Already configured, this is OK
		return nil
	}
	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: mode})
	d.configuredPins[pin] = machinePin
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

func (d *RPGPIODriver) ConfigureInput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInput)
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

func (d *RPGPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPulldown)
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		// Pin isn't configured - configure it first
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		machinePin = d.configuredPins[pin]
	}

	machinePin.Set(value)
	return nil
}

// ReadPin reads the pin level straight from the SIO register; it runs in
// pin-change interrupts, so no map lookup.
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}

// SetPinInterrupt routes the pin's edge interrupt to handler
func (d *RPGPIODriver) SetPinInterrupt(pin core.GPIOPin, edge core.Edge, handler func()) error {
	machinePin := machine.Pin(pin)
	if handler == nil {
		return machinePin.SetInterrupt(0, nil)
	}

	var change machine.PinChange
	switch edge {
	case core.EdgeRising:
		change = machine.PinRising
	case core.EdgeFalling:
		change = machine.PinFalling
	default:
		change = machine.PinToggle
	}
	return machinePin.SetInterrupt(change, func(machine.Pin) { handler() })
}
