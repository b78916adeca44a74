//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"lantern/core"
)

// PWM_MAX is the full-scale duty value handed to the lantern
const PWM_MAX = 255

var errPWMNotConfigured = errors.New("pwm: pin not configured")

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmChannel is a configured pin: its slice and channel within the slice
type pwmChannel struct {
	slice   pwmPeripheral
	channel uint8
}

// RP2040PWMDriver implements the PWMDriver interface for RP2040.
// GPIO N drives slice (N>>1)&7, channel A for even pins and B for odd.
type RP2040PWMDriver struct {
	channels map[core.PWMPin]pwmChannel
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		channels: make(map[core.PWMPin]pwmChannel),
	}
}

// GetMaxValue returns the maximum PWM value (255)
func (d *RP2040PWMDriver) GetMaxValue() uint32 {
	return PWM_MAX
}

// ConfigureHardwarePWM configures a pin for hardware PWM output with a
// period of cycleTicks microsecond timer ticks.
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	slice := getPWMPeripheral(uint8((uint32(pin) >> 1) & 0x7))

	period := uint64(core.TimerToUS(cycleTicks)) * 1000
	if err := slice.Configure(machine.PWMConfig{Period: period}); err != nil {
		return 0, err
	}

	channel, err := slice.Channel(machine.Pin(pin))
	if err != nil {
		return 0, err
	}

	d.channels[pin] = pwmChannel{slice: slice, channel: channel}
	return cycleTicks, nil
}

// SetDutyCycle sets the PWM duty cycle for a pin
// value: 0 (fully off) to 255 (fully on)
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	ch, exists := d.channels[pin]
	if !exists {
		return errPWMNotConfigured
	}
	if value > PWM_MAX {
		value = PWM_MAX
	}

	// Scale 0-255 to the slice's 0-Top() compare range
	ch.slice.Set(ch.channel, uint32(value)*ch.slice.Top()/PWM_MAX)
	return nil
}

// DisablePWM drives the pin low and forgets it. TinyGo has no way to hand
// the pin back to SIO, so it stays in PWM mode at zero duty.
func (d *RP2040PWMDriver) DisablePWM(pin core.PWMPin) error {
	ch, exists := d.channels[pin]
	if !exists {
		return nil
	}
	ch.slice.Set(ch.channel, 0)
	delete(d.channels, pin)
	return nil
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
