package sim

import (
	"errors"

	"lantern/core"
)

var ErrPinNotConfigured = errors.New("sim: PWM pin not configured")

// Board is a virtual RP2040: pin levels held in memory, interrupts invoked
// synchronously when Drive changes a level, and an 8-bit PWM register.
type Board struct {
	levels   map[core.GPIOPin]bool
	handlers map[core.GPIOPin]func()
	pwm      map[core.PWMPin]core.PWMValue

	// OnPinWrite is called for every SetPin, after the level is stored
	OnPinWrite func(pin core.GPIOPin, level bool)

	dutyWrites uint32
}

// NewBoard returns a board with every pin low.
func NewBoard() *Board {
	return &Board{
		levels:   make(map[core.GPIOPin]bool),
		handlers: make(map[core.GPIOPin]func()),
		pwm:      make(map[core.PWMPin]core.PWMValue),
	}
}

func (b *Board) ConfigureOutput(pin core.GPIOPin) error        { return nil }
func (b *Board) ConfigureInput(pin core.GPIOPin) error         { return nil }
func (b *Board) ConfigureInputPullUp(pin core.GPIOPin) error   { return nil }
func (b *Board) ConfigureInputPullDown(pin core.GPIOPin) error { return nil }

func (b *Board) SetPin(pin core.GPIOPin, level bool) error {
	b.levels[pin] = level
	if b.OnPinWrite != nil {
		b.OnPinWrite(pin, level)
	}
	return nil
}

func (b *Board) ReadPin(pin core.GPIOPin) bool {
	return b.levels[pin]
}

func (b *Board) SetPinInterrupt(pin core.GPIOPin, edge core.Edge, handler func()) error {
	if handler == nil {
		delete(b.handlers, pin)
		return nil
	}
	b.handlers[pin] = handler
	return nil
}

// Drive sets an input level the way external wiring would, firing the
// pin-change handler when the level actually changes.
func (b *Board) Drive(pin core.GPIOPin, level bool) {
	if b.levels[pin] == level {
		return
	}
	b.levels[pin] = level
	if h := b.handlers[pin]; h != nil {
		h()
	}
}

func (b *Board) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	b.pwm[pin] = 0
	return cycleTicks, nil
}

func (b *Board) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	if _, ok := b.pwm[pin]; !ok {
		return ErrPinNotConfigured
	}
	b.pwm[pin] = value
	b.dutyWrites++
	return nil
}

func (b *Board) GetMaxValue() uint32 {
	return 255
}

func (b *Board) DisablePWM(pin core.PWMPin) error {
	delete(b.pwm, pin)
	return nil
}

// Duty returns the current PWM register value for pin
func (b *Board) Duty(pin core.PWMPin) core.PWMValue {
	return b.pwm[pin]
}

// DutyWrites returns how many times the PWM register was written
func (b *Board) DutyWrites() uint32 {
	return b.dutyWrites
}
