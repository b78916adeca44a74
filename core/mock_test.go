package core

import (
	"errors"
	"time"
)

var (
	errMockPWM = errors.New("mock pwm failure")
	errMockIRQ = errors.New("mock interrupt failure")
)

// mockBoard implements GPIODriver and PWMDriver for testing
type mockBoard struct {
	levels     map[GPIOPin]bool
	inputs     map[GPIOPin]string
	outputs    map[GPIOPin]bool
	handlers   map[GPIOPin]func()
	pwmCycles  map[PWMPin]uint32
	duties     []PWMValue
	pinWrites  []bool
	failPWM    bool
	failIRQ    GPIOPin // SetPinInterrupt fails for this pin when irqFails is set
	irqFails   bool
	maxValue   uint32
	configured map[PWMPin]bool
}

func newMockBoard() *mockBoard {
	return &mockBoard{
		levels:     make(map[GPIOPin]bool),
		inputs:     make(map[GPIOPin]string),
		outputs:    make(map[GPIOPin]bool),
		handlers:   make(map[GPIOPin]func()),
		pwmCycles:  make(map[PWMPin]uint32),
		configured: make(map[PWMPin]bool),
		maxValue:   255,
	}
}

func (m *mockBoard) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

func (m *mockBoard) ConfigureInput(pin GPIOPin) error {
	m.inputs[pin] = "none"
	return nil
}

func (m *mockBoard) ConfigureInputPullUp(pin GPIOPin) error {
	m.inputs[pin] = "up"
	return nil
}

func (m *mockBoard) ConfigureInputPullDown(pin GPIOPin) error {
	m.inputs[pin] = "down"
	return nil
}

func (m *mockBoard) SetPin(pin GPIOPin, value bool) error {
	m.levels[pin] = value
	m.pinWrites = append(m.pinWrites, value)
	return nil
}

func (m *mockBoard) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

func (m *mockBoard) SetPinInterrupt(pin GPIOPin, edge Edge, handler func()) error {
	if handler == nil {
		delete(m.handlers, pin)
		return nil
	}
	if m.irqFails && pin == m.failIRQ {
		return errMockIRQ
	}
	m.handlers[pin] = handler
	return nil
}

// drive sets an input level and fires its pin-change handler if it changed
func (m *mockBoard) drive(pin GPIOPin, level bool) {
	if m.levels[pin] == level {
		return
	}
	m.levels[pin] = level
	if h := m.handlers[pin]; h != nil {
		h()
	}
}

func (m *mockBoard) ConfigureHardwarePWM(pin PWMPin, cycleTicks uint32) (uint32, error) {
	m.pwmCycles[pin] = cycleTicks
	m.configured[pin] = true
	return cycleTicks, nil
}

func (m *mockBoard) SetDutyCycle(pin PWMPin, value PWMValue) error {
	if m.failPWM {
		return errMockPWM
	}
	m.duties = append(m.duties, value)
	return nil
}

func (m *mockBoard) GetMaxValue() uint32 {
	return m.maxValue
}

func (m *mockBoard) DisablePWM(pin PWMPin) error {
	delete(m.configured, pin)
	return nil
}

func (m *mockBoard) lastDuty() PWMValue {
	if len(m.duties) == 0 {
		return 0
	}
	return m.duties[len(m.duties)-1]
}

// virtualClock is a settable tick source for Scheduler
type virtualClock struct {
	now uint32
}

func (c *virtualClock) Now() uint32 {
	return c.now
}

// runUntil advances the clock to t, dispatching every timer on the way
func (c *virtualClock) runUntil(s *Scheduler, t uint32) {
	for {
		wake, ok := s.Pending()
		if !ok || timerIsBefore(t, wake) {
			break
		}
		c.now = wake
		s.Dispatch()
	}
	c.now = t
	s.Dispatch()
}

// recordDelays collects the delays requested by a Blinker
type recordDelays struct {
	delays []time.Duration
}

func (r *recordDelays) sleep(d time.Duration) {
	r.delays = append(r.delays, d)
}

const (
	testReversePin GPIOPin = 0
	testNormalPin  GPIOPin = 1
	testSyncPin    GPIOPin = 9
	testLEDPin     GPIOPin = 2
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ReversePin = testReversePin
	cfg.NormalPin = testNormalPin
	cfg.SyncPin = testSyncPin
	cfg.LEDPin = testLEDPin
	return cfg
}
