package core

import "sync/atomic"

// Sampler turns the two direction pins into a LanternState.
//
// The state cell has a single writer (Update, called from the direction
// pin-change handler or the blink loop) and any number of readers.
type Sampler struct {
	gpio    GPIODriver
	reverse GPIOPin
	normal  GPIOPin
	policy  BothLowPolicy

	state uint32 // LanternState; atomic

	// onChange, if set, runs in the caller's context whenever Update
	// stores a different state. It must not block.
	onChange func(prev, next LanternState)
}

// NewSampler creates a sampler for the given pins. The initial state is
// StateError until the first Update.
func NewSampler(gpio GPIODriver, reverse, normal GPIOPin, policy BothLowPolicy) *Sampler {
	return &Sampler{
		gpio:    gpio,
		reverse: reverse,
		normal:  normal,
		policy:  policy,
		state:   uint32(StateError),
	}
}

// Update reads both pins, stores the resulting state and returns it.
func (s *Sampler) Update() LanternState {
	next := ResolveState(s.gpio.ReadPin(s.reverse), s.gpio.ReadPin(s.normal), s.policy)
	prev := LanternState(atomic.SwapUint32(&s.state, uint32(next)))
	if prev != next && s.onChange != nil {
		s.onChange(prev, next)
	}
	return next
}

// OnDirectionChange is the direction pin-change interrupt handler.
func (s *Sampler) OnDirectionChange() {
	s.Update()
}

// State returns the last stored state.
func (s *Sampler) State() LanternState {
	return LanternState(atomic.LoadUint32(&s.state))
}

// Policy returns the both-low policy in effect.
func (s *Sampler) Policy() BothLowPolicy {
	return s.policy
}
