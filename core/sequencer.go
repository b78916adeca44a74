package core

import "sync/atomic"

// Sequencer is the free-running waveform position, 0..WaveformSteps-1.
//
// Two handlers write it: the overflow tick (Advance) and the sync edge
// (Resync). Both take a critical section, so a resync can never interleave
// with a half-done advance.
type Sequencer struct {
	position uint32 // atomic; written only inside a critical section

	// phase is the periodic timer driving Advance; Resync restarts it.
	phase interface{ Reset() }

	advances uint32 // atomic
	resyncs  uint32 // atomic
}

// NewSequencer creates a sequencer at position 0.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// bind attaches the timer whose phase Resync resets.
func (s *Sequencer) bind(phase interface{ Reset() }) {
	s.phase = phase
}

// Advance moves to the next position, wrapping after the last step.
func (s *Sequencer) Advance() {
	cs := EnterCritical()
	p := atomic.LoadUint32(&s.position)
	atomic.StoreUint32(&s.position, (p+1)%WaveformSteps)
	cs.Exit()

	atomic.AddUint32(&s.advances, 1)
}

// Resync jumps back to position 0 and restarts the advance timer so the
// next Advance is one full period away.
func (s *Sequencer) Resync() {
	cs := EnterCritical()
	atomic.StoreUint32(&s.position, 0)
	if s.phase != nil {
		s.phase.Reset()
	}
	cs.Exit()

	atomic.AddUint32(&s.resyncs, 1)
}

// Position returns the current position.
func (s *Sequencer) Position() uint32 {
	return atomic.LoadUint32(&s.position)
}

// Advances returns the number of Advance calls so far.
func (s *Sequencer) Advances() uint32 {
	return atomic.LoadUint32(&s.advances)
}

// Resyncs returns the number of Resync calls so far.
func (s *Sequencer) Resyncs() uint32 {
	return atomic.LoadUint32(&s.resyncs)
}
