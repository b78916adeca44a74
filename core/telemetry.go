package core

import (
	"io"
	"sync/atomic"

	"lantern/protocol"
)

// telemetry frames lantern reports for the host monitor. It runs from the
// main loop only; interrupt handlers just raise flags and bump counters.
type telemetry struct {
	out     io.Writer
	scratch *protocol.ScratchOutput
	enc     *protocol.Encoder

	booted      bool
	lastResyncs uint32
	nextStats   uint32

	// dropped counts flushes lost to a failed write or an overflowed
	// scratch buffer
	dropped uint32
}

// AttachTelemetry sends reports to w from TelemetryTask.
func (l *Lantern) AttachTelemetry(w io.Writer) {
	scratch := protocol.NewScratchOutput()
	l.telemetry = &telemetry{
		out:       w,
		scratch:   scratch,
		enc:       protocol.NewEncoder(scratch),
		nextStats: l.sched.Now() + l.cfg.TelemetryTicks,
	}
	// Report the boot state once the monitor is listening.
	atomic.StoreUint32(&l.stateDirty, 1)
}

// TelemetryTask emits pending reports. Call it from the main loop.
func (l *Lantern) TelemetryTask() {
	t := l.telemetry
	if t == nil {
		return
	}

	if !t.booted {
		t.booted = true
		protocol.BootReport{Version: protocol.Version, Mode: uint8(l.cfg.Mode)}.Encode(t.enc)
	}

	if atomic.SwapUint32(&l.stateDirty, 0) != 0 {
		snap := l.Snapshot()
		protocol.StateReport{
			State:    uint8(snap.State),
			Position: uint8(snap.Position),
			Duty:     l.dutyFor(snap),
		}.Encode(t.enc)
	}

	// Sync edges arrive many times a second; report them coalesced.
	if resyncs := l.seq.Resyncs(); resyncs != t.lastResyncs {
		t.lastResyncs = resyncs
		protocol.ResyncReport{Count: resyncs}.Encode(t.enc)
	}

	if l.cfg.TelemetryTicks != 0 {
		now := l.sched.Now()
		if !timerIsBefore(now, t.nextStats) {
			t.nextStats = now + l.cfg.TelemetryTicks
			advances, refreshes, driverErrors := l.Stats()
			protocol.StatsReport{
				Advances:        advances,
				Refreshes:       refreshes,
				DriverErrors:    driverErrors,
				TelemetryErrors: t.dropped,
			}.Encode(t.enc)
		}
	}

	t.flush()
}

// TelemetryErrors returns how many flushes were dropped
func (l *Lantern) TelemetryErrors() uint32 {
	if l.telemetry == nil {
		return 0
	}
	return l.telemetry.dropped
}

// flush writes the pending frames. An overflowed buffer ends in a cut-off
// frame, so it is discarded instead.
func (t *telemetry) flush() {
	defer t.scratch.Reset()

	if t.scratch.Overflowed() {
		t.dropped++
		return
	}
	result := t.scratch.Result()
	if len(result) == 0 {
		return
	}
	if _, err := t.out.Write(result); err != nil {
		t.dropped++
	}
}
