package core

import (
	"errors"
	"sync/atomic"
)

var (
	ErrNoPWMDriver  = errors.New("lantern: PWM driver not configured")
	ErrNoGPIODriver = errors.New("lantern: GPIO driver not configured")
)

// Snapshot is a consistent view of the state the PWM driver reads.
type Snapshot struct {
	State    LanternState
	Position uint32
}

// Lantern owns every piece of shared lantern state. Each field has one
// writer:
//
//   - sampler.state: direction pin-change handler
//   - seq.position: overflow tick and sync pin-change handler, always
//     inside a critical section
//   - lastDuty, refreshes, driverErrors: compare-match tick
//
// The compare-match tick is the only code that writes the duty register.
type Lantern struct {
	cfg   Config
	gpio  GPIODriver
	pwm   PWMDriver
	sched *Scheduler

	sampler *Sampler
	seq     *Sequencer
	refresh *PeriodicTimer // compare-match tick
	step    *PeriodicTimer // overflow tick

	maxDuty uint32

	lastDuty     uint32 // atomic
	refreshes    uint32 // atomic
	driverErrors uint32 // atomic

	stateDirty uint32 // atomic; set by the sampler, cleared by TelemetryTask
	telemetry  *telemetry
}

// NewLantern wires the PWM-synchronized lantern. Nothing touches the
// hardware until Start.
func NewLantern(cfg Config, gpio GPIODriver, pwm PWMDriver, sched *Scheduler) *Lantern {
	applyDefaults(&cfg)
	l := &Lantern{
		cfg:   cfg,
		gpio:  gpio,
		pwm:   pwm,
		sched: sched,
		seq:   NewSequencer(),
	}
	l.sampler = NewSampler(gpio, cfg.ReversePin, cfg.NormalPin, cfg.BothLow)
	l.sampler.onChange = l.stateChanged
	l.refresh = NewPeriodicTimer(sched, cfg.RefreshTicks, l.RefreshDuty)
	l.step = NewPeriodicTimer(sched, cfg.StepTicks, l.seq.Advance)
	l.seq.bind(l.step)
	return l
}

// Start configures the pins, the PWM output and both periodic ticks, then
// enables the pin-change interrupts. If an interrupt cannot be installed,
// everything is stopped again and the LED is left off.
func (l *Lantern) Start() error {
	if l.gpio == nil {
		return ErrNoGPIODriver
	}
	if l.pwm == nil {
		return ErrNoPWMDriver
	}

	for _, pin := range []GPIOPin{l.cfg.ReversePin, l.cfg.NormalPin, l.cfg.SyncPin} {
		if err := configureInput(l.gpio, pin, l.cfg.PullDown); err != nil {
			return err
		}
	}

	if _, err := l.pwm.ConfigureHardwarePWM(PWMPin(l.cfg.LEDPin), l.cfg.PWMCycleTicks); err != nil {
		return err
	}
	l.maxDuty = l.pwm.GetMaxValue()

	// Take the initial reading before interrupts can race with it.
	l.sampler.Update()
	l.RefreshDuty()

	l.refresh.Start()
	l.step.Start()

	if err := l.enableInterrupts(); err != nil {
		l.Stop()
		return err
	}

	RecordEvent(EvtBoot, l.sched.Now(), uint32(l.cfg.Mode), 0)
	return nil
}

func (l *Lantern) enableInterrupts() error {
	if err := l.gpio.SetPinInterrupt(l.cfg.ReversePin, EdgeBoth, l.sampler.OnDirectionChange); err != nil {
		return err
	}
	if err := l.gpio.SetPinInterrupt(l.cfg.NormalPin, EdgeBoth, l.sampler.OnDirectionChange); err != nil {
		return err
	}
	return l.gpio.SetPinInterrupt(l.cfg.SyncPin, EdgeBoth, l.OnSyncEdge)
}

// Stop disables the interrupts and ticks and drives the LED off.
func (l *Lantern) Stop() {
	for _, pin := range []GPIOPin{l.cfg.ReversePin, l.cfg.NormalPin, l.cfg.SyncPin} {
		_ = l.gpio.SetPinInterrupt(pin, EdgeBoth, nil)
	}
	l.refresh.Stop()
	l.step.Stop()
	_ = l.pwm.SetDutyCycle(PWMPin(l.cfg.LEDPin), 0)
	atomic.StoreUint32(&l.lastDuty, 0)
}

// OnSyncEdge is the sync pin-change handler. Only a high level resyncs;
// the falling half of the clock pulse is ignored.
func (l *Lantern) OnSyncEdge() {
	if !l.gpio.ReadPin(l.cfg.SyncPin) {
		return
	}
	from := l.seq.Position()
	l.seq.Resync()
	RecordEvent(EvtResync, l.sched.Now(), from, 0)
}

// Snapshot reads state and position together so the PWM driver never sees
// one updated without the other.
func (l *Lantern) Snapshot() Snapshot {
	cs := EnterCritical()
	snap := Snapshot{State: l.sampler.State(), Position: l.seq.Position()}
	cs.Exit()
	return snap
}

// RefreshDuty is the compare-match handler: look up the duty for the
// current state and position and write it to the PWM register.
func (l *Lantern) RefreshDuty() {
	duty := l.dutyFor(l.Snapshot())

	if err := l.pwm.SetDutyCycle(PWMPin(l.cfg.LEDPin), PWMValue(duty)); err != nil {
		atomic.AddUint32(&l.driverErrors, 1)
		RecordEvent(EvtDriverError, l.sched.Now(), duty, 0)
		return
	}
	atomic.StoreUint32(&l.lastDuty, duty)
	atomic.AddUint32(&l.refreshes, 1)
}

// dutyFor is the register value the refresh tick writes for snap
func (l *Lantern) dutyFor(snap Snapshot) uint32 {
	return ScaleDuty(uint32(DutyPercent(snap.State, snap.Position)), l.maxDuty)
}

func (l *Lantern) stateChanged(prev, next LanternState) {
	atomic.StoreUint32(&l.stateDirty, 1)
	RecordEvent(EvtStateChange, l.sched.Now(), uint32(prev), uint32(next))
}

// State returns the current direction state.
func (l *Lantern) State() LanternState {
	return l.sampler.State()
}

// Position returns the current waveform position.
func (l *Lantern) Position() uint32 {
	return l.seq.Position()
}

// LastDuty returns the last duty value written to the PWM register.
func (l *Lantern) LastDuty() uint32 {
	return atomic.LoadUint32(&l.lastDuty)
}

// MaxDuty returns the PWM driver's full-scale value.
func (l *Lantern) MaxDuty() uint32 {
	return l.maxDuty
}

// Stats returns the counters reported in lantern_stats.
func (l *Lantern) Stats() (advances, refreshes, driverErrors uint32) {
	return l.seq.Advances(), atomic.LoadUint32(&l.refreshes), atomic.LoadUint32(&l.driverErrors)
}

// Resyncs returns the number of sync edges that reset the position.
func (l *Lantern) Resyncs() uint32 {
	return l.seq.Resyncs()
}

func configureInput(gpio GPIODriver, pin GPIOPin, pullDown bool) error {
	if pullDown {
		return gpio.ConfigureInputPullDown(pin)
	}
	return gpio.ConfigureInput(pin)
}
