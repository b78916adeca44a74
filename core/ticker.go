package core

// PeriodicTimer fires onTick every period ticks on a Scheduler. It stands in
// for a hardware timer configured with "period P, interrupt on
// compare/overflow": the handler runs with interrupts masked and must not
// block.
type PeriodicTimer struct {
	timer  Timer
	sched  *Scheduler
	period uint32
	onTick func()
	active bool
}

// NewPeriodicTimer creates a stopped periodic timer.
func NewPeriodicTimer(s *Scheduler, period uint32, onTick func()) *PeriodicTimer {
	if period == 0 {
		period = 1
	}
	p := &PeriodicTimer{
		sched:  s,
		period: period,
		onTick: onTick,
	}
	p.timer.Handler = p.fire
	return p
}

// Period returns the tick period
func (p *PeriodicTimer) Period() uint32 {
	return p.period
}

// Start schedules the first tick one full period from now.
func (p *PeriodicTimer) Start() {
	cs := EnterCritical()
	defer cs.Exit()

	if p.active {
		p.sched.removeTimer(&p.timer)
	}
	p.active = true
	p.timer.Next = nil
	p.timer.WakeTime = p.sched.Now() + p.period
	p.sched.insertTimer(&p.timer)
}

// Reset zeroes the timer's phase: the next tick is one full period from
// now, whatever was left of the current period is discarded. A stopped
// timer stays stopped.
func (p *PeriodicTimer) Reset() {
	cs := EnterCritical()
	defer cs.Exit()

	if !p.active {
		return
	}
	p.sched.removeTimer(&p.timer)
	p.timer.Next = nil
	p.timer.WakeTime = p.sched.Now() + p.period
	p.sched.insertTimer(&p.timer)
}

// Stop cancels further ticks.
func (p *PeriodicTimer) Stop() {
	cs := EnterCritical()
	defer cs.Exit()

	if p.active {
		p.sched.removeTimer(&p.timer)
		p.active = false
	}
}

func (p *PeriodicTimer) fire(t *Timer) uint8 {
	if p.onTick != nil {
		p.onTick()
	}

	next := t.WakeTime + p.period
	// Skip ticks missed while the main loop was late instead of replaying
	// them back to back.
	if now := p.sched.now; !timerIsBefore(now, next) {
		next = now + p.period
	}
	t.WakeTime = next
	return SF_RESCHEDULE
}
