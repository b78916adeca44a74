package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers sorted by WakeTime and runs the due ones.
// The list is only touched with interrupts masked, so pin-change handlers
// may schedule or cancel timers while Dispatch runs from the main loop.
type Scheduler struct {
	list  *Timer
	now   uint32
	clock func() uint32
}

// NewScheduler creates a scheduler reading time from clock.
// A nil clock uses GetTime.
func NewScheduler(clock func() uint32) *Scheduler {
	if clock == nil {
		clock = GetTime
	}
	return &Scheduler{clock: clock}
}

// Now returns the current time as seen by the scheduler's clock
func (s *Scheduler) Now() uint32 {
	return s.clock()
}

// ScheduleTimer adds a timer to the schedule
func (s *Scheduler) ScheduleTimer(t *Timer) {
	cs := EnterCritical()
	defer cs.Exit()

	s.insertTimer(t)
}

// CancelTimer removes t from the schedule if it is queued
func (s *Scheduler) CancelTimer(t *Timer) {
	cs := EnterCritical()
	defer cs.Exit()

	s.removeTimer(t)
}

// insertTimer inserts a timer in sorted order by WakeTime
func (s *Scheduler) insertTimer(t *Timer) {
	if s.list == nil || timerIsBefore(t.WakeTime, s.list.WakeTime) {
		t.Next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.Next != nil && !timerIsBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

func (s *Scheduler) removeTimer(t *Timer) {
	if s.list == t {
		s.list = t.Next
		t.Next = nil
		return
	}
	for cur := s.list; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// Pending returns the wake time of the earliest timer, if any
func (s *Scheduler) Pending() (uint32, bool) {
	cs := EnterCritical()
	defer cs.Exit()

	if s.list == nil {
		return 0, false
	}
	return s.list.WakeTime, true
}

// Dispatch runs every timer whose WakeTime is not after the current time
func (s *Scheduler) Dispatch() {
	cs := EnterCritical()
	defer cs.Exit()

	s.now = s.clock()
	for s.list != nil && !timerIsBefore(s.now, s.list.WakeTime) {
		timer := s.list
		s.list = timer.Next
		timer.Next = nil

		if timer.Handler(timer) == SF_RESCHEDULE {
			s.insertTimer(timer)
		}
	}
}
