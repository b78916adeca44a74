package core

import "sync/atomic"

// TimerFreq is the rate of the system tick counter. Both supported boards
// expose a free-running 1MHz hardware timer, so one tick is one microsecond.
const TimerFreq = 1000000

var systemTicks uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time. Targets call it from the main loop
// with the hardware counter.
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// timerIsBefore reports whether a comes before b on the wrapping 32-bit
// tick counter.
func timerIsBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
