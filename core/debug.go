package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// LanternEvent captures something an interrupt handler did, for post-mortem
// analysis from the main loop.
type LanternEvent struct {
	EventType uint8  // Event type code
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtStateChange = 1 // Value1=previous state, Value2=new state
	EvtResync      = 2 // Value1=position before the resync
	EvtDriverError = 3 // Value1=duty that failed to write
	EvtBoot        = 4 // Value1=mode
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]LanternEvent
	eventRingHead uint8 // Next write position

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugEnabled && debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer. Safe from interrupt
// context; never blocks.
func RecordEvent(eventType uint8, clock, value1, value2 uint32) {
	cs := EnterCritical()
	idx := eventRingHead
	eventRing[idx] = LanternEvent{
		EventType: eventType,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	cs.Exit()
}

// EventRing returns the recorded events, oldest first.
func EventRing() []LanternEvent {
	cs := EnterCritical()
	snapshot := eventRing
	start := eventRingHead
	cs.Exit()

	events := make([]LanternEvent, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := snapshot[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpEventRing outputs the event ring (call from the main loop only)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range EventRing() {
		var name string
		switch evt.EventType {
		case EvtStateChange:
			name = "STATE " + LanternState(evt.Value1).String() + "->" + LanternState(evt.Value2).String()
		case EvtResync:
			name = "RESYNC from=" + utoa(evt.Value1)
		case EvtDriverError:
			name = "PWM_ERR duty=" + utoa(evt.Value1)
		case EvtBoot:
			name = "BOOT mode=" + Mode(evt.Value1).String()
		default:
			name = "UNKNOWN"
		}
		debugPrintln("[EVENTS] clock=" + utoa(evt.Clock) + " " + name)
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	cs := EnterCritical()
	for i := range eventRing {
		eventRing[i] = LanternEvent{}
	}
	eventRingHead = 0
	cs.Exit()
}
