package core

// CriticalSection masks interrupts while a multi-step update of state shared
// between handlers is in progress. Sections nest: Exit restores whatever
// interrupt-enable state was active at the matching Enter.
//
//	cs := core.EnterCritical()
//	defer cs.Exit()
type CriticalSection struct {
	prev irqState
}

// EnterCritical disables interrupts and remembers the prior state.
func EnterCritical() CriticalSection {
	return CriticalSection{prev: disableInterrupts()}
}

// Exit restores the interrupt state captured by EnterCritical.
func (cs CriticalSection) Exit() {
	restoreInterrupts(cs.prev)
}
