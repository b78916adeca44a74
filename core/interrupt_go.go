//go:build !tinygo

package core

// irqState is a placeholder for the interrupt-enable state on regular Go.
type irqState uintptr

// disableInterrupts is a no-op on regular Go. Host builds drive every
// handler from a single goroutine, so there is nothing to mask.
func disableInterrupts() irqState {
	return 0
}

// restoreInterrupts is a no-op on regular Go.
func restoreInterrupts(state irqState) {
}
