//go:build (rp2040 || rp2350) && blink

package main

import "lantern/core"

// GetMode returns the lantern program this image runs.
func GetMode() core.Mode {
	return core.ModeBlink
}
