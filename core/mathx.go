package core

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScaleDuty converts a 0-100 percentage to the 0-fullScale register range.
// The multiply happens first, in 64 bits, so small percentages do not
// truncate to zero.
func ScaleDuty[T constraints.Unsigned](percent, fullScale T) T {
	p := Clamp(percent, 0, 100)
	return T(uint64(p) * uint64(fullScale) / 100)
}
