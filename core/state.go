package core

// LanternState is the direction state derived from the two direction pins.
type LanternState uint8

const (
	StateNormal LanternState = iota
	StateReverse
	StateMoving // only produced under BothLowMoving
	StateError
)

func (s LanternState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateReverse:
		return "reverse"
	case StateMoving:
		return "moving"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// BothLowPolicy decides what a reading with neither direction pin active
// means. The PWM-synchronized lantern treats it as a fault; the blinking
// lantern treats it as a vehicle in motion with no direction selected.
type BothLowPolicy uint8

const (
	BothLowError BothLowPolicy = iota
	BothLowMoving
)

// ResolveState maps one sampling of the direction pins to a state. Every
// combination maps to exactly one state; invalid ones map to StateError.
func ResolveState(reverse, normal bool, policy BothLowPolicy) LanternState {
	switch {
	case reverse && !normal:
		return StateReverse
	case !reverse && normal:
		return StateNormal
	case !reverse && !normal && policy == BothLowMoving:
		return StateMoving
	default:
		return StateError
	}
}
