package protocol

import "errors"

// Telemetry message identifiers
const (
	MsgLanternState  = 1 // lantern_state state=%c position=%c duty=%u
	MsgLanternResync = 2 // lantern_resync count=%u
	MsgLanternStats  = 3 // lantern_stats advances=%u refreshes=%u driver_errors=%u telemetry_errors=%u
	MsgLanternBoot   = 4 // lantern_boot version=%s mode=%c
)

// ErrUnknownMessage is returned for a message id this build does not know
var ErrUnknownMessage = errors.New("unknown message id")

// StateReport is sent when the lantern state changes.
type StateReport struct {
	State    uint8
	Position uint8
	Duty     uint32
}

// ResyncReport carries the running count of sync edges.
type ResyncReport struct {
	Count uint32
}

// StatsReport is the periodic health report.
type StatsReport struct {
	Advances        uint32
	Refreshes       uint32
	DriverErrors    uint32
	TelemetryErrors uint32 // report flushes dropped on the MCU
}

// BootReport is sent once after reset.
type BootReport struct {
	Version string
	Mode    uint8
}

// Encode writes r as a lantern_state message
func (r StateReport) Encode(e *Encoder) {
	e.SendMessage(MsgLanternState, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(r.State))
		EncodeVLQUint(output, uint32(r.Position))
		EncodeVLQUint(output, r.Duty)
	})
}

// Encode writes r as a lantern_resync message
func (r ResyncReport) Encode(e *Encoder) {
	e.SendMessage(MsgLanternResync, func(output OutputBuffer) {
		EncodeVLQUint(output, r.Count)
	})
}

// Encode writes r as a lantern_stats message
func (r StatsReport) Encode(e *Encoder) {
	e.SendMessage(MsgLanternStats, func(output OutputBuffer) {
		EncodeVLQUint(output, r.Advances)
		EncodeVLQUint(output, r.Refreshes)
		EncodeVLQUint(output, r.DriverErrors)
		EncodeVLQUint(output, r.TelemetryErrors)
	})
}

// Encode writes r as a lantern_boot message
func (r BootReport) Encode(e *Encoder) {
	e.SendMessage(MsgLanternBoot, func(output OutputBuffer) {
		EncodeVLQString(output, r.Version)
		EncodeVLQUint(output, uint32(r.Mode))
	})
}

// DecodeMessage parses one frame payload into a StateReport, ResyncReport,
// StatsReport or BootReport.
func DecodeMessage(payload []byte) (any, error) {
	data := payload
	id, err := DecodeVLQUint(&data)
	if err != nil {
		return nil, err
	}

	switch id {
	case MsgLanternState:
		var v [3]uint32
		if err := decodeUints(&data, v[:]); err != nil {
			return nil, err
		}
		return StateReport{State: uint8(v[0]), Position: uint8(v[1]), Duty: v[2]}, nil

	case MsgLanternResync:
		var v [1]uint32
		if err := decodeUints(&data, v[:]); err != nil {
			return nil, err
		}
		return ResyncReport{Count: v[0]}, nil

	case MsgLanternStats:
		var v [4]uint32
		if err := decodeUints(&data, v[:]); err != nil {
			return nil, err
		}
		return StatsReport{Advances: v[0], Refreshes: v[1], DriverErrors: v[2], TelemetryErrors: v[3]}, nil

	case MsgLanternBoot:
		version, err := DecodeVLQString(&data)
		if err != nil {
			return nil, err
		}
		mode, err := DecodeVLQUint(&data)
		if err != nil {
			return nil, err
		}
		return BootReport{Version: version, Mode: uint8(mode)}, nil

	default:
		return nil, ErrUnknownMessage
	}
}

func decodeUints(data *[]byte, out []uint32) error {
	for i := range out {
		v, err := DecodeVLQUint(data)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}
