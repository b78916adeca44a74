package core

// WaveformSteps is the number of entries in every waveform table and the
// modulus of the position sequencer.
const WaveformSteps = 16

// Waveform is one cycle of duty percentages (0-100).
type Waveform [WaveformSteps]uint8

var (
	// sineWave swings 10..90 around 50 for reverse running.
	sineWave = Waveform{50, 60, 70, 80, 90, 80, 70, 60, 50, 40, 30, 20, 10, 20, 30, 40}
	// straightWave is a flat 90 for normal running.
	straightWave = Waveform{90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90}
	// pulseWave is a square 90/0 pattern repeating every 8 steps; it marks a fault.
	pulseWave = Waveform{90, 90, 90, 90, 0, 0, 0, 0, 90, 90, 90, 90, 0, 0, 0, 0}
)

// WaveformFor returns the table selected by s. Anything that is not
// Normal or Reverse falls back to the pulse table.
func WaveformFor(s LanternState) *Waveform {
	switch s {
	case StateReverse:
		return &sineWave
	case StateNormal:
		return &straightWave
	default:
		return &pulseWave
	}
}

// DutyPercent returns the duty percentage for state s at position.
func DutyPercent(s LanternState, position uint32) uint8 {
	return WaveformFor(s)[position%WaveformSteps]
}
