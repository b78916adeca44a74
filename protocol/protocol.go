// Package protocol implements the lantern's diagnostic telemetry framing.
//
// Frames follow the Klipper block layout: a length byte, a sequence byte,
// a VLQ-encoded payload, a CRC16 and a trailing sync byte.
package protocol

// Version represents the lantern firmware version
const Version = "0.3.0"

// Framing constants
const (
	MessageMax         = 256 // Scratch buffer size on the MCU
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F
)

// Frame is one validated frame as seen by the host.
type Frame struct {
	Sequence uint8
	Payload  []byte // Frame data without header/trailer
}
