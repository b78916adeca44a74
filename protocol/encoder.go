package protocol

// Encoder frames telemetry messages into an OutputBuffer on the MCU side.
// It is used from the main loop only.
type Encoder struct {
	output OutputBuffer
	seq    uint8
}

// NewEncoder creates an encoder writing into output
func NewEncoder(output OutputBuffer) *Encoder {
	return &Encoder{output: output}
}

// EncodeFrame writes one complete frame whose payload is produced by
// frameData. Each frame carries the next sequence number.
func (e *Encoder) EncodeFrame(frameData func(output OutputBuffer)) {
	cursor := e.output.CurPosition()

	// Header: length placeholder and sequence
	seq := MessageDest | (e.seq & MessageSeqMask)
	e.output.Output([]byte{0, seq})

	frameData(e.output)

	// Update length field
	changed := len(e.output.DataSince(cursor))
	e.output.Update(cursor, uint8(changed+MessageTrailerSize))

	crc := CRC16(e.output.DataSince(cursor))
	e.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	e.seq = (e.seq + 1) & MessageSeqMask
}

// SendMessage frames a single message with its arguments
func (e *Encoder) SendMessage(msgID uint16, args func(output OutputBuffer)) {
	e.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(msgID))
		if args != nil {
			args(output)
		}
	})
}
