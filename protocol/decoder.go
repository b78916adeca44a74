package protocol

// FrameDecoder reassembles frames from a raw byte stream on the host side.
// Garbage, truncated frames and CRC failures are skipped by hunting for the
// next sync byte.
type FrameDecoder struct {
	input          *FifoBuffer
	isSynchronized bool

	// Dropped counts frames discarded for bad length, sequence, trailer or CRC
	Dropped uint32
}

// NewFrameDecoder creates a decoder with room for a few frames of backlog
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{
		input:          NewFifoBuffer(4 * MessageLengthMax),
		isSynchronized: true,
	}
}

// Feed appends data to the stream and returns every complete frame found.
func (d *FrameDecoder) Feed(data []byte) []Frame {
	var frames []Frame
	for len(data) > 0 {
		n := d.input.Write(data)
		data = data[n:]
		frames = append(frames, d.parse()...)
		if n == 0 && d.input.Free() == 0 {
			// Full buffer with nothing parseable: drop it and resync.
			d.input.Reset()
			d.isSynchronized = false
		}
	}
	return frames
}

func (d *FrameDecoder) parse() []Frame {
	var frames []Frame
	data := d.input.Data()
	original := len(data)

	for len(data) > 0 {
		if !d.isSynchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.isSynchronized = true
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		frames = append(frames, Frame{Sequence: seq & MessageSeqMask, Payload: payload})
		data = data[msgLen:]
	}

	d.input.Pop(original - len(data))
	return frames
}

func (d *FrameDecoder) desync() {
	d.isSynchronized = false
	d.Dropped++
}
