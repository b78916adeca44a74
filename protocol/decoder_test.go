package protocol

import (
	"bytes"
	"testing"
)

func encodeReports(reports ...interface{ Encode(*Encoder) }) []byte {
	out := NewScratchOutput()
	enc := NewEncoder(out)
	for _, r := range reports {
		r.Encode(enc)
	}
	return append([]byte(nil), out.Result()...)
}

func TestEncoderFrameLayout(t *testing.T) {
	data := encodeReports(ResyncReport{Count: 3})

	// len, seq, msgid, count, crc_hi, crc_lo, sync
	if len(data) != 7 {
		t.Fatalf("expected 7 byte frame, got %d: %v", len(data), data)
	}
	if data[MessagePositionLen] != 7 {
		t.Errorf("length byte = %d, expected 7", data[MessagePositionLen])
	}
	if data[MessagePositionSeq] != MessageDest {
		t.Errorf("sequence byte = 0x%02X, expected 0x%02X", data[MessagePositionSeq], MessageDest)
	}
	if data[len(data)-1] != MessageValueSync {
		t.Errorf("frame does not end with sync byte: %v", data)
	}
	crc := CRC16(data[:len(data)-MessageTrailerSize])
	if data[4] != byte(crc>>8) || data[5] != byte(crc) {
		t.Errorf("CRC bytes %02X%02X do not match 0x%04X", data[4], data[5], crc)
	}
}

func TestEncoderSequenceWraps(t *testing.T) {
	out := NewScratchOutput()
	enc := NewEncoder(out)

	for i := 0; i < 18; i++ {
		start := out.CurPosition()
		ResyncReport{Count: uint32(i)}.Encode(enc)
		seq := out.Result()[start+MessagePositionSeq]
		if want := MessageDest | byte(i&0x0F); seq != want {
			t.Fatalf("frame %d: sequence 0x%02X, expected 0x%02X", i, seq, want)
		}
		out.Reset()
	}
}

func TestDecoderRoundTrip(t *testing.T) {
	data := encodeReports(
		BootReport{Version: Version, Mode: 0},
		StateReport{State: 1, Position: 7, Duty: 229},
		StatsReport{Advances: 160, Refreshes: 10000, DriverErrors: 0},
	)

	dec := NewFrameDecoder()
	frames := dec.Feed(data)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Sequence != uint8(i) {
			t.Errorf("frame %d has sequence %d", i, f.Sequence)
		}
	}

	msg, err := DecodeMessage(frames[1].Payload)
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	state, ok := msg.(StateReport)
	if !ok {
		t.Fatalf("expected StateReport, got %T", msg)
	}
	if state != (StateReport{State: 1, Position: 7, Duty: 229}) {
		t.Errorf("decoded %+v", state)
	}
	if dec.Dropped != 0 {
		t.Errorf("expected no dropped frames, got %d", dec.Dropped)
	}
}

func TestDecoderSplitFeed(t *testing.T) {
	data := encodeReports(StatsReport{Advances: 1, Refreshes: 2, DriverErrors: 3, TelemetryErrors: 4})
	dec := NewFrameDecoder()

	var frames []Frame
	for i := range data {
		frames = append(frames, dec.Feed(data[i:i+1])...)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame from byte-at-a-time feed, got %d", len(frames))
	}
	msg, err := DecodeMessage(frames[0].Payload)
	if err != nil {
		t.Fatal(err)
	}
	if msg != (StatsReport{Advances: 1, Refreshes: 2, DriverErrors: 3, TelemetryErrors: 4}) {
		t.Errorf("decoded %+v", msg)
	}
}

func TestDecoderSkipsGarbage(t *testing.T) {
	frame := encodeReports(ResyncReport{Count: 42})

	var stream bytes.Buffer
	stream.Write([]byte{0xFF, 0x00, 0x13, MessageValueSync})
	stream.Write(frame)

	dec := NewFrameDecoder()
	frames := dec.Feed(stream.Bytes())
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after garbage, got %d", len(frames))
	}
	msg, _ := DecodeMessage(frames[0].Payload)
	if msg != (ResyncReport{Count: 42}) {
		t.Errorf("decoded %+v", msg)
	}
	if dec.Dropped == 0 {
		t.Error("expected garbage to count as a dropped frame")
	}
}

func TestDecoderBadCRC(t *testing.T) {
	bad := encodeReports(ResyncReport{Count: 1})
	bad[2] ^= 0x01
	good := encodeReports(ResyncReport{Count: 2})

	dec := NewFrameDecoder()
	frames := dec.Feed(append(bad, good...))
	if len(frames) != 1 {
		t.Fatalf("expected only the good frame, got %d", len(frames))
	}
	msg, _ := DecodeMessage(frames[0].Payload)
	if msg != (ResyncReport{Count: 2}) {
		t.Errorf("decoded %+v", msg)
	}
	if dec.Dropped != 1 {
		t.Errorf("expected 1 dropped frame, got %d", dec.Dropped)
	}
}
