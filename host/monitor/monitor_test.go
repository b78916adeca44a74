package monitor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"lantern/protocol"
)

func encode(reports ...interface{ Encode(*protocol.Encoder) }) []byte {
	out := protocol.NewScratchOutput()
	enc := protocol.NewEncoder(out)
	for _, r := range reports {
		r.Encode(enc)
	}
	return append([]byte(nil), out.Result()...)
}

func TestMonitorRun(t *testing.T) {
	stream := encode(
		protocol.BootReport{Version: protocol.Version, Mode: 0},
		protocol.StateReport{State: 1, Position: 4, Duty: 229},
		protocol.ResyncReport{Count: 2},
		protocol.StatsReport{Advances: 16, Refreshes: 1000, TelemetryErrors: 2},
	)

	var out bytes.Buffer
	m := New(bytes.NewReader(stream), &out, nil)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}

	expected := []string{
		"boot     version=" + protocol.Version + " mode=pwm_sync",
		"state    reverse position=4  duty=229",
		"resync   count=2",
		"stats    advances=16 refreshes=1000 driver_errors=0 telemetry_errors=2",
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("line %d: got %q, expected %q", i, lines[i], want)
		}
	}

	reports, decodeErrs, lost, corrupt := m.Stats()
	if reports != 4 || decodeErrs != 0 || lost != 0 || corrupt != 0 {
		t.Errorf("Stats() = %d, %d, %d, %d", reports, decodeErrs, lost, corrupt)
	}
}

func TestMonitorCountsLostFrames(t *testing.T) {
	out := protocol.NewScratchOutput()
	enc := protocol.NewEncoder(out)

	protocol.ResyncReport{Count: 1}.Encode(enc)
	first := append([]byte(nil), out.Result()...)
	out.Reset()

	// Two frames the monitor never sees
	protocol.ResyncReport{Count: 2}.Encode(enc)
	protocol.ResyncReport{Count: 3}.Encode(enc)
	out.Reset()

	protocol.ResyncReport{Count: 4}.Encode(enc)
	last := append([]byte(nil), out.Result()...)

	var buf bytes.Buffer
	m := New(nil, &buf, nil)
	if _, err := m.Process(first); err != nil {
		t.Fatal(err)
	}
	reports, err := m.Process(last)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0] != (protocol.ResyncReport{Count: 4}) {
		t.Errorf("unexpected reports %v", reports)
	}

	if _, _, lost, _ := m.Stats(); lost != 2 {
		t.Errorf("expected 2 lost frames, got %d", lost)
	}
}

func TestMonitorUnknownMessage(t *testing.T) {
	out := protocol.NewScratchOutput()
	enc := protocol.NewEncoder(out)
	enc.SendMessage(77, nil)

	var buf bytes.Buffer
	m := New(nil, &buf, nil)
	reports, err := m.Process(out.Result())
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports, got %v", reports)
	}
	if _, decodeErrs, _, _ := m.Stats(); decodeErrs != 1 {
		t.Errorf("expected 1 decode error, got %d", decodeErrs)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatState(t *testing.T) {
	got := Format(protocol.StateReport{State: 3, Position: 15, Duty: 0})
	if got != "state    error   position=15 duty=0" {
		t.Errorf("Format = %q", got)
	}
}
