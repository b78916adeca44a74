package core

import (
	"testing"
	"time"
)

func TestBlinkerPatterns(t *testing.T) {
	ms := time.Millisecond
	testCases := []struct {
		name            string
		reverse, normal bool
		state           LanternState
		writes          []bool
		delays          []time.Duration
	}{
		{"normal steady", false, true, StateNormal, []bool{true}, []time.Duration{10 * ms}},
		{"reverse soft blink", true, false, StateReverse, []bool{true, false}, []time.Duration{20 * ms, 180 * ms}},
		{"moving hard blink", false, false, StateMoving, []bool{true}, []time.Duration{100 * ms}},
		{"error fast blink", true, true, StateError, []bool{true}, []time.Duration{10 * ms}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			board := newMockBoard()
			board.levels[testReversePin] = tc.reverse
			board.levels[testNormalPin] = tc.normal
			rec := &recordDelays{}

			cfg := DefaultBlinkConfig()
			cfg.ReversePin, cfg.NormalPin, cfg.LEDPin = testReversePin, testNormalPin, testLEDPin
			b := NewBlinker(cfg, board, rec.sleep)

			if got := b.Step(); got != tc.state {
				t.Fatalf("Expected state %v, got %v", tc.state, got)
			}
			if len(board.pinWrites) != len(tc.writes) {
				t.Fatalf("Expected %d pin writes, got %v", len(tc.writes), board.pinWrites)
			}
			for i := range tc.writes {
				if board.pinWrites[i] != tc.writes[i] {
					t.Errorf("Write %d: expected %v, got %v", i, tc.writes[i], board.pinWrites[i])
				}
				if rec.delays[i] != tc.delays[i] {
					t.Errorf("Delay %d: expected %v, got %v", i, tc.delays[i], rec.delays[i])
				}
			}
		})
	}
}

func TestBlinkerToggles(t *testing.T) {
	board := newMockBoard()
	rec := &recordDelays{}
	cfg := DefaultBlinkConfig()
	cfg.ReversePin, cfg.NormalPin, cfg.LEDPin = testReversePin, testNormalPin, testLEDPin
	b := NewBlinker(cfg, board, rec.sleep)

	// Both low means moving under the blink policy: a symmetric square wave
	for i := 0; i < 4; i++ {
		b.Step()
	}
	expected := []bool{true, false, true, false}
	for i, level := range expected {
		if board.pinWrites[i] != level {
			t.Errorf("Step %d: expected %v, got %v", i, level, board.pinWrites[i])
		}
	}
}

func TestBlinkerSetup(t *testing.T) {
	board := newMockBoard()
	cfg := DefaultBlinkConfig()
	cfg.ReversePin, cfg.NormalPin, cfg.LEDPin = testReversePin, testNormalPin, testLEDPin
	b := NewBlinker(cfg, board, nil)

	if err := b.Setup(false); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if !board.outputs[testLEDPin] {
		t.Error("LED pin not configured as output")
	}
	if board.inputs[testReversePin] != "none" || board.inputs[testNormalPin] != "none" {
		t.Error("Direction pins not configured as inputs")
	}
}

func TestBlinkerErrorPolicy(t *testing.T) {
	board := newMockBoard()
	cfg := DefaultBlinkConfig()
	cfg.BothLow = BothLowError
	cfg.ReversePin, cfg.NormalPin, cfg.LEDPin = testReversePin, testNormalPin, testLEDPin
	b := NewBlinker(cfg, board, (&recordDelays{}).sleep)

	if got := b.Step(); got != StateError {
		t.Errorf("Expected both-low to be an error under BothLowError, got %v", got)
	}
}
