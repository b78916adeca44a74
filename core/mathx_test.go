package core

import "testing"

func TestScaleDuty(t *testing.T) {
	testCases := []struct {
		percent, max, expected uint32
	}{
		{0, 255, 0},
		{10, 255, 25},
		{50, 255, 127},
		{90, 255, 229},
		{100, 255, 255},
		{150, 255, 255}, // clamped
		{90, 65535, 58981},
	}

	for _, tc := range testCases {
		if got := ScaleDuty(tc.percent, tc.max); got != tc.expected {
			t.Errorf("ScaleDuty(%d, %d) = %d, expected %d", tc.percent, tc.max, got, tc.expected)
		}
	}
}

func TestScaleDutyUint8(t *testing.T) {
	if got := ScaleDuty[uint8](90, 255); got != 229 {
		t.Errorf("ScaleDuty[uint8](90, 255) = %d, expected 229", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp returned an out-of-range value")
	}
}
