//go:build rp2040 || rp2350

package main

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
	"tinygo.org/x/drivers/ws2812"
)

// pixelMirror repeats the lantern output on a WS2812 status pixel: hue
// from the state, brightness from the PWM duty.
type pixelMirror struct {
	pio     *piolib.WS2812B
	bitbang ws2812.Device
	buf     [1]color.RGBA

	last     color.RGBA
	hasShown bool
}

// newPixelMirror drives the pixel from a PIO state machine. When PIO0 has
// no free state machine it falls back to the bit-banged driver.
func newPixelMirror(pin machine.Pin) *pixelMirror {
	p := &pixelMirror{}

	sm, err := pio.PIO0.ClaimStateMachine()
	if err == nil {
		ws, err := piolib.NewWS2812B(sm, pin)
		if err == nil {
			p.pio = ws
			return p
		}
		sm.Unclaim()
		println("pixel: PIO init failed, using bit-bang:", err.Error())
	}

	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.bitbang = ws2812.New(pin)
	return p
}

// stateColors gives each lantern state a hue
var stateColors = [...]color.RGBA{
	{R: 255, G: 160, B: 40}, // normal: warm white
	{R: 255, G: 0, B: 0},    // reverse: red
	{R: 255, G: 120, B: 0},  // moving: amber
	{R: 0, G: 0, B: 255},    // error: blue
}

func pixelColor(state uint8, duty, fullScale uint32) color.RGBA {
	c := stateColors[len(stateColors)-1]
	if int(state) < len(stateColors) {
		c = stateColors[state]
	}
	if fullScale == 0 {
		return color.RGBA{}
	}
	scale := func(v uint8) uint8 { return uint8(uint32(v) * duty / fullScale) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
}

// Show updates the pixel when the color changed.
func (p *pixelMirror) Show(state uint8, duty, fullScale uint32) {
	c := pixelColor(state, duty, fullScale)
	if p.hasShown && c == p.last {
		return
	}
	p.last = c
	p.hasShown = true

	if p.pio != nil {
		if !p.pio.IsQueueFull() {
			p.pio.PutColor(c)
		}
		return
	}

	// Bit-banged timing must not be stretched by the lantern interrupts.
	p.buf[0] = c
	irq := interrupt.Disable()
	_ = p.bitbang.WriteColors(p.buf[:])
	interrupt.Restore(irq)
}
