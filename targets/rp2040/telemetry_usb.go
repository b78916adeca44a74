//go:build (rp2040 || rp2350) && !uart_telemetry

package main

import (
	"io"
	"machine"
)

// initTelemetry returns the USB CDC port. TinyGo sets up the descriptors;
// the baud rate is ignored.
func initTelemetry() io.Writer {
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		println("usb serial configure error")
	}
	return machine.Serial
}
