//go:build (rp2040 || rp2350) && uart_telemetry

package main

import (
	"io"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

const telemetryBaud = 115200

// initTelemetry sends reports out of UART1 instead of USB, leaving the USB
// console free for println output.
func initTelemetry() io.Writer {
	uart := uartx.UART1
	if err := uart.Configure(uartx.UARTConfig{
		BaudRate: telemetryBaud,
		TX:       uartx.UART1_TX_PIN,
		RX:       uartx.UART1_RX_PIN,
	}); err != nil {
		println("uart configure error")
	}
	return uart
}
