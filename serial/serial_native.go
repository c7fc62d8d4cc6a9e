//go:build !tinygo && !wasm

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// Open opens the serial device described by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serial: config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: could not open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}
