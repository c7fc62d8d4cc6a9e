// Package serial reads the commands a receiver echoes on its serial port.
package serial

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/sparques/irknob"
)

// Port represents a serial port interface
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the receiver's UART
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration of the stock receiver.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        9600,
		ReadTimeout: 0,
	}
}

// ReadCommands calls fn for every command line read from r until r is
// exhausted. A command line is the 4 command bytes followed by CRLF; other
// lines are line noise from a partially captured stream and are skipped.
func ReadCommands(r io.Reader, fn func(irknob.Command)) error {
	sc := bufio.NewScanner(r)
	sc.Split(scanCRLF)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) != irknob.CommandSize {
			continue
		}
		var buf [irknob.CommandSize]byte
		copy(buf[:], line)
		fn(irknob.CommandFromBytes(buf))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("serial: could not read commands: %w", err)
	}
	return nil
}

// scanCRLF splits CRLF terminated lines. A CRLF right after CommandSize
// bytes always ends the line, so a command carrying CR LF in its payload is
// kept whole.
func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	const n = irknob.CommandSize
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if len(data) >= n+2 && data[n] == '\r' && data[n+1] == '\n' {
		return n + 2, data[:n], nil
	}
	if len(data) < n+2 && !atEOF {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte("\r\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
