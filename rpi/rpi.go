// Package rpi runs a receiver on a Linux single board computer, with the IR
// receiver on a GPIO line and the peripherals on an I2C bus, through periph.
package rpi // import "github.com/sparques/irknob/rpi"

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sparques/irknob"
)

// Line adapts a GPIO input to irknob.Line, for use with a SpinMeter.
type Line struct {
	gpio.PinIn
}

func (l Line) Get() bool { return l.Read() == gpio.High }

// Board holds the resources of a receiver.
type Board struct {
	IR  gpio.PinIO
	Bus i2c.BusCloser
}

// Open initializes periph and opens the IR input pin by name (e.g. "GPIO17")
// and the I2C bus by name ("" for the first one).
func Open(pin, bus string) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("rpi: could not initialize host: %w", err)
	}

	ir := gpioreg.ByName(pin)
	if ir == nil {
		return nil, fmt.Errorf("rpi: could not find pin %q", pin)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("rpi: could not open I2C bus %q: %w", bus, err)
	}

	return &Board{IR: ir, Bus: b}, nil
}

func (b *Board) Close() error {
	err := b.Bus.Close()
	if err != nil {
		return fmt.Errorf("rpi: could not close I2C bus: %w", err)
	}
	return nil
}

// edgePoll bounds how long Watch waits for an edge before checking ctx.
const edgePoll = 100 * time.Millisecond

// Watch configures pin for edge detection and feeds its edges into m until
// ctx is done. Most receivers idle high and pull the line low on mark; set
// activeHigh for the others.
func Watch(ctx context.Context, pin gpio.PinIn, m *irknob.EdgeMeter, activeHigh bool) error {
	err := pin.In(gpio.PullUp, gpio.BothEdges)
	if err != nil {
		return fmt.Errorf("rpi: could not configure %s for edges: %w", pin, err)
	}
	defer pin.In(gpio.PullNoChange, gpio.NoEdge)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !pin.WaitForEdge(edgePoll) {
			continue
		}
		m.Edge(bool(pin.Read()) == activeHigh)
	}
}
