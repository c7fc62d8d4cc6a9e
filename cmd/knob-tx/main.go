//go:build tinygo

// Command knob-tx is the firmware of the knob: it reads a rotary encoder
// and a push button and sends what happened over infrared.
package main

import (
	"log"
	"machine"
	"time"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/knob"
	"github.com/sparques/irknob/quad"
)

var (
	irOut  = machine.Pin(2) // IR LED, must be a PWM capable pin
	rotA   = machine.Pin(3)
	rotB   = machine.Pin(4)
	button = machine.Pin(5) // active low
)

func main() {
	msg := log.New(machine.Serial, "knob-tx: ", 0)

	for _, pin := range []machine.Pin{rotA, rotB, button} {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	timing := irknob.DefaultTiming()
	tx := irknob.NewTxDevice(irOut, timing.CarrierHz)

	// Announce a released button so the receiver starts in a known state.
	tx.SendFrame(irknob.Frame{Command: irknob.CmdButtonOff, Timing: timing})

	enc, err := irknob.NewEncoder(timing, tx)
	if err != nil {
		msg.Fatalf("could not create encoder: %+v", err)
	}
	tk := irknob.NewTicker(enc)
	remote := knob.New(enc, knob.WithLogger(msg))

	for {
		tk.Run(time.Now())
		remote.Update(quad.Sample(rotA.Get(), rotB.Get()), !button.Get())
	}
}
