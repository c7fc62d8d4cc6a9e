// Package knob is the control loop of the transmitter: it turns knob
// rotation and button presses into Commands.
package knob

import (
	"io"
	"log"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/quad"
)

// Sender is the transmit side of the link, implemented by irknob.Encoder.
type Sender interface {
	PollDone() bool
	Send(cmd irknob.Command) error
}

// Remote accumulates knob steps and button edges between transmissions.
// Rotation is sampled on every Update but only sent when the link is idle,
// so a fast turn collapses into a single more or less.
type Remote struct {
	tx  Sender
	dec *quad.Decoder
	msg *log.Logger

	pos     int
	pressed bool

	// RepeatHold sends CmdButtonHold whenever the link is idle while the
	// button stays down.
	RepeatHold bool
}

// Option configures a Remote.
type Option func(*Remote)

// WithLogger logs every command sent to msg.
func WithLogger(msg *log.Logger) Option {
	return func(r *Remote) { r.msg = msg }
}

// WithMode selects the quadrature decoding mode of the knob.
func WithMode(mode quad.Mode) Option {
	return func(r *Remote) { r.dec = quad.New(mode) }
}

// New returns a Remote sending through tx.
func New(tx Sender, opts ...Option) *Remote {
	r := &Remote{
		tx:  tx,
		dec: quad.New(quad.PerPhase),
		msg: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Position returns the steps accumulated since the last more or less.
func (r *Remote) Position() int { return r.pos }

// Update runs one iteration of the control loop with the current knob phase
// and button level. It returns the command it started sending, if any.
func (r *Remote) Update(phase quad.Phase, pressed bool) (irknob.Command, bool) {
	r.pos += r.dec.Update(phase)
	if !r.tx.PollDone() {
		return 0, false
	}

	var cmd irknob.Command
	switch {
	case r.pos > 0:
		cmd = irknob.CmdMore
		r.pos = 0
	case r.pos < 0:
		cmd = irknob.CmdLess
		r.pos = 0
	default:
		last := r.pressed
		r.pressed = pressed
		switch {
		case !last && pressed:
			cmd = irknob.CmdButtonOn
		case last && !pressed:
			cmd = irknob.CmdButtonOff
		case last && pressed && r.RepeatHold:
			cmd = irknob.CmdButtonHold
		default:
			return 0, false
		}
	}

	if err := r.tx.Send(cmd); err != nil {
		r.msg.Printf("could not send %v: %+v", cmd, err)
		return 0, false
	}
	r.msg.Printf("sending %v", cmd)
	return cmd, true
}
