// Package dispatch is the control loop of the receiver: it reads Commands
// off the link and hands them to the handlers registered for them.
package dispatch

import (
	"fmt"
	"io"
	"log"

	"github.com/sparques/irknob"
)

// Handler reacts to one received command.
type Handler func(irknob.Command)

// Dispatcher routes commands to handlers.
// Commands without a handler go to Fallback, if set.
type Dispatcher struct {
	handlers map[irknob.Command]Handler
	Fallback Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[irknob.Command]Handler)}
}

// Handle registers fn for cmd, replacing any previous handler.
func (d *Dispatcher) Handle(cmd irknob.Command, fn Handler) {
	d.handlers[cmd] = fn
}

// Dispatch calls the handler for cmd and reports whether there was one.
func (d *Dispatcher) Dispatch(cmd irknob.Command) bool {
	fn, ok := d.handlers[cmd]
	switch {
	case ok:
		fn(cmd)
		return true
	case d.Fallback != nil:
		d.Fallback(cmd)
		return true
	}
	return false
}

// Source is the receive side of the link, implemented by irknob.Decoder.
type Source interface {
	Pending() bool
	ReadCommand() (int, [irknob.CommandSize]byte)
}

// Receiver polls a Source and dispatches complete commands.
type Receiver struct {
	src  Source
	disp *Dispatcher
	echo io.Writer
	msg  *log.Logger

	dropped int
}

// Option configures a Receiver.
type Option func(*Receiver)

// WithEcho writes every received command to w as its 4 bytes followed by
// CRLF, the format read by serial.ReadCommands.
func WithEcho(w io.Writer) Option {
	return func(r *Receiver) { r.echo = w }
}

// WithLogger logs dropped transmissions to msg.
func WithLogger(msg *log.Logger) Option {
	return func(r *Receiver) { r.msg = msg }
}

func NewReceiver(src Source, disp *Dispatcher, opts ...Option) *Receiver {
	r := &Receiver{
		src:  src,
		disp: disp,
		msg:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dropped returns the number of incomplete transmissions seen so far.
func (r *Receiver) Dropped() int { return r.dropped }

// Poll runs one iteration of the control loop. If a transmission is
// starting it blocks until the transmission is over.
func (r *Receiver) Poll() (irknob.Command, bool, error) {
	if !r.src.Pending() {
		return 0, false, nil
	}
	n, buf := r.src.ReadCommand()
	if n != irknob.CommandSize {
		r.dropped++
		r.msg.Printf("dropped transmission after %d bytes", n)
		return 0, false, nil
	}

	cmd := irknob.CommandFromBytes(buf)
	if !r.disp.Dispatch(cmd) {
		r.msg.Printf("no handler for %v", cmd)
	}
	if r.echo != nil {
		_, err := r.echo.Write(append(buf[:], '\r', '\n'))
		if err != nil {
			return cmd, true, fmt.Errorf("dispatch: could not echo %v: %w", cmd, err)
		}
	}
	return cmd, true, nil
}
