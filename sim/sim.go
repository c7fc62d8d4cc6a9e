// Package sim runs both ends of the link on the host.
//
// The transmitter runs an irknob.Encoder on a Wire and pushes one sample of
// the demodulated receiver input per tick into a channel; the receiver runs
// an irknob.Decoder over a ChanMeter reading that channel, one count per
// sample. The two sides run on their own goroutines.
package sim

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/dispatch"
)

// Wire is an Emitter seen through an ideal demodulator: mark while the
// carrier is on.
type Wire struct {
	on bool
}

func (w *Wire) Toggle()    { w.on = true }
func (w *Wire) Silence()   { w.on = false }
func (w *Wire) Mark() bool { return w.on }

// ChanMeter is an irknob.Meter reading one sample per count from a channel.
// Once the channel is closed or ctx is done the input stays in space.
type ChanMeter struct {
	ctx  context.Context
	in   <-chan bool
	cur  bool
	done bool
}

func NewChanMeter(ctx context.Context, in <-chan bool) *ChanMeter {
	return &ChanMeter{ctx: ctx, in: in}
}

func (m *ChanMeter) next() {
	if m.done {
		m.cur = false
		return
	}
	select {
	case <-m.ctx.Done():
		m.cur, m.done = false, true
	case v, ok := <-m.in:
		m.cur, m.done = v && ok, !ok
	}
}

func (m *ChanMeter) closed() bool { return m.done }

// Mark reads the next sample and reports whether it is mark.
func (m *ChanMeter) Mark() bool {
	m.next()
	return m.cur
}

func (m *ChanMeter) Measure(limit uint32) uint32 {
	for m.cur {
		m.next()
	}
	var n uint32
	for n < limit && !m.cur {
		n++
		m.next()
	}
	return n
}

// Thresholds returns receiver thresholds for a ChanMeter fed by an encoder
// running t. A pause of p ticks is seen as p+1 samples.
func Thresholds(t irknob.Timing) irknob.Thresholds {
	return irknob.Thresholds{
		One: (uint32(t.ZeroPause)+uint32(t.OnePause))/2 + 1,
		End: (uint32(t.OnePause) + uint32(t.FinalPause)) / 2,
	}
}

// Link connects a transmitter and a receiver.
type Link struct {
	Timing     irknob.Timing
	Thresholds irknob.Thresholds

	msg *log.Logger
}

// NewLink returns a Link using t on both ends. Receive thresholds are
// derived with Thresholds.
func NewLink(t irknob.Timing, msg *log.Logger) *Link {
	if msg == nil {
		msg = log.New(io.Discard, "", 0)
	}
	return &Link{
		Timing:     t,
		Thresholds: Thresholds(t),
		msg:        msg,
	}
}

// Run sends cmds back to back and returns the commands received, in order.
func (l *Link) Run(ctx context.Context, cmds []irknob.Command) ([]irknob.Command, error) {
	var (
		wire = new(Wire)
		ch   = make(chan bool, 1024)
		rcvd []irknob.Command
	)

	enc, err := irknob.NewEncoder(l.Timing, wire)
	if err != nil {
		return nil, fmt.Errorf("sim: could not create encoder: %w", err)
	}

	grp, ctx := errgroup.WithContext(ctx)
	meter := NewChanMeter(ctx, ch)
	dec, err := irknob.NewDecoder(meter, l.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("sim: could not create decoder: %w", err)
	}

	grp.Go(func() error {
		defer close(ch)
		for _, cmd := range cmds {
			if err := enc.Send(cmd); err != nil {
				return fmt.Errorf("sim: could not send %v: %w", cmd, err)
			}
			l.msg.Printf("tx: %v", cmd)
			for !enc.PollDone() {
				enc.Tick()
				enc.PollDone()
				select {
				case ch <- wire.Mark():
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})

	grp.Go(func() error {
		disp := dispatch.NewDispatcher()
		disp.Fallback = func(cmd irknob.Command) {
			l.msg.Printf("rx: %v", cmd)
			rcvd = append(rcvd, cmd)
		}
		rx := dispatch.NewReceiver(dec, disp, dispatch.WithLogger(l.msg))
		for {
			if _, _, err := rx.Poll(); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if meter.closed() {
				return nil
			}
		}
	})

	err = grp.Wait()
	return rcvd, err
}
