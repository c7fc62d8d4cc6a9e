package dispatch

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/sparques/irknob"
)

type fakeSource struct {
	reads []int // byte counts of the pending transmissions
	cmd   irknob.Command
}

func (s *fakeSource) Pending() bool { return len(s.reads) > 0 }

func (s *fakeSource) ReadCommand() (int, [irknob.CommandSize]byte) {
	n := s.reads[0]
	s.reads = s.reads[1:]
	return n, s.cmd.Bytes()
}

func TestDispatcher(t *testing.T) {
	var got []irknob.Command
	d := NewDispatcher()
	d.Handle(irknob.CmdMore, func(cmd irknob.Command) { got = append(got, cmd) })

	if !d.Dispatch(irknob.CmdMore) {
		t.Fatalf("more not dispatched")
	}
	if d.Dispatch(irknob.CmdLess) {
		t.Fatalf("less dispatched without handler")
	}
	d.Fallback = func(cmd irknob.Command) { got = append(got, cmd) }
	if !d.Dispatch(irknob.CmdLess) {
		t.Fatalf("less not sent to fallback")
	}
	if len(got) != 2 || got[0] != irknob.CmdMore || got[1] != irknob.CmdLess {
		t.Fatalf("got=%v", got)
	}
}

func TestReceiver(t *testing.T) {
	var (
		src  = &fakeSource{cmd: irknob.CmdButtonOn, reads: []int{4, 2, 4}}
		echo = new(bytes.Buffer)
		msg  = new(bytes.Buffer)
		on   int
	)
	d := NewDispatcher()
	d.Handle(irknob.CmdButtonOn, func(irknob.Command) { on++ })
	r := NewReceiver(src, d, WithEcho(echo), WithLogger(log.New(msg, "", 0)))

	for i := 0; i < 5; i++ {
		if _, _, err := r.Poll(); err != nil {
			t.Fatalf("poll %d: %+v", i, err)
		}
	}
	if got, want := on, 2; got != want {
		t.Fatalf("invalid dispatch count: got=%d, want=%d", got, want)
	}
	if got, want := r.Dropped(), 1; got != want {
		t.Fatalf("invalid drop count: got=%d, want=%d", got, want)
	}
	if got, want := echo.String(), "b_on\r\nb_on\r\n"; got != want {
		t.Fatalf("invalid echo: got=%q, want=%q", got, want)
	}
	if !strings.Contains(msg.String(), "dropped transmission after 2 bytes") {
		t.Fatalf("missing log line:\n%s", msg.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestReceiverEchoError(t *testing.T) {
	src := &fakeSource{cmd: irknob.CmdMore, reads: []int{4}}
	r := NewReceiver(src, NewDispatcher(), WithEcho(failingWriter{}))
	cmd, ok, err := r.Poll()
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("invalid error: got=%v, want=%v", err, io.ErrClosedPipe)
	}
	if !ok || cmd != irknob.CmdMore {
		t.Fatalf("got=%v (ok=%v), want=%v", cmd, ok, irknob.CmdMore)
	}
}

func TestReceiverDecoder(t *testing.T) {
	// a complete transmission of 0xffffffff at one count per tick.
	counts := make([]uint32, 32)
	for i := range counts {
		counts[i] = 100
	}
	dec, err := irknob.NewDecoder(&countMeter{counts: counts}, irknob.Thresholds{One: 66, End: 660})
	if err != nil {
		t.Fatalf("could not create decoder: %+v", err)
	}
	r := NewReceiver(dec, NewDispatcher())
	cmd, ok, err := r.Poll()
	if err != nil || !ok {
		t.Fatalf("could not poll: ok=%v err=%+v", ok, err)
	}
	if got, want := cmd, irknob.Command(0xffffffff); got != want {
		t.Fatalf("got=%v, want=%v", got, want)
	}
}

type countMeter struct {
	counts []uint32
}

func (m *countMeter) Mark() bool { return len(m.counts) > 0 }

func (m *countMeter) Measure(limit uint32) uint32 {
	if len(m.counts) == 0 {
		return limit
	}
	v := m.counts[0]
	m.counts = m.counts[1:]
	return v
}
