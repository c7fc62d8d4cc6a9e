package irknob

import (
	"errors"
	"testing"
)

// lineMeter replays a sampled receiver input, one sample per encoder tick.
// Past the end of the samples the input is idle.
type lineMeter struct {
	marks []bool
	pos   int
}

func (m *lineMeter) mark() bool {
	return m.pos < len(m.marks) && m.marks[m.pos]
}

func (m *lineMeter) Mark() bool { return m.mark() }

func (m *lineMeter) Measure(limit uint32) uint32 {
	for m.mark() {
		m.pos++
	}
	var n uint32
	for n < limit && !m.mark() {
		n++
		m.pos++
	}
	return n
}

// seqMeter returns canned space lengths, then reports the end of signal.
type seqMeter struct {
	counts []uint32
}

func (m *seqMeter) Mark() bool { return len(m.counts) > 0 }

func (m *seqMeter) Measure(limit uint32) uint32 {
	if len(m.counts) == 0 {
		return limit
	}
	v := m.counts[0]
	m.counts = m.counts[1:]
	if v > limit {
		return limit
	}
	return v
}

// tickThresholds splits the stock pauses when one count is one tick.
var tickThresholds = Thresholds{One: 66, End: 660}

// transmit runs cmd through an encoder and returns the demodulated input,
// mark while the carrier is on.
func transmit(t *testing.T, cmd Command) []bool {
	t.Helper()
	enc, out := newTestEncoder(t)
	if err := enc.Send(cmd); err != nil {
		t.Fatalf("could not send: %+v", err)
	}
	n := enc.Timing().Ticks(cmd)
	marks := make([]bool, 0, n)
	for i := 0; i < n; i++ {
		enc.Tick()
		enc.PollDone()
		marks = append(marks, out.active)
	}
	if !enc.PollDone() {
		t.Fatalf("encoder still busy")
	}
	return marks
}

func TestRoundTrip(t *testing.T) {
	for pos := 0; pos < CommandSize; pos++ {
		for v := 0; v <= 0xff; v++ {
			var want [CommandSize]byte
			copy(want[:], "knob")
			want[pos] = byte(v)

			m := &lineMeter{marks: transmit(t, CommandFromBytes(want))}
			dec, err := NewDecoder(m, tickThresholds)
			if err != nil {
				t.Fatalf("could not create decoder: %+v", err)
			}
			if !dec.Pending() {
				t.Fatalf("decoder not pending at start of transmission")
			}
			n, got := dec.ReadCommand()
			if n != CommandSize {
				t.Fatalf("pos=%d v=0x%02x: invalid byte count: got=%d, want=%d", pos, v, n, CommandSize)
			}
			if got != want {
				t.Fatalf("pos=%d v=0x%02x: got=%q, want=%q", pos, v, got, want)
			}
		}
	}
}

func TestReadCommandTruncated(t *testing.T) {
	for _, tc := range []struct {
		name   string
		counts []uint32
		want   int
	}{
		{"empty", nil, 0},
		{"7 bits", make([]uint32, 7), 0},
		{"8 bits", make([]uint32, 8), 1},
		{"31 bits", make([]uint32, 31), 3},
		{"terminator", append(make([]uint32, 12), 1000, 0, 0), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for i := range tc.counts {
				if tc.counts[i] == 0 {
					tc.counts[i] = 20
				}
			}
			dec, err := NewDecoder(&seqMeter{counts: tc.counts}, tickThresholds)
			if err != nil {
				t.Fatalf("could not create decoder: %+v", err)
			}
			n, _ := dec.ReadCommand()
			if n != tc.want {
				t.Fatalf("invalid byte count: got=%d, want=%d", n, tc.want)
			}
			if tc.want < CommandSize {
				dec := &Decoder{meter: &seqMeter{counts: tc.counts}, th: tickThresholds}
				if _, ok := dec.Receive(); ok {
					t.Fatalf("truncated transmission accepted")
				}
			}
		})
	}
}

func TestReadCommandThreshold(t *testing.T) {
	counts := make([]uint32, 32)
	for i := range counts {
		counts[i] = 10
	}
	counts[0] = tickThresholds.One     // at the threshold: 1
	counts[1] = tickThresholds.One - 1 // below: 0
	counts[31] = tickThresholds.End - 1

	dec, err := NewDecoder(&seqMeter{counts: counts}, tickThresholds)
	if err != nil {
		t.Fatalf("could not create decoder: %+v", err)
	}
	cmd, ok := dec.Receive()
	if !ok {
		t.Fatalf("could not receive")
	}
	if got, want := cmd, Command(0x80000001); got != want {
		t.Fatalf("got=%v, want=%v", got, want)
	}
}

func TestNewDecoderInvalidThresholds(t *testing.T) {
	for _, th := range []Thresholds{
		{},
		{One: 10, End: 10},
		{One: 0, End: 10},
	} {
		_, err := NewDecoder(&seqMeter{}, th)
		if !errors.Is(err, ErrThresholds) {
			t.Fatalf("%+v: invalid error: got=%v, want=%v", th, err, ErrThresholds)
		}
	}
}
