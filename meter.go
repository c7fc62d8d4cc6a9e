package irknob

import (
	"sync/atomic"
	"time"
)

// Line is a digital input. machine.Pin satisfies it.
type Line interface {
	Get() bool
}

// SpinMeter measures spaces by counting iterations of a tight polling loop,
// so its counts depend on the CPU clock and on the cost of Line.Get.
//
// Demodulating IR receivers pull their output low while they see the
// carrier, so by default a low input is mark. Set ActiveHigh for receivers
// with the opposite polarity.
type SpinMeter struct {
	In         Line
	ActiveHigh bool
}

func (m SpinMeter) Mark() bool {
	return m.In.Get() == m.ActiveHigh
}

func (m SpinMeter) Measure(limit uint32) uint32 {
	for m.Mark() {
	}
	var count uint32
	for count < limit && !m.Mark() {
		count++
	}
	return count
}

const edgeRingSize = 16 // power of two

// EdgeMeter measures spaces from edge timestamps reported by a pin-change
// interrupt. Counts are in units of the resolution given to NewEdgeMeter;
// the zero value counts microseconds on the system clock.
//
// Edge is the producer and runs in interrupt context; Mark and Measure are
// the consumer and run in the control loop. Space lengths are passed
// through a lock-free single-producer single-consumer ring. When the ring is
// full new spaces are dropped.
type EdgeMeter struct {
	res time.Duration
	now func() time.Time

	ring       [edgeRingSize]uint32
	head, tail uint32 // atomic; head is read by the consumer, tail written by the producer

	inSpace uint32 // atomic, 1 while the input is in space
	since   int64  // atomic, unix nanoseconds of the last edge
}

// NewEdgeMeter returns an EdgeMeter reading time from now, or time.Now if
// now is nil. The input is assumed to be idle (in space).
func NewEdgeMeter(resolution time.Duration, now func() time.Time) *EdgeMeter {
	if now == nil {
		now = time.Now
	}
	if resolution <= 0 {
		resolution = time.Microsecond
	}
	m := &EdgeMeter{res: resolution, now: now}
	m.inSpace = 1
	m.since = now().UnixNano()
	return m
}

// Resolution returns the duration of one count.
func (m *EdgeMeter) Resolution() time.Duration {
	if m.res <= 0 {
		return time.Microsecond
	}
	return m.res
}

func (m *EdgeMeter) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *EdgeMeter) counts(d time.Duration) uint32 {
	n := d / m.Resolution()
	if n > 1<<32-1 {
		return 1<<32 - 1
	}
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// Edge records a level change of the input; mark is the new level.
func (m *EdgeMeter) Edge(mark bool) {
	t := m.clock().UnixNano()
	wasSpace := atomic.LoadUint32(&m.inSpace) == 1
	if mark && wasSpace {
		d := m.counts(time.Duration(t - atomic.LoadInt64(&m.since)))
		tail := atomic.LoadUint32(&m.tail)
		if tail-atomic.LoadUint32(&m.head) < edgeRingSize {
			m.ring[tail%edgeRingSize] = d
			atomic.StoreUint32(&m.tail, tail+1)
		}
	}
	if mark {
		atomic.StoreUint32(&m.inSpace, 0)
	} else {
		atomic.StoreUint32(&m.inSpace, 1)
	}
	atomic.StoreInt64(&m.since, t)
}

// Mark reports whether the input is in mark. A true result also discards
// spaces queued before the current mark began, so the first Measure after
// it sees the first space of the new transmission.
func (m *EdgeMeter) Mark() bool {
	if atomic.LoadUint32(&m.inSpace) == 1 {
		return false
	}
	atomic.StoreUint32(&m.head, atomic.LoadUint32(&m.tail))
	return true
}

func (m *EdgeMeter) pop() (uint32, bool) {
	head := atomic.LoadUint32(&m.head)
	if head == atomic.LoadUint32(&m.tail) {
		return 0, false
	}
	v := m.ring[head%edgeRingSize]
	atomic.StoreUint32(&m.head, head+1)
	return v, true
}

func (m *EdgeMeter) Measure(limit uint32) uint32 {
	for {
		if v, ok := m.pop(); ok {
			if v > limit {
				return limit
			}
			return v
		}
		if atomic.LoadUint32(&m.inSpace) == 1 {
			since := time.Unix(0, atomic.LoadInt64(&m.since))
			if m.counts(m.clock().Sub(since)) >= limit {
				return limit
			}
		}
	}
}
