package irknob

import (
	"testing"
	"time"
)

// pinLevels plays back pin levels, one per Get. Past the end the pin idles
// high.
type pinLevels struct {
	levels []bool
}

func (p *pinLevels) Get() bool {
	if len(p.levels) == 0 {
		return true
	}
	v := p.levels[0]
	p.levels = p.levels[1:]
	return v
}

func levels(runs ...int) []bool {
	// runs alternates lengths: low, high, low, ...
	var out []bool
	lvl := false
	for _, n := range runs {
		for i := 0; i < n; i++ {
			out = append(out, lvl)
		}
		lvl = !lvl
	}
	return out
}

func TestSpinMeter(t *testing.T) {
	pin := &pinLevels{levels: levels(3, 5, 3, 9, 2)}
	m := SpinMeter{In: pin}

	if !m.Mark() {
		t.Fatalf("low input is not mark")
	}
	// the read that ends the mark is not counted.
	if got, want := m.Measure(100), uint32(4); got != want {
		t.Fatalf("first space: got=%d, want=%d", got, want)
	}
	if got, want := m.Measure(100), uint32(8); got != want {
		t.Fatalf("second space: got=%d, want=%d", got, want)
	}
	if got, want := m.Measure(50), uint32(50); got != want {
		t.Fatalf("idle: got=%d, want=%d", got, want)
	}
}

func TestSpinMeterActiveHigh(t *testing.T) {
	pin := &pinLevels{levels: []bool{true, true, false, false, false, true}}
	m := SpinMeter{In: pin, ActiveHigh: true}
	if !m.Mark() {
		t.Fatalf("high input is not mark")
	}
	if got, want := m.Measure(100), uint32(2); got != want {
		t.Fatalf("got=%d, want=%d", got, want)
	}
}

type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func (c *fakeClock) at(us int) {
	c.t = time.Unix(0, 0).Add(time.Duration(us) * time.Microsecond)
}

func TestEdgeMeter(t *testing.T) {
	clk := new(fakeClock)
	clk.at(0)
	m := NewEdgeMeter(time.Microsecond, clk.now)

	if m.Mark() {
		t.Fatalf("new meter in mark")
	}

	clk.at(5000)
	m.Edge(true)
	if !m.Mark() {
		t.Fatalf("meter not in mark after mark edge")
	}

	for _, e := range []struct {
		us   int
		mark bool
	}{
		{5100, false},
		{5400, true},
		{5450, false},
		{6450, true},
		{6500, false},
	} {
		clk.at(e.us)
		m.Edge(e.mark)
	}

	if got, want := m.Measure(5000), uint32(300); got != want {
		t.Fatalf("first space: got=%d, want=%d", got, want)
	}
	if got, want := m.Measure(500), uint32(500); got != want {
		t.Fatalf("clipped space: got=%d, want=%d", got, want)
	}

	clk.at(6500)
	clk.step = 10 * time.Microsecond
	if got, want := m.Measure(200), uint32(200); got != want {
		t.Fatalf("end of signal: got=%d, want=%d", got, want)
	}
}

func TestEdgeMeterMarkDropsStaleSpaces(t *testing.T) {
	clk := new(fakeClock)
	clk.at(0)
	m := NewEdgeMeter(time.Microsecond, clk.now)

	clk.at(100)
	m.Edge(true)
	clk.at(200)
	m.Edge(false)
	clk.at(90000)
	m.Edge(true) // start of the next transmission

	if !m.Mark() {
		t.Fatalf("meter not in mark")
	}
	clk.at(90100)
	m.Edge(false)
	clk.at(90130)
	m.Edge(true)

	if got, want := m.Measure(1000), uint32(30); got != want {
		t.Fatalf("got=%d, want=%d", got, want)
	}
}

func TestEdgeMeterOverflow(t *testing.T) {
	clk := new(fakeClock)
	clk.at(0)
	m := NewEdgeMeter(time.Microsecond, clk.now)
	clk.at(1)
	m.Edge(true)
	m.Mark()

	us := 1
	for i := 0; i < 2*edgeRingSize; i++ {
		us += 10
		clk.at(us)
		m.Edge(false)
		us += i + 1
		clk.at(us)
		m.Edge(true)
	}
	for i := 0; i < edgeRingSize; i++ {
		if got, want := m.Measure(1000), uint32(i+1); got != want {
			t.Fatalf("space %d: got=%d, want=%d", i, got, want)
		}
	}
	if _, ok := m.pop(); ok {
		t.Fatalf("ring kept more than %d spaces", edgeRingSize)
	}
}

func TestEdgeMeterZeroResolution(t *testing.T) {
	clk := new(fakeClock)
	clk.at(0)
	m := &EdgeMeter{now: clk.now}
	if got, want := m.Resolution(), time.Microsecond; got != want {
		t.Fatalf("got=%v, want=%v", got, want)
	}

	m.Edge(false)
	clk.at(250)
	m.Edge(true)
	if got, want := m.Measure(1000), uint32(250); got != want {
		t.Fatalf("got=%d, want=%d", got, want)
	}

	m = NewEdgeMeter(-time.Second, clk.now)
	if got, want := m.Resolution(), time.Microsecond; got != want {
		t.Fatalf("negative resolution: got=%v, want=%v", got, want)
	}
}

func TestEdgeMeterZeroValue(t *testing.T) {
	var m EdgeMeter
	m.Edge(false)
	m.Edge(true)
	if !m.Mark() {
		t.Fatalf("meter not in mark")
	}
	m.Edge(false)
	if m.Mark() {
		t.Fatalf("meter in mark after space edge")
	}
}
