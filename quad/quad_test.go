package quad

import "testing"

// cycle is the gray-code sequence in the positive direction.
var cycle = [4]Phase{Phase00, Phase01, Phase11, Phase10}

func TestFirstUpdate(t *testing.T) {
	for _, p := range cycle {
		var dec Decoder
		if got := dec.Update(p); got != 0 {
			t.Fatalf("first update with %02b: got=%d, want=0", p, got)
		}
	}
}

func TestTransitions(t *testing.T) {
	for i, from := range cycle {
		for j, to := range cycle {
			var want int
			switch (j - i + 4) % 4 {
			case 1:
				want = +1
			case 3:
				want = -1
			}
			dec := New(PerPhase)
			dec.Update(from)
			if got := dec.Update(to); got != want {
				t.Fatalf("%02b -> %02b: got=%d, want=%d", from, to, got, want)
			}
		}
	}
}

func TestAdjacentWalk(t *testing.T) {
	// a pseudo random walk over adjacent phases.
	var (
		dec = New(PerPhase)
		pos = 0
		sum = 0
		rnd = uint32(1)
	)
	dec.Update(cycle[0])
	for i := 0; i < 1000; i++ {
		rnd = rnd*1664525 + 1013904223
		switch rnd >> 30 {
		case 0:
			// stay
		case 1, 2:
			pos++
		default:
			pos--
		}
		sum += dec.Update(cycle[((pos%4)+4)%4])
	}
	if sum != pos {
		t.Fatalf("got=%d, want=%d", sum, pos)
	}
}

func TestBounce(t *testing.T) {
	for i, a := range cycle {
		for _, b := range []Phase{cycle[(i+1)%4], cycle[(i+3)%4]} {
			dec := New(PerPhase)
			dec.Update(a)
			if got := dec.Update(b) + dec.Update(a); got != 0 {
				t.Fatalf("bounce %02b -> %02b -> %02b: got=%d, want=0", a, b, a, got)
			}
		}
	}
}

func TestJump(t *testing.T) {
	dec := New(PerPhase)
	dec.Update(Phase00)
	if got := dec.Update(Phase11); got != 0 {
		t.Fatalf("jump: got=%d, want=0", got)
	}
	// 11 is the new baseline.
	if got := dec.Update(Phase10); got != +1 {
		t.Fatalf("after jump: got=%d, want=+1", got)
	}
}

func TestPerDetent(t *testing.T) {
	dec := New(PerDetent)
	sum := 0
	// two full detents right, one left.
	for _, p := range []Phase{
		Phase00, Phase01, Phase11, Phase10, Phase00,
		Phase01, Phase11, Phase10, Phase00,
		Phase10, Phase11, Phase01, Phase00,
	} {
		sum += dec.Update(p)
	}
	if sum != 1 {
		t.Fatalf("got=%d, want=1", sum)
	}
}

func TestReset(t *testing.T) {
	dec := New(PerPhase)
	dec.Update(Phase00)
	dec.Reset()
	if got := dec.Update(Phase01); got != 0 {
		t.Fatalf("update after reset: got=%d, want=0", got)
	}
}

func TestSample(t *testing.T) {
	for _, tc := range []struct {
		a, b bool
		want Phase
	}{
		{false, false, Phase00},
		{true, false, Phase01},
		{false, true, Phase10},
		{true, true, Phase11},
	} {
		if got := Sample(tc.a, tc.b); got != tc.want {
			t.Fatalf("a=%v b=%v: got=%02b, want=%02b", tc.a, tc.b, got, tc.want)
		}
	}
}
