// Package quad decodes the two contacts of a rotary quadrature encoder.
//
// The contacts run through the gray code 00, 01, 11, 10 in one direction
// and backwards in the other. A step to the gray-code successor counts +1,
// a step to the predecessor -1. Repeats and jumps over a phase count 0.
//
// Contact bounce between two adjacent phases therefore yields an alternating
// +1/-1 that sums to zero instead of a runaway count.
package quad

// Phase is the level of the two contacts, B in bit 1 and A in bit 0.
type Phase uint8

const (
	Phase00 Phase = 0b00
	Phase01 Phase = 0b01
	Phase10 Phase = 0b10
	Phase11 Phase = 0b11
)

// Sample packs the levels of contacts a and b into a Phase.
func Sample(a, b bool) Phase {
	var p Phase
	if a {
		p |= 0b01
	}
	if b {
		p |= 0b10
	}
	return p
}

// Mode selects how many counts one detent of the knob produces.
type Mode uint8

const (
	// PerPhase counts every gray-code step. Knobs with one step per detent.
	PerPhase Mode = iota
	// PerDetent only counts the step into 11, for knobs running through
	// the whole cycle between two detents.
	PerDetent
)

// successor[p] is the phase after p in the positive direction.
var successor = [4]Phase{
	Phase00: Phase01,
	Phase01: Phase11,
	Phase11: Phase10,
	Phase10: Phase00,
}

// Decoder turns a stream of phases into signed steps.
// The zero value is a PerPhase decoder that has not seen a phase yet.
type Decoder struct {
	mode Mode
	prev Phase
	init bool
}

// New returns a Decoder in the given mode.
func New(mode Mode) *Decoder {
	return &Decoder{mode: mode}
}

// Update returns the step from the previous phase to p: +1, -1 or 0.
// The first call returns 0. p always becomes the new previous phase, even
// when the transition was illegal.
func (dec *Decoder) Update(p Phase) int {
	p &= 0b11
	prev, ok := dec.prev, dec.init
	dec.prev, dec.init = p, true
	if !ok {
		return 0
	}

	switch dec.mode {
	case PerDetent:
		if p != Phase11 {
			return 0
		}
		switch prev {
		case Phase01:
			return +1
		case Phase10:
			return -1
		}
		return 0
	default:
		switch p {
		case successor[prev]:
			return +1
		case successor[successor[successor[prev]]]:
			return -1
		}
		return 0
	}
}

// Reset forgets the previous phase.
func (dec *Decoder) Reset() {
	dec.init = false
}
