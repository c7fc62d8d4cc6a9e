package irknob

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBusy is returned by Send while a transmission is still in flight.
	ErrBusy = errors.New("irknob: transmission in progress")
	// ErrTiming reports an unusable transmit calibration.
	ErrTiming = errors.New("irknob: invalid timing")
	// ErrThresholds reports an unusable receive calibration.
	ErrThresholds = errors.New("irknob: invalid thresholds")
)

// Timing is the transmitter calibration. Every length is counted in ticks of
// the encoder clock, which runs at twice the carrier frequency so one tick is
// one carrier half period.
//
// The values are board specific: the stock ones were measured on an
// ATtiny running from its RC oscillator at 3V and must be re-measured for
// other hardware.
type Timing struct {
	CarrierHz    uint32 `json:"carrier_hz"`
	Burst        uint16 `json:"burst"`
	InitialBurst uint16 `json:"initial_burst"`
	ZeroPause    uint16 `json:"zero_pause"`
	OnePause     uint16 `json:"one_pause"`
	FinalPause   uint16 `json:"final_pause"`
}

// DefaultTiming returns the stock transmitter calibration: 22 carrier
// cycles per burst, four times that for the first one.
func DefaultTiming() Timing {
	return Timing{
		CarrierHz:    Freq38Khz,
		Burst:        2 * 22,
		InitialBurst: 4 * 2 * 22,
		ZeroPause:    28,
		OnePause:     105,
		FinalPause:   255,
	}
}

// Validate reports whether t can drive an Encoder.
func (t Timing) Validate() error {
	switch {
	case t.CarrierHz == 0:
		return fmt.Errorf("%w: zero carrier frequency", ErrTiming)
	case t.Burst == 0 || t.InitialBurst == 0:
		return fmt.Errorf("%w: zero burst length", ErrTiming)
	case t.ZeroPause == 0 || t.FinalPause == 0:
		return fmt.Errorf("%w: zero pause length", ErrTiming)
	case t.OnePause <= t.ZeroPause:
		return fmt.Errorf("%w: one pause (%d) must be longer than zero pause (%d)",
			ErrTiming, t.OnePause, t.ZeroPause,
		)
	}
	return nil
}

// TickPeriod is the duration of one encoder tick.
func (t Timing) TickPeriod() time.Duration {
	return time.Second / time.Duration(2*t.CarrierHz)
}

// Ticks returns the number of encoder ticks from Send until the encoder is
// idle again, assuming PollDone runs between every two ticks.
func (t Timing) Ticks(cmd Command) int {
	n := int(t.InitialBurst) + 32*int(t.Burst) + int(t.FinalPause)
	for bit := uint32(1) << 31; bit != 0; bit >>= 1 {
		if uint32(cmd)&bit != 0 {
			n += int(t.OnePause)
		} else {
			n += int(t.ZeroPause)
		}
	}
	return n
}

// Thresholds is the receiver calibration, in Meter counts.
// A space of at least One counts is a 1 bit; a space of at least End counts
// ends the transmission.
type Thresholds struct {
	One uint32 `json:"one"`
	End uint32 `json:"end"`
}

// spinThreshold was measured with SpinMeter on an ATmega at 8MHz.
const spinThreshold = 0x01CE

// DefaultThresholds returns the calibration for SpinMeter on the stock
// receiver. The end threshold is ten times the bit threshold; the factor
// was tuned by hand.
func DefaultThresholds() Thresholds {
	return Thresholds{
		One: spinThreshold,
		End: 10 * spinThreshold,
	}
}

// EdgeThresholds returns thresholds for an EdgeMeter of the given resolution
// receiving from a transmitter running t. Bits split halfway between the two
// pause lengths and the end threshold sits halfway between the one pause and
// the final pause, so the final pause after a command ends any read started
// by its trailing burst.
func (t Timing) EdgeThresholds(resolution time.Duration) Thresholds {
	tick := t.TickPeriod()
	at := func(a, b uint16) uint32 {
		return uint32((time.Duration(a) + time.Duration(b)) * tick / 2 / resolution)
	}
	return Thresholds{
		One: at(t.ZeroPause, t.OnePause),
		End: at(t.OnePause, t.FinalPause),
	}
}

// Validate reports whether th can drive a Decoder.
func (th Thresholds) Validate() error {
	if th.One == 0 || th.End <= th.One {
		return fmt.Errorf("%w: need 0 < one (%d) < end (%d)", ErrThresholds, th.One, th.End)
	}
	return nil
}

// CheckThresholds reports whether th, counted in units of resolution, can
// decode a transmitter running t: the bit threshold must fall between the
// two pause lengths and the end threshold between the one pause and the
// final pause. Thresholds measured for another meter fail the check.
func (t Timing) CheckThresholds(th Thresholds, resolution time.Duration) error {
	if err := th.Validate(); err != nil {
		return err
	}
	tick := t.TickPeriod()
	counts := func(ticks uint16) uint32 {
		return uint32(time.Duration(ticks) * tick / resolution)
	}
	var (
		zero  = counts(t.ZeroPause)
		one   = counts(t.OnePause)
		final = counts(t.FinalPause)
	)
	switch {
	case th.One <= zero || th.One > one:
		return fmt.Errorf("%w: one (%d) outside the pauses (%d, %d] at %v",
			ErrThresholds, th.One, zero, one, resolution,
		)
	case th.End <= one || th.End > final:
		return fmt.Errorf("%w: end (%d) outside (%d, %d] at %v",
			ErrThresholds, th.End, one, final, resolution,
		)
	}
	return nil
}
