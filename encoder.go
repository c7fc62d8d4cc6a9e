package irknob

// Emitter is the optical output driven by an Encoder.
//
// Toggle is called from the tick handler once per tick while a burst is on
// the air, so it must be cheap and must not block. Silence turns the output
// off and is called at the end of every burst.
type Emitter interface {
	Toggle()
	Silence()
}

type sendState uint8

const (
	stateIdle       sendState = iota
	stateBurst                // carrier on; longer for the first bit
	stateBitPause             // silence whose length is the current bit
	stateFinalPause           // guard time between two commands
)

func (s sendState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateBurst:
		return "burst"
	case stateBitPause:
		return "bit-pause"
	case stateFinalPause:
		return "final-pause"
	}
	return "invalid"
}

// phase is the part of a session shared with the tick handler.
// It is only ever read or replaced as a whole, inside a critical section.
type phase struct {
	state     sendState
	countdown uint16
}

// Encoder puts Commands on the air.
//
// Tick must be called at twice the carrier frequency, typically from a timer
// interrupt. PollDone must be called from the control loop at least once per
// iteration while a transmission is in flight: state changes happen there,
// not in Tick, so a transmission stalls if nobody polls.
//
// Only one transmission is in flight at a time. Callers check PollDone
// before calling Send; Send on a busy encoder fails with ErrBusy and leaves
// the transmission alone.
type Encoder struct {
	timing Timing
	out    Emitter

	cur phase // shared with Tick

	// owned by the polling side.
	data uint32
	bit  uint32 // next bit to encode, 0 once all 32 are out
}

// NewEncoder returns an idle Encoder writing to out.
func NewEncoder(t Timing, out Emitter) (*Encoder, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{timing: t, out: out}, nil
}

// Timing returns the calibration the encoder runs with.
func (enc *Encoder) Timing() Timing { return enc.timing }

// Send starts transmitting cmd.
func (enc *Encoder) Send(cmd Command) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if enc.cur.state != stateIdle {
		return ErrBusy
	}
	enc.data = uint32(cmd)
	enc.bit = 1 << 31
	enc.cur = phase{state: stateBurst, countdown: enc.timing.InitialBurst}
	return nil
}

// PollDone reports whether the encoder is idle. If the current phase of the
// transmission has run out it moves the transmission to its next phase.
func (enc *Encoder) PollDone() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	switch {
	case enc.cur.state == stateIdle:
		return true
	case enc.cur.countdown == 0:
		enc.advance()
	}
	return false
}

// advance switches to the phase after the current one. Interrupts are
// disabled, so the tick handler sees either the old or the new phase.
func (enc *Encoder) advance() {
	t := &enc.timing
	switch enc.cur.state {
	case stateBurst:
		enc.out.Silence()
		if enc.bit == 0 {
			enc.cur = phase{state: stateFinalPause, countdown: t.FinalPause}
			return
		}
		pause := t.ZeroPause
		if enc.data&enc.bit != 0 {
			pause = t.OnePause
		}
		enc.cur = phase{state: stateBitPause, countdown: pause}
	case stateBitPause:
		enc.bit >>= 1
		enc.cur = phase{state: stateBurst, countdown: t.Burst}
	case stateFinalPause:
		enc.out.Silence()
		enc.cur = phase{state: stateIdle}
	}
}

// Tick advances the carrier by one half period. It is the only method that
// may be called from interrupt context.
func (enc *Encoder) Tick() {
	state := disableInterrupts()
	if enc.cur.countdown != 0 {
		if enc.cur.state == stateBurst {
			enc.out.Toggle()
		}
		enc.cur.countdown--
	}
	restoreInterrupts(state)
}
