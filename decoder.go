package irknob

// Meter measures the receiver input.
//
// The demodulated input is in "mark" while a carrier burst is received and
// in "space" otherwise. Measure waits until the current mark is over, then
// counts how long the following space lasts, in implementation specific
// units. It stops counting at limit and returns limit in that case.
type Meter interface {
	Mark() bool
	Measure(limit uint32) uint32
}

// Decoder reassembles Commands from the space lengths reported by a Meter.
type Decoder struct {
	meter Meter
	th    Thresholds
}

// NewDecoder returns a Decoder classifying spaces from m with th.
func NewDecoder(m Meter, th Thresholds) (*Decoder, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{meter: m, th: th}, nil
}

// Pending reports whether a transmission is starting, i.e. the input is in
// mark. The control loop calls ReadCommand only when Pending is true.
func (dec *Decoder) Pending() bool {
	return dec.meter.Mark()
}

// ReadCommand reads one transmission and returns the number of complete
// bytes received together with the buffer. It blocks until 4 bytes are in
// or a space reaches the end threshold.
//
// Anything but n == 4 is noise or a truncated transmission, and buf must not
// be trusted.
func (dec *Decoder) ReadCommand() (n int, buf [CommandSize]byte) {
	bit := byte(0x80)
	for n < CommandSize {
		count := dec.meter.Measure(dec.th.End)
		if count >= dec.th.End {
			break
		}
		if count >= dec.th.One {
			buf[n] |= bit
		}
		bit >>= 1
		if bit == 0 {
			bit = 0x80
			n++
		}
	}
	return n, buf
}

// Receive reads one transmission and returns its Command.
// ok is false unless all 4 bytes were received.
func (dec *Decoder) Receive() (cmd Command, ok bool) {
	n, buf := dec.ReadCommand()
	if n != CommandSize {
		return 0, false
	}
	return CommandFromBytes(buf), true
}
