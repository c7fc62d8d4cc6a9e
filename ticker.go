package irknob

import "time"

// Ticker drives an Encoder from a clock instead of a timer interrupt.
// Each call to Run issues one Tick per tick period elapsed since the
// previous call and polls the encoder between ticks, so a late call catches
// up without stalling the transmission.
//
// Catching up squeezes carrier half periods together; use it with an
// Emitter whose carrier comes from hardware, such as TxDevice.
type Ticker struct {
	enc    *Encoder
	period time.Duration
	last   time.Time
	primed bool
}

// NewTicker returns a Ticker for enc at the encoder's tick period.
func NewTicker(enc *Encoder) *Ticker {
	return &Ticker{
		enc:    enc,
		period: enc.timing.TickPeriod(),
	}
}

// Run issues the ticks due at now and returns how many it issued.
// The first call only records now.
func (tk *Ticker) Run(now time.Time) int {
	if !tk.primed {
		tk.last = now
		tk.primed = true
		return 0
	}
	elapsed := now.Sub(tk.last)
	if elapsed < tk.period {
		return 0
	}
	n := int(elapsed / tk.period)
	for i := 0; i < n; i++ {
		tk.enc.Tick()
		tk.enc.PollDone()
	}
	tk.last = tk.last.Add(time.Duration(n) * tk.period)
	return n
}
