package actuator

// Pin is a digital output. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// Indicator is an LED following the button of the transmitter.
type Indicator struct {
	pin Pin
	on  bool
}

// NewIndicator returns an Indicator with the LED off.
func NewIndicator(pin Pin) *Indicator {
	pin.Low()
	return &Indicator{pin: pin}
}

func (ind *Indicator) On() bool { return ind.on }

func (ind *Indicator) Set(on bool) {
	ind.on = on
	if on {
		ind.pin.High()
	} else {
		ind.pin.Low()
	}
}

func (ind *Indicator) Toggle() { ind.Set(!ind.on) }
