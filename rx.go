//go:build tinygo

package irknob

import (
	. "machine"
	"time"
)

// RxDevice is an EdgeMeter fed by pin-change interrupts on the output pin
// of a demodulating IR receiver.
type RxDevice struct {
	*EdgeMeter
	pin        Pin
	activeHigh bool
}

// NewRxDevice configures pin as an input. The most common receivers have a
// pull up builtin and pull the pin low on mark; set activeHigh for the
// others.
func NewRxDevice(pin Pin, resolution time.Duration, activeHigh bool) *RxDevice {
	pin.Configure(PinConfig{Mode: PinInput})
	return &RxDevice{
		EdgeMeter:  NewEdgeMeter(resolution, time.Now),
		pin:        pin,
		activeHigh: activeHigh,
	}
}

func (rx *RxDevice) interruptHandler(interruptPin Pin) {
	rx.Edge(interruptPin.Get() == rx.activeHigh)
}

// Start sets the interrupt handler and thus starts recording edges.
func (rx *RxDevice) Start() error {
	return rx.pin.SetInterrupt(PinFalling|PinRising, rx.interruptHandler)
}

// Stop disables the interrupt handler.
func (rx *RxDevice) Stop() error {
	return rx.pin.SetInterrupt(PinFalling|PinRising, nil)
}

// NewSpinDecoder returns a Decoder that busy-waits on pin, calibrated with
// DefaultThresholds.
func NewSpinDecoder(pin Pin) *Decoder {
	pin.Configure(PinConfig{Mode: PinInput})
	return &Decoder{
		meter: SpinMeter{In: pin},
		th:    DefaultThresholds(),
	}
}
