//go:build tinygo

package irknob

import (
	. "machine"
	"time"

	"github.com/sparques/pwm"
)

// PinEmitter drives an IR LED from a plain output pin. The carrier is made
// by the tick handler toggling the pin, so Tick must run from a timer
// interrupt at exactly twice the carrier frequency.
type PinEmitter struct {
	pin   Pin
	level bool
}

func NewPinEmitter(pin Pin) *PinEmitter {
	pin.Configure(PinConfig{Mode: PinOutput})
	pin.Low()
	return &PinEmitter{pin: pin}
}

func (e *PinEmitter) Toggle() {
	e.level = !e.level
	e.pin.Set(e.level)
}

func (e *PinEmitter) Silence() {
	e.level = false
	e.pin.Low()
}

// TxDevice drives an IR LED from a PWM channel running at the carrier
// frequency. As an Emitter it only gates the carrier on and off, which makes
// it suitable for a Ticker that may deliver ticks late.
type TxDevice struct {
	pin    Pin
	pgroup pwm.Group
	ch     uint8
	duty   uint32
	freq   uint64
	on     bool
}

func NewTxDevice(pin Pin, carrierHz uint32) *TxDevice {
	if carrierHz == 0 {
		carrierHz = Freq38Khz
	}
	pin.Configure(PinConfig{Mode: PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(PWMConfig{Period: uint64(1e9) / uint64(carrierHz)})
	ch, _ := pgroup.Channel(pin)
	pgroup.Set(ch, 0)
	return &TxDevice{
		pin:    pin,
		pgroup: pgroup,
		ch:     ch,
		duty:   pgroup.Top() / 2,
		freq:   uint64(carrierHz),
	}
}

// Toggle implements Emitter. The first call of a burst starts the carrier.
func (tx *TxDevice) Toggle() {
	if tx.on {
		return
	}
	tx.pgroup.Set(tx.ch, tx.duty)
	tx.on = true
}

// Silence implements Emitter.
func (tx *TxDevice) Silence() {
	tx.pgroup.Set(tx.ch, 0)
	tx.on = false
}

// SendPair blocks while sending one burst followed by one pause.
func (tx *TxDevice) SendPair(pair TimePair) {
	tx.Toggle()
	time.Sleep(pair[0])
	tx.Silence()
	time.Sleep(pair[1])
}

// SendFrame sends a whole frame without an Encoder. The sleeping makes it
// unusable while the control loop has other work to do.
func (tx *TxDevice) SendFrame(fm FrameMarshaller) {
	for _, p := range fm.MarshalFrame() {
		tx.SendPair(p)
	}
}
