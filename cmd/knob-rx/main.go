//go:build tinygo

// Command knob-rx is the firmware of the receiver. It decodes the commands
// sent by knob-tx, echoes them on the serial port and drives the attached
// peripherals:
//   - more/less step a digital potentiometer, saved in an EEPROM, shown on
//     an 8x8 LED matrix and a needle dial, and pulse a motor;
//   - b_on/boff switch an LED, bhld blinks it.
package main

import (
	"log"
	"machine"
	"time"

	"github.com/sparques/irknob"
	"github.com/sparques/irknob/actuator"
	"github.com/sparques/irknob/dispatch"
)

var (
	irIn   = machine.Pin(8) // demodulating receiver output
	csPin  = machine.Pin(10)
	motorA = machine.Pin(6)
	motorB = machine.Pin(7)
	ledPin = machine.LED

	dialPins = [4]machine.Pin{machine.Pin(14), machine.Pin(15), machine.Pin(16), machine.Pin(17)}
)

// spinMeter selects the busy-waiting meter of the stock receiver over the
// interrupt driven one.
const spinMeter = false

const (
	motorPulse    = 150 * time.Millisecond
	barBrightness = 4

	// 28BYJ-48 geared stepper, 128 levels over half a turn.
	dialStepsPerRev = 2048
	dialRPM         = 10
	dialPerLevel    = 8
)

func main() {
	msg := log.New(machine.Serial, "knob-rx: ", 0)

	dec, err := newDecoder()
	if err != nil {
		msg.Fatalf("could not create decoder: %+v", err)
	}

	err = machine.I2C0.Configure(machine.I2CConfig{})
	if err != nil {
		msg.Fatalf("could not configure I2C: %+v", err)
	}
	att, err := actuator.NewAttenuator(
		machine.I2C0,
		actuator.NewEEPROM(machine.I2C0),
		actuator.AttenuatorConfig{},
	)
	if err != nil {
		msg.Fatalf("could not create attenuator: %+v", err)
	}

	err = machine.SPI0.Configure(machine.SPIConfig{Frequency: 1000000})
	if err != nil {
		msg.Fatalf("could not configure SPI: %+v", err)
	}
	csPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	bar := actuator.NewBar(actuator.NewMatrix(machine.SPI0, csPin), barBrightness)
	bar.Show(att.Level(), att.Max())

	stepper, err := actuator.NewStepper(dialPins, dialStepsPerRev, dialRPM)
	if err != nil {
		msg.Fatalf("could not create dial stepper: %+v", err)
	}
	dial := actuator.NewDial(stepper, dialPerLevel)
	dial.Show(att.Level())

	led := actuator.NewIndicatorPin(ledPin)
	motor := actuator.NewMotor(actuator.NewHBridge(motorA, motorB), motorPulse)

	step := func(dir int, fn func() error) {
		if err := fn(); err != nil {
			msg.Printf("could not step attenuator: %+v", err)
		}
		bar.Show(att.Level(), att.Max())
		dial.Show(att.Level())
		motor.Run(dir, time.Now())
	}

	disp := dispatch.NewDispatcher()
	disp.Handle(irknob.CmdMore, func(irknob.Command) { step(+1, att.Up) })
	disp.Handle(irknob.CmdLess, func(irknob.Command) { step(-1, att.Down) })
	disp.Handle(irknob.CmdButtonOn, func(irknob.Command) { led.Set(true) })
	disp.Handle(irknob.CmdButtonOff, func(irknob.Command) { led.Set(false) })
	disp.Handle(irknob.CmdButtonHold, func(irknob.Command) { led.Toggle() })

	recv := dispatch.NewReceiver(dec, disp,
		dispatch.WithEcho(machine.Serial),
		dispatch.WithLogger(msg),
	)

	for {
		_, _, err := recv.Poll()
		if err != nil {
			msg.Printf("%+v", err)
		}
		motor.Update(time.Now())
	}
}

func newDecoder() (*irknob.Decoder, error) {
	if spinMeter {
		return irknob.NewSpinDecoder(irIn), nil
	}
	rx := irknob.NewRxDevice(irIn, time.Microsecond, false)
	if err := rx.Start(); err != nil {
		return nil, err
	}
	return irknob.NewDecoder(rx, irknob.DefaultTiming().EdgeThresholds(time.Microsecond))
}
