//go:build tinygo

package actuator

import (
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/easystepper"
	"tinygo.org/x/drivers/l9110x"
	"tinygo.org/x/drivers/max72xx"
)

// NewMatrix returns a MAX72xx on an already configured SPI bus.
func NewMatrix(bus drivers.SPI, cs machine.Pin) *max72xx.Device {
	dev := max72xx.NewDevice(bus, cs)
	dev.Configure()
	return dev
}

// NewHBridge returns an L9110 H-bridge on two direction pins.
func NewHBridge(ia, ib machine.Pin) *l9110x.Device {
	dev := l9110x.New(ia, ib)
	dev.Configure()
	return &dev
}

// NewIndicatorPin configures pin as an output for an Indicator.
func NewIndicatorPin(pin machine.Pin) *Indicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return NewIndicator(pin)
}

// NewStepper returns a 4-wire stepper motor on pins, turning at rpm.
func NewStepper(pins [4]machine.Pin, stepsPerRev, rpm uint) (*easystepper.Device, error) {
	dev, err := easystepper.New(easystepper.DeviceConfig{
		Pin1:      pins[0],
		Pin2:      pins[1],
		Pin3:      pins[2],
		Pin4:      pins[3],
		StepCount: stepsPerRev,
		RPM:       rpm,
	})
	if err != nil {
		return nil, err
	}
	dev.Configure()
	return dev, nil
}
