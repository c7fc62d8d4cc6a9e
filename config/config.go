// Package config loads the calibration of a transmitter/receiver pair from
// a JSON5 file, so measurements can be annotated.
//
// Example:
//
//	{
//	  // RC oscillator runs 3.87% slow at 3V
//	  "transmit": {"carrier_hz": 39470, "zero_pause": 28, "one_pause": 105},
//	  // edge meter, microseconds
//	  "receive":  {"one": 874, "end": 2368}
//	}
//
// Missing transmit values take the stock calibration. Receive thresholds
// are counted in the unit of the meter they were measured with, so they are
// either given in full or left out; when left out the receiver picks the
// default of its own meter (see Calibration.Thresholds).
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/flynn/json5"

	"github.com/sparques/irknob"
)

// Calibration holds the board specific constants of both nodes.
type Calibration struct {
	Transmit irknob.Timing     `json:"transmit"`
	Receive  irknob.Thresholds `json:"receive"`
}

// Default returns the stock calibration. It carries no receive thresholds.
func Default() *Calibration {
	return &Calibration{
		Transmit: irknob.DefaultTiming(),
	}
}

// Thresholds returns the receive thresholds of the calibration, or def when
// it has none. def must be in the unit of the meter the thresholds will be
// fed to.
func (c *Calibration) Thresholds(def irknob.Thresholds) irknob.Thresholds {
	if c.Receive == (irknob.Thresholds{}) {
		return def
	}
	return c.Receive
}

// Load parses a JSON calibration and fills in the missing values.
func Load(data []byte) (*Calibration, error) {
	var cfg Calibration
	err := json5.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: could not decode calibration: %w", err)
	}

	err = applyDefaults(&cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Transmit.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Receive != (irknob.Thresholds{}) {
		if err := cfg.Receive.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return &cfg, nil
}

// LoadFile reads and parses the calibration file at path.
func LoadFile(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not read calibration file: %w", err)
	}
	return Load(data)
}

// applyDefaults fills in missing transmit values with the stock ones
func applyDefaults(cfg *Calibration) error {
	tx := irknob.DefaultTiming()

	if cfg.Transmit.CarrierHz == 0 {
		cfg.Transmit.CarrierHz = tx.CarrierHz
	}
	if cfg.Transmit.Burst == 0 {
		cfg.Transmit.Burst = tx.Burst
	}
	if cfg.Transmit.InitialBurst == 0 {
		ib := 4 * uint32(cfg.Transmit.Burst)
		if ib > math.MaxUint16 {
			return fmt.Errorf("%w: initial burst of 4*%d ticks overflows, set initial_burst",
				irknob.ErrTiming, cfg.Transmit.Burst,
			)
		}
		cfg.Transmit.InitialBurst = uint16(ib)
	}
	if cfg.Transmit.ZeroPause == 0 {
		cfg.Transmit.ZeroPause = tx.ZeroPause
	}
	if cfg.Transmit.OnePause == 0 {
		cfg.Transmit.OnePause = tx.OnePause
	}
	if cfg.Transmit.FinalPause == 0 {
		cfg.Transmit.FinalPause = tx.FinalPause
	}
	return nil
}
