package actuator

import (
	"fmt"
	"io"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/at24cx"
)

// DefaultPotAddress is the I2C address of an MCP4018 digital potentiometer.
const DefaultPotAddress = 0x2F

// Store keeps the attenuator level across power cycles.
// *at24cx.Device satisfies it.
type Store interface {
	io.ReaderAt
	io.WriterAt
}

// NewEEPROM returns an AT24Cxx EEPROM on bus, ready to be used as a Store.
func NewEEPROM(bus drivers.I2C) *at24cx.Device {
	dev := at24cx.New(bus)
	dev.Configure(at24cx.Config{})
	return &dev
}

type AttenuatorConfig struct {
	// Address of the potentiometer; DefaultPotAddress if zero.
	Address uint16
	// Max is the highest wiper position; 127 if zero.
	Max uint8
	// Offset of the level byte in the Store.
	Offset int64
}

// Attenuator sets the wiper of an I2C digital potentiometer that takes the
// wiper position as a single byte write.
type Attenuator struct {
	bus   drivers.I2C
	store Store
	cfg   AttenuatorConfig
	level uint8
}

// NewAttenuator restores the level saved in store, or starts at 0 when
// store is nil or holds no valid level, and writes it to the potentiometer.
func NewAttenuator(bus drivers.I2C, store Store, cfg AttenuatorConfig) (*Attenuator, error) {
	if cfg.Address == 0 {
		cfg.Address = DefaultPotAddress
	}
	if cfg.Max == 0 {
		cfg.Max = 127
	}
	att := &Attenuator{bus: bus, store: store, cfg: cfg}
	if store != nil {
		var buf [1]byte
		_, err := store.ReadAt(buf[:], cfg.Offset)
		if err != nil {
			return nil, fmt.Errorf("actuator: could not restore attenuator level: %w", err)
		}
		if buf[0] <= cfg.Max {
			att.level = buf[0]
		}
	}
	if err := att.write(); err != nil {
		return nil, err
	}
	return att, nil
}

func (att *Attenuator) Level() uint8 { return att.level }
func (att *Attenuator) Max() uint8   { return att.cfg.Max }

// Up raises the level by one step, stopping at Max.
func (att *Attenuator) Up() error {
	if att.level >= att.cfg.Max {
		return nil
	}
	return att.Set(att.level + 1)
}

// Down lowers the level by one step, stopping at 0.
func (att *Attenuator) Down() error {
	if att.level == 0 {
		return nil
	}
	return att.Set(att.level - 1)
}

// Set moves the wiper to level, clamped to Max, and saves it.
func (att *Attenuator) Set(level uint8) error {
	if level > att.cfg.Max {
		level = att.cfg.Max
	}
	att.level = level
	if err := att.write(); err != nil {
		return err
	}
	if att.store == nil {
		return nil
	}
	_, err := att.store.WriteAt([]byte{level}, att.cfg.Offset)
	if err != nil {
		return fmt.Errorf("actuator: could not save attenuator level: %w", err)
	}
	return nil
}

func (att *Attenuator) write() error {
	err := att.bus.Tx(att.cfg.Address, []byte{att.level}, nil)
	if err != nil {
		return fmt.Errorf("actuator: could not set wiper to %d: %w", att.level, err)
	}
	return nil
}
