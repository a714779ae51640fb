package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus opens a host I2C bus through periph and exposes it as the
// TinyGo drivers.I2C contract used by the sensor drivers.
type PeriphBus struct {
	bus i2c.BusCloser
}

// OpenPeriph initializes periph host drivers and opens the named bus; an
// empty name selects the first bus found.
func OpenPeriph(name string) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2c open %q: %w", name, err)
	}
	return &PeriphBus{bus: bus}, nil
}

func (b *PeriphBus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

func (b *PeriphBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.bus.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *PeriphBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return b.bus.Tx(uint16(addr), w, nil)
}

// Periph returns the underlying bus for periph-native device drivers.
func (b *PeriphBus) Periph() i2c.Bus { return b.bus }

func (b *PeriphBus) String() string { return b.bus.String() }

func (b *PeriphBus) Close() error { return b.bus.Close() }

// PinSwitch powers down a peripheral by driving a GPIO to a fixed level.
// The light sensor shutdown line on the reference board is active high.
type PinSwitch struct {
	Label string
	Pin   string
	Off   gpio.Level
}

func (p PinSwitch) Name() string { return p.Label }

func (p PinSwitch) PowerDown() error {
	pin := gpioreg.ByName(p.Pin)
	if pin == nil {
		return fmt.Errorf("gpio %q not found", p.Pin)
	}
	if err := pin.Out(p.Off); err != nil {
		return fmt.Errorf("gpio %s out: %w", p.Pin, err)
	}
	return nil
}
