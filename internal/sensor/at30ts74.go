package sensor

import (
	"cloudpico-node/internal/telemetry"
	"fmt"

	"tinygo.org/x/drivers"
)

// AT30TS74 digital temperature sensor (Microchip, formerly Atmel).
// Temperature register is a 16-bit big-endian two's complement value in
// 1/256 degC steps, left aligned to the configured resolution.
const (
	AT30TS74Address = 0x48

	at30ts74RegTemp   = 0x00
	at30ts74RegConfig = 0x01
)

type Resolution uint8

const (
	Resolution9Bit Resolution = iota
	Resolution10Bit
	Resolution11Bit
	Resolution12Bit
)

type AT30TS74 struct {
	bus        drivers.I2C
	addr       uint16
	resolution Resolution
}

func NewAT30TS74(bus drivers.I2C, addr uint16, res Resolution) *AT30TS74 {
	if addr == 0 {
		addr = AT30TS74Address
	}
	return &AT30TS74{bus: bus, addr: addr, resolution: res}
}

// Configure writes the resolution bits (config register bits 14:13) and
// leaves the sensor in continuous conversion mode.
func (d *AT30TS74) Configure() error {
	if d.resolution > Resolution12Bit {
		return fmt.Errorf("at30ts74: invalid resolution %d", d.resolution)
	}
	msb := byte(d.resolution) << 5
	if err := d.bus.Tx(d.addr, []byte{at30ts74RegConfig, msb, 0x00}, nil); err != nil {
		return fmt.Errorf("at30ts74 config: %w", err)
	}
	return nil
}

func (d *AT30TS74) ReadTemperature() (telemetry.FixedPointCelsius, error) {
	var buf [2]byte
	if err := d.bus.Tx(d.addr, []byte{at30ts74RegTemp}, buf[:]); err != nil {
		return 0, fmt.Errorf("at30ts74 read: %w", err)
	}
	raw := int16(uint16(buf[0])<<8 | uint16(buf[1]))
	// raw/256 degC -> degC*10000 = raw*625/16
	return telemetry.FixedPointCelsius(int32(raw) * 625 / 16), nil
}
