package sensor

import (
	"cloudpico-node/internal/telemetry"
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bme280"
)

// BME280 uses the TinyGo driver for Bosch BME280 boards, temperature only.
type BME280 struct {
	device bme280.Device
}

func NewBME280(bus drivers.I2C, addr uint16) *BME280 {
	d := bme280.New(bus)
	if addr != 0 {
		d.Address = addr
	}
	return &BME280{device: d}
}

func (s *BME280) Configure() error {
	if !s.device.Connected() {
		return errors.New("bme280: chip id mismatch")
	}
	s.device.Configure()
	return nil
}

func (s *BME280) ReadTemperature() (telemetry.FixedPointCelsius, error) {
	t, err := s.device.ReadTemperature()
	if err != nil {
		return 0, fmt.Errorf("bme280 read: %w", err)
	}
	// milli-degC
	return telemetry.FixedPointCelsius(t * 10), nil
}
