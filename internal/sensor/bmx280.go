package sensor

import (
	"cloudpico-node/internal/telemetry"
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// BMx280 uses the periph driver for BMP280/BME280 boards, temperature only.
type BMx280 struct {
	bus  i2c.Bus
	addr uint16
	dev  *bmxx80.Dev
}

func NewBMx280(bus i2c.Bus, addr uint16) *BMx280 {
	if addr == 0 {
		addr = 0x76
	}
	return &BMx280{bus: bus, addr: addr}
}

func (s *BMx280) Configure() error {
	dev, err := bmxx80.NewI2C(s.bus, s.addr, &bmxx80.DefaultOpts)
	if err != nil {
		return fmt.Errorf("bmxx80: %w", err)
	}
	s.dev = dev
	return nil
}

func (s *BMx280) ReadTemperature() (telemetry.FixedPointCelsius, error) {
	if s.dev == nil {
		return 0, errors.New("bmxx80: not configured")
	}
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return 0, fmt.Errorf("bmxx80 sense: %w", err)
	}
	return celsiusFromPhysic(env.Temperature), nil
}

func (s *BMx280) Halt() error {
	if s.dev == nil {
		return nil
	}
	return s.dev.Halt()
}

// celsiusFromPhysic converts nano-kelvin to degC*10000 (1e5 nK per step).
func celsiusFromPhysic(t physic.Temperature) telemetry.FixedPointCelsius {
	return telemetry.FixedPointCelsius((t - physic.ZeroCelsius) / 100000)
}
