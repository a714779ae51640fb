// Package sensor hides the node's sensor hardware behind a small
// read/power-mode contract.
package sensor

import (
	"cloudpico-node/internal/telemetry"
	"errors"
)

const (
	NameTemperature   = "temperature"
	NameAccelerometer = "accelerometer"
)

// Adapter is what the sample loop needs from the sensor hardware.
type Adapter interface {
	// Init powers down unrelated peripherals and configures both sensors.
	// A sensor that fails is disabled for the rest of the process; the
	// other one is still initialized. The returned error joins *InitError
	// values and is never fatal.
	Init() error
	ReadTemperature() (telemetry.FixedPointCelsius, error)
	SetAccelActive(active bool) error
	// ReadAcceleration is only valid while the accelerometer is active.
	ReadAcceleration() (telemetry.Acceleration, error)
}

type TemperatureSensor interface {
	// Configure sets the conversion precision.
	Configure() error
	ReadTemperature() (telemetry.FixedPointCelsius, error)
}

type Accelerometer interface {
	// Configure sets the sample rate and leaves the device in standby.
	Configure() error
	SetActive(active bool) error
	ReadAcceleration() (telemetry.Acceleration, error)
}

// PowerSwitch turns off a peripheral telemetry does not use.
type PowerSwitch interface {
	Name() string
	PowerDown() error
}

// Board is the Adapter over concrete drivers. Either sensor may be nil when it
// is not fitted; it then behaves like one that failed init.
type Board struct {
	Temperature   TemperatureSensor
	Accelerometer Accelerometer
	Peripherals   []PowerSwitch

	initialized bool
	tempOK      bool
	accelOK     bool
}

func (b *Board) Init() error {
	if b.initialized {
		return nil
	}
	b.initialized = true

	var errs []error
	for _, p := range b.Peripherals {
		if err := p.PowerDown(); err != nil {
			errs = append(errs, &InitError{Sensor: p.Name(), Err: err})
		}
	}

	if b.Temperature == nil {
		errs = append(errs, &InitError{Sensor: NameTemperature, Err: errors.New("not fitted")})
	} else if err := b.Temperature.Configure(); err != nil {
		errs = append(errs, &InitError{Sensor: NameTemperature, Err: err})
	} else {
		b.tempOK = true
	}

	if b.Accelerometer != nil {
		if err := b.Accelerometer.Configure(); err != nil {
			errs = append(errs, &InitError{Sensor: NameAccelerometer, Err: err})
		} else {
			b.accelOK = true
		}
	}

	return errors.Join(errs...)
}

func (b *Board) TemperatureAvailable() bool { return b.tempOK }
func (b *Board) AccelAvailable() bool       { return b.accelOK }

func (b *Board) ReadTemperature() (telemetry.FixedPointCelsius, error) {
	if !b.tempOK {
		return 0, &ReadError{Sensor: NameTemperature, Op: "read", Err: ErrUnavailable}
	}
	t, err := b.Temperature.ReadTemperature()
	if err != nil {
		return 0, &ReadError{Sensor: NameTemperature, Op: "read", Err: err}
	}
	return t, nil
}

func (b *Board) SetAccelActive(active bool) error {
	op := "standby"
	if active {
		op = "activate"
	}
	if !b.accelOK {
		return &ReadError{Sensor: NameAccelerometer, Op: op, Err: ErrUnavailable}
	}
	if err := b.Accelerometer.SetActive(active); err != nil {
		return &ReadError{Sensor: NameAccelerometer, Op: op, Err: err}
	}
	return nil
}

func (b *Board) ReadAcceleration() (telemetry.Acceleration, error) {
	if !b.accelOK {
		return telemetry.Acceleration{}, &ReadError{Sensor: NameAccelerometer, Op: "read", Err: ErrUnavailable}
	}
	a, err := b.Accelerometer.ReadAcceleration()
	if err != nil {
		return telemetry.Acceleration{}, &ReadError{Sensor: NameAccelerometer, Op: "read", Err: err}
	}
	return a, nil
}
