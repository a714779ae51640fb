package sensor

import (
	"cloudpico-node/internal/telemetry"
)

// SimTemperature produces a slow triangle wave around Base, one Step per read,
// reversing after Span steps.
type SimTemperature struct {
	Base telemetry.FixedPointCelsius
	Step telemetry.FixedPointCelsius
	Span int

	n int
}

func (s *SimTemperature) Configure() error { return nil }

func (s *SimTemperature) ReadTemperature() (telemetry.FixedPointCelsius, error) {
	span := s.Span
	if span <= 0 {
		span = 1
	}
	phase := s.n % (2 * span)
	if phase > span {
		phase = 2*span - phase
	}
	s.n++
	return s.Base + telemetry.FixedPointCelsius(phase)*s.Step, nil
}

// SimAccelerometer reports a board lying flat: 1 g on Z, which is 21 counts
// at the MMA7660's 1.5 g full scale.
type SimAccelerometer struct {
	active bool
}

func (s *SimAccelerometer) Configure() error { return s.SetActive(false) }

func (s *SimAccelerometer) SetActive(active bool) error {
	s.active = active
	return nil
}

func (s *SimAccelerometer) ReadAcceleration() (telemetry.Acceleration, error) {
	if !s.active {
		return telemetry.Acceleration{}, nil
	}
	return telemetry.Acceleration{X: 0, Y: 0, Z: 21}, nil
}

// NewSimBoard returns a board with simulated sensors around 21.5 degC.
func NewSimBoard() *Board {
	return &Board{
		Temperature:   &SimTemperature{Base: 215000, Step: 625, Span: 16},
		Accelerometer: &SimAccelerometer{},
	}
}
