// Package telemetry holds the node's measurement frame: a fixed-size record in
// which every field is always serialized and a flag byte marks which fields
// carry data.
package telemetry

import (
	"math"
	"strings"
	"time"
)

// FixedPointCelsius is a temperature in degrees Celsius times 10000.
type FixedPointCelsius int32

// FromCelsius rounds c to the nearest representable value, saturating at the int32 range.
func FromCelsius(c float64) FixedPointCelsius {
	v := math.Round(c * 10000)
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return FixedPointCelsius(v)
}

func (t FixedPointCelsius) Celsius() float64 { return float64(t) / 10000 }

// Acceleration holds raw accelerometer axis counts.
type Acceleration struct {
	X, Y, Z int16
}

// Flags is the per-field validity bitset. Only the low six bits are defined.
type Flags int8

// Has reports whether every bit in bits is set.
func (f Flags) Has(bits Flags) bool { return f&bits == bits }

func (f Flags) String() string {
	names := make([]string, 0, 6)
	for _, x := range []struct {
		bit  Flags
		name string
	}{
		{FlagAccX, "acc_x"},
		{FlagAccY, "acc_y"},
		{FlagAccZ, "acc_z"},
		{FlagTemp, "temp"},
		{FlagLux, "lux"},
		{FlagUptime, "uptime"},
	} {
		if f&x.bit != 0 {
			names = append(names, x.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Measurement is one telemetry frame. Fields whose flag bit is clear hold
// placeholders and must not be interpreted; use the accessor methods.
type Measurement struct {
	Type         uint16
	Flags        Flags
	Acc          Acceleration
	Temp         FixedPointCelsius
	Lux          int32
	UptimeMicros uint64
}

// NewMeasurement builds a frame with temperature and uptime always present and
// acceleration present only when accel is non-nil. Lux stays reserved.
func NewMeasurement(temp FixedPointCelsius, accel *Acceleration, uptimeMicros uint64) Measurement {
	m := Measurement{
		Type:         TypeMeasurement,
		Flags:        FlagTemp | FlagUptime,
		Temp:         temp,
		UptimeMicros: uptimeMicros,
	}
	if accel != nil {
		m.Flags |= FlagAcc
		m.Acc = *accel
	}
	return m
}

func (m Measurement) Temperature() (FixedPointCelsius, bool) {
	return m.Temp, m.Flags.Has(FlagTemp)
}

// Acceleration returns the axes only when all three axis bits are set.
func (m Measurement) Acceleration() (Acceleration, bool) {
	return m.Acc, m.Flags.Has(FlagAcc)
}

func (m Measurement) Uptime() (time.Duration, bool) {
	return time.Duration(m.UptimeMicros) * time.Microsecond, m.Flags.Has(FlagUptime)
}

func (m Measurement) LuxValue() (int32, bool) {
	return m.Lux, m.Flags.Has(FlagLux)
}
