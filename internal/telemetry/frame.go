package telemetry

import (
	"encoding/binary"
	"fmt"
)

// Encode assembles and serializes a measurement in one step.
func Encode(temp FixedPointCelsius, accel *Acceleration, uptimeMicros uint64) []byte {
	m := NewMeasurement(temp, accel, uptimeMicros)
	return m.AppendBinary(make([]byte, 0, FrameSize))
}

// AppendBinary appends the FrameSize-byte encoding of m to b. Flags are written
// as given; fields are written whether or not their bit is set.
func (m Measurement) AppendBinary(b []byte) []byte {
	var data [FrameSize]byte
	binary.LittleEndian.PutUint16(data[offType:], m.Type)
	data[offFlags] = byte(m.Flags)
	binary.LittleEndian.PutUint16(data[offAccX:], uint16(m.Acc.X))
	binary.LittleEndian.PutUint16(data[offAccY:], uint16(m.Acc.Y))
	binary.LittleEndian.PutUint16(data[offAccZ:], uint16(m.Acc.Z))
	binary.LittleEndian.PutUint32(data[offTemperature:], uint32(m.Temp))
	binary.LittleEndian.PutUint32(data[offLux:], uint32(m.Lux))
	binary.LittleEndian.PutUint64(data[offUptime:], m.UptimeMicros)
	return append(b, data[:]...)
}

func (m Measurement) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(make([]byte, 0, FrameSize)), nil
}

// Decode parses one frame. Unknown high flag bits are kept as received.
func Decode(data []byte) (Measurement, error) {
	if len(data) != FrameSize {
		return Measurement{}, fmt.Errorf("%w: %d, want %d", ErrFrameSize, len(data), FrameSize)
	}
	typ := binary.LittleEndian.Uint16(data[offType:])
	if typ != TypeMeasurement {
		return Measurement{}, fmt.Errorf("%w: %d", ErrFrameType, typ)
	}
	return Measurement{
		Type:  typ,
		Flags: Flags(data[offFlags]),
		Acc: Acceleration{
			X: int16(binary.LittleEndian.Uint16(data[offAccX:])),
			Y: int16(binary.LittleEndian.Uint16(data[offAccY:])),
			Z: int16(binary.LittleEndian.Uint16(data[offAccZ:])),
		},
		Temp:         FixedPointCelsius(int32(binary.LittleEndian.Uint32(data[offTemperature:]))),
		Lux:          int32(binary.LittleEndian.Uint32(data[offLux:])),
		UptimeMicros: binary.LittleEndian.Uint64(data[offUptime:]),
	}, nil
}

func (m *Measurement) UnmarshalBinary(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
