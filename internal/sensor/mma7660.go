package sensor

import (
	"cloudpico-node/internal/telemetry"
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// MMA7660 3-axis 6-bit accelerometer (Freescale).
const (
	MMA7660Address = 0x4C

	mma7660RegXOut = 0x00
	mma7660RegMode = 0x07
	mma7660RegSR   = 0x08

	mma7660ModeActive = 0x01
	mma7660Alert      = 0x40
	mma7660Value      = 0x3F
	mma7660Sign       = 0x20

	mma7660ReadAttempts = 3
)

// Active mode sample rates (SR register AMSR bits 2:0).
const (
	MMA7660AM120 uint8 = iota
	MMA7660AM64
	MMA7660AM32
	MMA7660AM16
	MMA7660AM8
	MMA7660AM4
	MMA7660AM2
	MMA7660AM1
)

// Auto-wake sample rates (SR register AWSR bits 4:3).
const (
	MMA7660AW32 uint8 = iota
	MMA7660AW16
	MMA7660AW8
	MMA7660AW1
)

var errMMA7660Alert = errors.New("mma7660: register update collision")

type MMA7660 struct {
	bus  drivers.I2C
	addr uint16

	// SampleRate register fields, written by Configure.
	ActiveRate uint8
	WakeRate   uint8
	Filter     uint8
}

// NewMMA7660 returns a driver configured for the slowest rates and a single
// sample filter, the lowest power setting.
func NewMMA7660(bus drivers.I2C, addr uint16) *MMA7660 {
	if addr == 0 {
		addr = MMA7660Address
	}
	return &MMA7660{
		bus:        bus,
		addr:       addr,
		ActiveRate: MMA7660AM1,
		WakeRate:   MMA7660AW1,
		Filter:     1,
	}
}

// Configure puts the device in standby, which the SR register requires for
// writes, and programs the sample rate.
func (d *MMA7660) Configure() error {
	if err := d.SetActive(false); err != nil {
		return err
	}
	sr := d.ActiveRate&0x07 | (d.WakeRate&0x03)<<3 | (d.Filter&0x07)<<5
	if err := d.bus.Tx(d.addr, []byte{mma7660RegSR, sr}, nil); err != nil {
		return fmt.Errorf("mma7660 sample rate: %w", err)
	}
	return nil
}

func (d *MMA7660) SetActive(active bool) error {
	var mode byte
	if active {
		mode = mma7660ModeActive
	}
	if err := d.bus.Tx(d.addr, []byte{mma7660RegMode, mode}, nil); err != nil {
		return fmt.Errorf("mma7660 mode: %w", err)
	}
	return nil
}

// ReadAcceleration reads XOUT..ZOUT, retrying while the alert bit reports a
// read that collided with a register update.
func (d *MMA7660) ReadAcceleration() (telemetry.Acceleration, error) {
	var buf [3]byte
	for i := 0; i < mma7660ReadAttempts; i++ {
		if err := d.bus.Tx(d.addr, []byte{mma7660RegXOut}, buf[:]); err != nil {
			return telemetry.Acceleration{}, fmt.Errorf("mma7660 read: %w", err)
		}
		if (buf[0]|buf[1]|buf[2])&mma7660Alert != 0 {
			continue
		}
		return telemetry.Acceleration{
			X: mma7660Axis(buf[0]),
			Y: mma7660Axis(buf[1]),
			Z: mma7660Axis(buf[2]),
		}, nil
	}
	return telemetry.Acceleration{}, errMMA7660Alert
}

// mma7660Axis sign-extends a 6-bit two's complement sample.
func mma7660Axis(b byte) int16 {
	v := int16(b & mma7660Value)
	if v&mma7660Sign != 0 {
		v -= 64
	}
	return v
}
