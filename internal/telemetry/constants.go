package telemetry

// Measurement frame layout, packed little-endian, no padding:
//
//	Type(2) | Flags(1) | AccX(2) | AccY(2) | AccZ(2) | Temperature(4) | Lux(4) | Uptime(8)
//
// Every field is always present on the wire; Flags tells which ones hold data.
const (
	// TypeMeasurement is the schema tag carried by every frame of this layout.
	TypeMeasurement uint16 = 4

	FrameSize = 25

	offType        = 0
	offFlags       = 2
	offAccX        = 3
	offAccY        = 5
	offAccZ        = 7
	offTemperature = 9
	offLux         = 13
	offUptime      = 17

	// MulticastAddr and MulticastPort are the link-scoped destination nodes send to.
	MulticastAddr = "ff02::1"
	MulticastPort = 4747
)

// Flags bits, bit 0 is acc_x.
const (
	FlagAccX   Flags = 0x01
	FlagAccY   Flags = 0x02
	FlagAccZ   Flags = 0x04
	FlagAcc    Flags = FlagAccX | FlagAccY | FlagAccZ
	FlagTemp   Flags = 0x08
	FlagLux    Flags = 0x10
	FlagUptime Flags = 0x20
)
