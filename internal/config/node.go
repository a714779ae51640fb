package config

import (
	"cloudpico-node/internal/dutycycle"
	"cloudpico-node/internal/telemetry"
	"fmt"
	"strconv"
	"time"
)

type Node struct {
	Base

	SampleInterval time.Duration
	AccelEnabled   bool
	AccelPeriod    uint32

	MulticastAddr string
	MulticastPort int
	Interfaces    []string

	SensorDriver  string
	I2CBus        string
	TempSensor    string
	TempAddr      uint16
	AccelAddr     uint16
	LightPowerPin string

	RadioDriver       string
	RadioSysfsRoot    string
	RadioExplicitWake bool
}

func defaultTempAddr(sensor string) string {
	switch sensor {
	case "bme280", "bmx280":
		return "0x76"
	default:
		return "0x48"
	}
}

func LoadNodeFromEnv() (Node, error) {
	base, err := loadBase()
	if err != nil {
		return Node{}, err
	}

	intervalStr := env("NODE_SAMPLE_INTERVAL", "2s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Node{}, fmt.Errorf("invalid NODE_SAMPLE_INTERVAL %q: %w", intervalStr, err)
	}
	if interval <= 0 {
		return Node{}, fmt.Errorf("NODE_SAMPLE_INTERVAL must be positive, got %v", interval)
	}

	accelEnabled, err := envBool("NODE_ACCEL_ENABLED", false)
	if err != nil {
		return Node{}, err
	}

	periodStr := env("NODE_ACCEL_PERIOD", "16")
	period, err := strconv.ParseUint(periodStr, 10, 32)
	if err != nil {
		return Node{}, fmt.Errorf("invalid NODE_ACCEL_PERIOD %q: %w", periodStr, err)
	}
	if !dutycycle.IsPowerOfTwo(uint32(period)) {
		return Node{}, fmt.Errorf("NODE_ACCEL_PERIOD must be a power of two, got %d", period)
	}

	addr, err := parseIPv6("NODE_MULTICAST_ADDR", env("NODE_MULTICAST_ADDR", telemetry.MulticastAddr))
	if err != nil {
		return Node{}, err
	}
	port, err := envPort("NODE_MULTICAST_PORT", telemetry.MulticastPort)
	if err != nil {
		return Node{}, err
	}

	sensorDriver := env("NODE_SENSOR_DRIVER", "periph")
	switch sensorDriver {
	case "periph", "sim":
	default:
		return Node{}, fmt.Errorf("invalid NODE_SENSOR_DRIVER %q (allowed: periph, sim)", sensorDriver)
	}

	tempSensor := env("NODE_TEMP_SENSOR", "at30ts74")
	switch tempSensor {
	case "at30ts74", "bme280", "bmx280":
	default:
		return Node{}, fmt.Errorf("invalid NODE_TEMP_SENSOR %q (allowed: at30ts74, bme280, bmx280)", tempSensor)
	}

	tempAddrStr := env("NODE_TEMP_ADDR", defaultTempAddr(tempSensor))
	tempAddr, err := strconv.ParseUint(tempAddrStr, 0, 16)
	if err != nil {
		return Node{}, fmt.Errorf("invalid NODE_TEMP_ADDR %q: %w", tempAddrStr, err)
	}
	accelAddrStr := env("NODE_ACCEL_ADDR", "0x4C")
	accelAddr, err := strconv.ParseUint(accelAddrStr, 0, 16)
	if err != nil {
		return Node{}, fmt.Errorf("invalid NODE_ACCEL_ADDR %q: %w", accelAddrStr, err)
	}

	radioDriver := env("NODE_RADIO_DRIVER", "sysfs")
	switch radioDriver {
	case "sysfs", "nop":
	default:
		return Node{}, fmt.Errorf("invalid NODE_RADIO_DRIVER %q (allowed: sysfs, nop)", radioDriver)
	}

	explicitWake, err := envBool("NODE_RADIO_EXPLICIT_WAKE", false)
	if err != nil {
		return Node{}, err
	}

	return Node{
		Base:              base,
		SampleInterval:    interval,
		AccelEnabled:      accelEnabled,
		AccelPeriod:       uint32(period),
		MulticastAddr:     addr,
		MulticastPort:     port,
		Interfaces:        envList("NODE_INTERFACES"),
		SensorDriver:      sensorDriver,
		I2CBus:            env("NODE_I2C_BUS", ""),
		TempSensor:        tempSensor,
		TempAddr:          uint16(tempAddr),
		AccelAddr:         uint16(accelAddr),
		LightPowerPin:     env("NODE_LIGHT_POWER_PIN", ""),
		RadioDriver:       radioDriver,
		RadioSysfsRoot:    env("NODE_RADIO_SYSFS_ROOT", "/sys/class/net"),
		RadioExplicitWake: explicitWake,
	}, nil
}
