package config

import (
	"cloudpico-node/internal/telemetry"
	"fmt"
)

type Collector struct {
	Base

	Group      string
	Port       int
	Interfaces []string
	HTTPAddr   string

	StationsFile string

	SQLiteEnabled bool
	SQLitePath    string
	DSN           string

	// MQTTBroker empty disables the MQTT sink.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string

	// InfluxURL empty disables the InfluxDB sink.
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

func LoadCollectorFromEnv() (Collector, error) {
	base, err := loadBase()
	if err != nil {
		return Collector{}, err
	}

	group, err := parseIPv6("COLLECTOR_GROUP", env("COLLECTOR_GROUP", telemetry.MulticastAddr))
	if err != nil {
		return Collector{}, err
	}
	port, err := envPort("COLLECTOR_PORT", telemetry.MulticastPort)
	if err != nil {
		return Collector{}, err
	}

	sqliteEnabled, err := envBool("COLLECTOR_SQLITE_ENABLED", true)
	if err != nil {
		return Collector{}, err
	}

	mqttPort, err := envPort("MQTT_PORT", 1883)
	if err != nil {
		return Collector{}, err
	}

	cfg := Collector{
		Base:          base,
		Group:         group,
		Port:          port,
		Interfaces:    envList("COLLECTOR_INTERFACES"),
		HTTPAddr:      env("COLLECTOR_HTTP_ADDR", ":8081"),
		StationsFile:  env("COLLECTOR_STATIONS_FILE", ""),
		SQLiteEnabled: sqliteEnabled,
		SQLitePath:    env("SQLITE_PATH", "./data/collector.db"),
		DSN:           env("DB_DSN", ""),
		MQTTBroker:    env("MQTT_BROKER", ""),
		MQTTPort:      mqttPort,
		MQTTClientID:  env("MQTT_CLIENT_ID", "cloudpico-collector"),
		InfluxURL:     env("INFLUX_URL", ""),
		InfluxToken:   env("INFLUX_TOKEN", ""),
		InfluxOrg:     env("INFLUX_ORG", ""),
		InfluxBucket:  env("INFLUX_BUCKET", ""),
	}
	if cfg.InfluxURL != "" && (cfg.InfluxOrg == "" || cfg.InfluxBucket == "") {
		return Collector{}, fmt.Errorf("INFLUX_ORG and INFLUX_BUCKET are required when INFLUX_URL is set")
	}
	return cfg, nil
}
