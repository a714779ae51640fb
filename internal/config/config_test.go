package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

var nodeKeys = []string{
	"APP_ENV", "LOG_LEVEL",
	"NODE_SAMPLE_INTERVAL", "NODE_ACCEL_ENABLED", "NODE_ACCEL_PERIOD",
	"NODE_MULTICAST_ADDR", "NODE_MULTICAST_PORT", "NODE_INTERFACES",
	"NODE_SENSOR_DRIVER", "NODE_I2C_BUS", "NODE_TEMP_SENSOR", "NODE_TEMP_ADDR",
	"NODE_ACCEL_ADDR", "NODE_LIGHT_POWER_PIN",
	"NODE_RADIO_DRIVER", "NODE_RADIO_SYSFS_ROOT", "NODE_RADIO_EXPLICIT_WAKE",
}

var collectorKeys = []string{
	"APP_ENV", "LOG_LEVEL",
	"COLLECTOR_GROUP", "COLLECTOR_PORT", "COLLECTOR_INTERFACES", "COLLECTOR_HTTP_ADDR",
	"COLLECTOR_STATIONS_FILE", "COLLECTOR_SQLITE_ENABLED", "SQLITE_PATH", "DB_DSN",
	"MQTT_BROKER", "MQTT_PORT", "MQTT_CLIENT_ID",
	"INFLUX_URL", "INFLUX_TOKEN", "INFLUX_ORG", "INFLUX_BUCKET",
}

func clearEnv(t *testing.T, keys []string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadNodeFromEnv_Defaults(t *testing.T) {
	clearEnv(t, nodeKeys)

	got, err := LoadNodeFromEnv()
	if err != nil {
		t.Fatalf("LoadNodeFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want dev", got.AppEnv)
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.SampleInterval != 2*time.Second {
		t.Errorf("SampleInterval = %v, want 2s", got.SampleInterval)
	}
	if got.AccelEnabled {
		t.Error("AccelEnabled = true, want false")
	}
	if got.AccelPeriod != 16 {
		t.Errorf("AccelPeriod = %d, want 16", got.AccelPeriod)
	}
	if got.MulticastAddr != "ff02::1" || got.MulticastPort != 4747 {
		t.Errorf("destination = [%s]:%d, want [ff02::1]:4747", got.MulticastAddr, got.MulticastPort)
	}
	if got.Interfaces != nil {
		t.Errorf("Interfaces = %v, want nil", got.Interfaces)
	}
	if got.SensorDriver != "periph" || got.TempSensor != "at30ts74" {
		t.Errorf("sensor = %s/%s, want periph/at30ts74", got.SensorDriver, got.TempSensor)
	}
	if got.TempAddr != 0x48 || got.AccelAddr != 0x4C {
		t.Errorf("addresses = %#x/%#x, want 0x48/0x4c", got.TempAddr, got.AccelAddr)
	}
	if got.RadioDriver != "sysfs" || got.RadioSysfsRoot != "/sys/class/net" {
		t.Errorf("radio = %s at %s", got.RadioDriver, got.RadioSysfsRoot)
	}
	if got.RadioExplicitWake {
		t.Error("RadioExplicitWake = true, want false")
	}
}

func TestLoadNodeFromEnv_Overrides(t *testing.T) {
	clearEnv(t, nodeKeys)
	t.Setenv("APP_ENV", " prod ")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("NODE_SAMPLE_INTERVAL", "500ms")
	t.Setenv("NODE_ACCEL_ENABLED", "true")
	t.Setenv("NODE_ACCEL_PERIOD", "4")
	t.Setenv("NODE_MULTICAST_ADDR", "ff02::1:4")
	t.Setenv("NODE_MULTICAST_PORT", "5000")
	t.Setenv("NODE_INTERFACES", "wpan0, wlan0,,")
	t.Setenv("NODE_TEMP_SENSOR", "bmx280")
	t.Setenv("NODE_RADIO_EXPLICIT_WAKE", "1")

	got, err := LoadNodeFromEnv()
	if err != nil {
		t.Fatalf("LoadNodeFromEnv() error = %v, want nil", err)
	}
	if got.AppEnv != "prod" || got.LogLevel != slog.LevelDebug {
		t.Errorf("base = %s/%v", got.AppEnv, got.LogLevel)
	}
	if got.SampleInterval != 500*time.Millisecond || !got.AccelEnabled || got.AccelPeriod != 4 {
		t.Errorf("sampling = %v/%v/%d", got.SampleInterval, got.AccelEnabled, got.AccelPeriod)
	}
	if got.MulticastAddr != "ff02::1:4" || got.MulticastPort != 5000 {
		t.Errorf("destination = [%s]:%d", got.MulticastAddr, got.MulticastPort)
	}
	if !reflect.DeepEqual(got.Interfaces, []string{"wpan0", "wlan0"}) {
		t.Errorf("Interfaces = %v", got.Interfaces)
	}
	if got.TempAddr != 0x76 {
		t.Errorf("TempAddr = %#x, want bmx280 default 0x76", got.TempAddr)
	}
	if !got.RadioExplicitWake {
		t.Error("RadioExplicitWake = false, want true")
	}
}

func TestLoadNodeFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "app env", key: "APP_ENV", value: "staging"},
		{name: "log level", key: "LOG_LEVEL", value: "trace"},
		{name: "interval syntax", key: "NODE_SAMPLE_INTERVAL", value: "2"},
		{name: "zero interval", key: "NODE_SAMPLE_INTERVAL", value: "0s"},
		{name: "negative interval", key: "NODE_SAMPLE_INTERVAL", value: "-1s"},
		{name: "period not power of two", key: "NODE_ACCEL_PERIOD", value: "12"},
		{name: "period zero", key: "NODE_ACCEL_PERIOD", value: "0"},
		{name: "period syntax", key: "NODE_ACCEL_PERIOD", value: "sixteen"},
		{name: "accel enabled", key: "NODE_ACCEL_ENABLED", value: "maybe"},
		{name: "ipv4 destination", key: "NODE_MULTICAST_ADDR", value: "239.0.0.1"},
		{name: "garbage destination", key: "NODE_MULTICAST_ADDR", value: "ff02:::zz"},
		{name: "port range", key: "NODE_MULTICAST_PORT", value: "70000"},
		{name: "port syntax", key: "NODE_MULTICAST_PORT", value: "http"},
		{name: "sensor driver", key: "NODE_SENSOR_DRIVER", value: "spi"},
		{name: "temp sensor", key: "NODE_TEMP_SENSOR", value: "ds18b20"},
		{name: "temp addr", key: "NODE_TEMP_ADDR", value: "0xZZ"},
		{name: "accel addr", key: "NODE_ACCEL_ADDR", value: "-1"},
		{name: "radio driver", key: "NODE_RADIO_DRIVER", value: "netlink"},
		{name: "explicit wake", key: "NODE_RADIO_EXPLICIT_WAKE", value: "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, nodeKeys)
			t.Setenv(tt.key, tt.value)

			if _, err := LoadNodeFromEnv(); err == nil {
				t.Fatalf("LoadNodeFromEnv() error = nil, want non-nil for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadCollectorFromEnv_Defaults(t *testing.T) {
	clearEnv(t, collectorKeys)

	got, err := LoadCollectorFromEnv()
	if err != nil {
		t.Fatalf("LoadCollectorFromEnv() error = %v, want nil", err)
	}
	if got.Group != "ff02::1" || got.Port != 4747 {
		t.Errorf("group = [%s]:%d", got.Group, got.Port)
	}
	if got.HTTPAddr != ":8081" {
		t.Errorf("HTTPAddr = %q, want :8081", got.HTTPAddr)
	}
	if !got.SQLiteEnabled || got.SQLitePath != "./data/collector.db" {
		t.Errorf("sqlite = %v %q", got.SQLiteEnabled, got.SQLitePath)
	}
	if got.MQTTBroker != "" || got.MQTTPort != 1883 || got.MQTTClientID != "cloudpico-collector" {
		t.Errorf("mqtt = %q:%d %q", got.MQTTBroker, got.MQTTPort, got.MQTTClientID)
	}
	if got.InfluxURL != "" {
		t.Errorf("InfluxURL = %q, want disabled", got.InfluxURL)
	}
}

func TestLoadCollectorFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "group", env: map[string]string{"COLLECTOR_GROUP": "224.0.0.1"}},
		{name: "port", env: map[string]string{"COLLECTOR_PORT": "0"}},
		{name: "mqtt port", env: map[string]string{"MQTT_PORT": "abc"}},
		{name: "sqlite flag", env: map[string]string{"COLLECTOR_SQLITE_ENABLED": "on"}},
		{name: "influx without bucket", env: map[string]string{"INFLUX_URL": "http://localhost:8086", "INFLUX_ORG": "home"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, collectorKeys)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadCollectorFromEnv(); err == nil {
				t.Fatal("LoadCollectorFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: " Info ", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "ERROR", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
