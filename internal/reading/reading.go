// Package reading is the decoded, sink-facing form of a received frame.
package reading

import (
	"cloudpico-node/internal/telemetry"
	"time"
)

// Reading carries only the fields whose flag bit was set in the frame.
type Reading struct {
	StationID   string    `json:"station_id"`
	Node        string    `json:"node"`
	Timestamp   time.Time `json:"timestamp"`
	Flags       uint8     `json:"flags"`
	UptimeUS    *uint64   `json:"uptime_us,omitempty"`
	Temperature *float64  `json:"temperature_c,omitempty"`
	AccX        *int16    `json:"acc_x,omitempty"`
	AccY        *int16    `json:"acc_y,omitempty"`
	AccZ        *int16    `json:"acc_z,omitempty"`
}

func FromMeasurement(stationID, node string, m telemetry.Measurement, at time.Time) Reading {
	r := Reading{
		StationID: stationID,
		Node:      node,
		Timestamp: at,
		Flags:     uint8(m.Flags),
	}
	if m.Flags.Has(telemetry.FlagUptime) {
		up := m.UptimeMicros
		r.UptimeUS = &up
	}
	if t, ok := m.Temperature(); ok {
		c := t.Celsius()
		r.Temperature = &c
	}
	if m.Flags.Has(telemetry.FlagAccX) {
		v := m.Acc.X
		r.AccX = &v
	}
	if m.Flags.Has(telemetry.FlagAccY) {
		v := m.Acc.Y
		r.AccY = &v
	}
	if m.Flags.Has(telemetry.FlagAccZ) {
		v := m.Acc.Z
		r.AccZ = &v
	}
	return r
}
