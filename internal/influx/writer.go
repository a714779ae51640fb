package influx

import (
	"cloudpico-node/internal/reading"
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const Measurement = "telemetry"

type Options struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Writer stores each reading as one point, blocking until the server acks.
type Writer struct {
	client influxdb2.Client
	api    pointWriter
	logger *slog.Logger
}

func NewWriter(o Options, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	client := influxdb2.NewClient(o.URL, o.Token)
	return &Writer{
		client: client,
		api:    client.WriteAPIBlocking(o.Org, o.Bucket),
		logger: logger,
	}
}

// Point builds the line-protocol point for r. Only flagged fields appear.
func Point(r reading.Reading) *write.Point {
	fields := map[string]interface{}{
		"flags": int64(r.Flags),
	}
	if r.Temperature != nil {
		fields["temperature_c"] = *r.Temperature
	}
	if r.UptimeUS != nil {
		fields["uptime_us"] = *r.UptimeUS
	}
	if r.AccX != nil {
		fields["acc_x"] = int64(*r.AccX)
	}
	if r.AccY != nil {
		fields["acc_y"] = int64(*r.AccY)
	}
	if r.AccZ != nil {
		fields["acc_z"] = int64(*r.AccZ)
	}
	return influxdb2.NewPoint(
		Measurement,
		map[string]string{"station": r.StationID, "node": r.Node},
		fields,
		r.Timestamp,
	)
}

func (w *Writer) Publish(ctx context.Context, r reading.Reading) error {
	if err := w.api.WritePoint(ctx, Point(r)); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	w.logger.Debug("influx point written", "station", r.StationID)
	return nil
}

func (w *Writer) Name() string { return "influx" }

func (w *Writer) Close() {
	if w.client != nil {
		w.client.Close()
	}
}
