package store

import (
	"cloudpico-node/internal/reading"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-latest-readings.sql
var getLatestReadingsSQL string

//go:embed sql/get-readings-count.sql
var getReadingsCountSQL string

// receivedAtLayout is fixed width so received_at orders correctly as text.
const receivedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Readings struct {
	db *sql.DB
}

func NewReadings(db *sql.DB) *Readings {
	return &Readings{db: db}
}

// Insert stores r; absent fields become NULL.
func (s *Readings) Insert(ctx context.Context, r reading.Reading) error {
	var uptime, accX, accY, accZ sql.NullInt64
	var temp sql.NullFloat64
	if r.UptimeUS != nil {
		// SQLite integers are signed; microsecond uptimes stay far below 2^63.
		uptime = sql.NullInt64{Int64: int64(*r.UptimeUS), Valid: true}
	}
	if r.Temperature != nil {
		temp = sql.NullFloat64{Float64: *r.Temperature, Valid: true}
	}
	if r.AccX != nil {
		accX = sql.NullInt64{Int64: int64(*r.AccX), Valid: true}
	}
	if r.AccY != nil {
		accY = sql.NullInt64{Int64: int64(*r.AccY), Valid: true}
	}
	if r.AccZ != nil {
		accZ = sql.NullInt64{Int64: int64(*r.AccZ), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, insertReadingSQL,
		r.StationID,
		r.Node,
		r.Timestamp.UTC().Format(receivedAtLayout),
		int64(r.Flags),
		uptime, temp, accX, accY, accZ,
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Latest returns up to limit readings for a station, newest first.
func (s *Readings) Latest(ctx context.Context, stationID string, limit int) ([]reading.Reading, error) {
	rows, err := s.db.QueryContext(ctx, getLatestReadingsSQL, stationID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest readings rows", "error", err)
		}
	}()

	var out []reading.Reading
	for rows.Next() {
		var (
			r                reading.Reading
			receivedAt       string
			flags            int64
			uptime           sql.NullInt64
			temp             sql.NullFloat64
			accX, accY, accZ sql.NullInt64
		)
		if err := rows.Scan(&r.StationID, &r.Node, &receivedAt, &flags, &uptime, &temp, &accX, &accY, &accZ); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("parse received_at %q: %w", receivedAt, err)
		}
		r.Timestamp = ts
		r.Flags = uint8(flags)
		if uptime.Valid {
			v := uint64(uptime.Int64)
			r.UptimeUS = &v
		}
		if temp.Valid {
			v := temp.Float64
			r.Temperature = &v
		}
		r.AccX = nullInt16(accX)
		r.AccY = nullInt16(accY)
		r.AccZ = nullInt16(accZ)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Readings) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, getReadingsCountSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Ping reports whether the database answers.
func (s *Readings) Ping(ctx context.Context) error {
	var ok int
	return s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&ok)
}

func nullInt16(v sql.NullInt64) *int16 {
	if !v.Valid {
		return nil
	}
	x := int16(v.Int64)
	return &x
}

func (s *Readings) Name() string { return "sqlite" }

// Publish lets the repository act as a collector sink.
func (s *Readings) Publish(ctx context.Context, r reading.Reading) error {
	return s.Insert(ctx, r)
}
