// Package collector turns received datagrams into readings and hands them to
// the configured sinks.
package collector

import (
	"cloudpico-node/internal/reading"
	"cloudpico-node/internal/telemetry"
	"cloudpico-node/internal/transport"
	"cloudpico-node/internal/utils"
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	dedupMaxPerSource = 500

	// maxLoggedPayload caps the hex dump of rejected datagrams.
	maxLoggedPayload = 64
)

type Sink interface {
	Name() string
	Publish(ctx context.Context, r reading.Reading) error
}

type StationMap interface {
	Lookup(ip net.IP) (string, bool)
}

type Handler struct {
	stations StationMap
	sinks    []Sink
	logger   *slog.Logger
	now      func() time.Time

	dedupMu sync.Mutex
	seen    map[string]map[uint64]struct{}

	received   atomic.Uint64
	invalid    atomic.Uint64
	duplicates atomic.Uint64
	forwarded  atomic.Uint64
	sinkErrors atomic.Uint64
}

func NewHandler(stations StationMap, sinks []Sink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		stations: stations,
		sinks:    sinks,
		logger:   logger,
		now:      time.Now,
		seen:     make(map[string]map[uint64]struct{}),
	}
}

// Handle processes one datagram. It never fails: bad payloads are dropped and
// sink errors are logged per sink.
func (h *Handler) Handle(ctx context.Context, d transport.Datagram) {
	h.received.Add(1)
	node := d.SourceKey()

	m, err := telemetry.Decode(d.Payload)
	if err != nil {
		h.invalid.Add(1)
		h.logger.Debug("collector: ignore non-frame payload",
			"node", node, "size", len(d.Payload), "error", err, "data", utils.HexDump(d.Payload, maxLoggedPayload))
		return
	}

	// The zone is left out of the dedup key: one link-local sender heard on
	// several collector interfaces is still one node.
	if m.Flags.Has(telemetry.FlagUptime) && h.isDuplicate(d.Source.String(), m.UptimeMicros) {
		h.duplicates.Add(1)
		return
	}

	station := node
	if h.stations != nil {
		if name, ok := h.stations.Lookup(d.Source); ok {
			station = name
		}
	}
	at := d.ReceivedAt
	if at.IsZero() {
		at = h.now()
	}
	r := reading.FromMeasurement(station, node, m, at)

	for _, s := range h.sinks {
		if err := s.Publish(ctx, r); err != nil {
			h.sinkErrors.Add(1)
			h.logger.Warn("collector: sink failed", "sink", s.Name(), "station", station, "error", err)
		}
	}
	h.forwarded.Add(1)

	h.logger.Info("collector: reading received",
		"station", station,
		"node", node,
		"iface", d.Interface,
		"flags", m.Flags.String(),
		"temperature_c", r.Temperature,
		"uptime_us", m.UptimeMicros,
	)
}

// isDuplicate records (source, uptime) and reports whether it was already seen.
// A source's window is reset once it grows past dedupMaxPerSource.
func (h *Handler) isDuplicate(source string, uptime uint64) bool {
	h.dedupMu.Lock()
	defer h.dedupMu.Unlock()

	set := h.seen[source]
	if set == nil {
		set = make(map[uint64]struct{})
		h.seen[source] = set
	}
	if _, ok := set[uptime]; ok {
		return true
	}
	set[uptime] = struct{}{}
	if len(set) > dedupMaxPerSource {
		h.seen[source] = map[uint64]struct{}{uptime: {}}
	}
	return false
}

type Stats struct {
	Received   uint64 `json:"received"`
	Invalid    uint64 `json:"invalid"`
	Duplicates uint64 `json:"duplicates"`
	Forwarded  uint64 `json:"forwarded"`
	SinkErrors uint64 `json:"sink_errors"`
}

func (h *Handler) Snapshot() Stats {
	return Stats{
		Received:   h.received.Load(),
		Invalid:    h.invalid.Load(),
		Duplicates: h.duplicates.Load(),
		Forwarded:  h.forwarded.Load(),
		SinkErrors: h.sinkErrors.Load(),
	}
}

// Stats satisfies the HTTP stats route.
func (h *Handler) Stats() any { return h.Snapshot() }
