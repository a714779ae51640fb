package collector

import (
	"cloudpico-node/internal/reading"
	"cloudpico-node/internal/stations"
	"cloudpico-node/internal/telemetry"
	"cloudpico-node/internal/transport"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error
	got  []reading.Reading
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, r reading.Reading) error {
	s.got = append(s.got, r)
	return s.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func datagram(src, iface string, payload []byte) transport.Datagram {
	return transport.Datagram{
		Payload:    payload,
		Source:     net.ParseIP(src),
		Interface:  iface,
		ReceivedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleForwardsToEverySink(t *testing.T) {
	m, err := stations.Parse([]byte("stations:\n  - name: greenhouse\n    address: fe80::1\n"))
	require.NoError(t, err)
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b", err: errors.New("broker down")}
	c := &recordingSink{name: "c"}
	h := NewHandler(m, []Sink{a, b, c}, quiet())

	h.Handle(context.Background(), datagram("fe80::1", "wpan0", telemetry.Encode(215000, nil, 2_000_000)))

	for _, s := range []*recordingSink{a, b, c} {
		require.Len(t, s.got, 1, "sink %s", s.name)
	}
	r := c.got[0]
	assert.Equal(t, "greenhouse", r.StationID)
	assert.Equal(t, "fe80::1%wpan0", r.Node)
	require.NotNil(t, r.Temperature)
	assert.Equal(t, 21.5, *r.Temperature)

	s := h.Snapshot()
	assert.Equal(t, uint64(1), s.Forwarded)
	assert.Equal(t, uint64(1), s.SinkErrors)
}

func TestHandleDropsDuplicates(t *testing.T) {
	sink := &recordingSink{name: "s"}
	h := NewHandler(nil, []Sink{sink}, quiet())
	frame := telemetry.Encode(1, nil, 4_000_000)

	h.Handle(context.Background(), datagram("fe80::7", "wpan0", frame))
	h.Handle(context.Background(), datagram("fe80::7", "wpan0", frame))
	h.Handle(context.Background(), datagram("fe80::7", "wpan0", telemetry.Encode(1, nil, 6_000_000)))
	h.Handle(context.Background(), datagram("fe80::8", "wpan0", frame))

	require.Len(t, sink.got, 3)
	assert.Equal(t, uint64(1), h.Snapshot().Duplicates)
	assert.Equal(t, "fe80::8%wpan0", sink.got[2].StationID, "unmapped node falls back to its address")
}

func TestHandleSameFrameOnTwoInterfaces(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "global", src: "2001:db8::1"},
		{name: "link-local", src: "fe80::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{name: "s"}
			h := NewHandler(nil, []Sink{sink}, quiet())
			frame := telemetry.Encode(1, nil, 10)

			h.Handle(context.Background(), datagram(tt.src, "eth0", frame))
			h.Handle(context.Background(), datagram(tt.src, "wlan0", frame))

			assert.Len(t, sink.got, 1)
			s := h.Snapshot()
			assert.Equal(t, uint64(1), s.Forwarded)
			assert.Equal(t, uint64(1), s.Duplicates)
		})
	}
}

func TestHandleUnmappedStationFallsBackToNode(t *testing.T) {
	m, err := stations.Parse([]byte("stations:\n  - name: greenhouse\n    address: fe80::1\n"))
	require.NoError(t, err)

	for _, sm := range []StationMap{nil, m} {
		sink := &recordingSink{name: "s"}
		h := NewHandler(sm, []Sink{sink}, quiet())

		h.Handle(context.Background(), datagram("fe80::9", "wpan0", telemetry.Encode(1, nil, 1)))

		require.Len(t, sink.got, 1)
		assert.Equal(t, "fe80::9%wpan0", sink.got[0].StationID)
		assert.Equal(t, sink.got[0].Node, sink.got[0].StationID)
	}
}

func TestHandleRejectsNonFrames(t *testing.T) {
	sink := &recordingSink{name: "s"}
	h := NewHandler(nil, []Sink{sink}, quiet())

	h.Handle(context.Background(), datagram("fe80::1", "wpan0", []byte("hello")))
	bad := telemetry.Encode(1, nil, 1)
	bad[0] = 9
	h.Handle(context.Background(), datagram("fe80::1", "wpan0", bad))

	assert.Empty(t, sink.got)
	s := h.Snapshot()
	assert.Equal(t, uint64(2), s.Received)
	assert.Equal(t, uint64(2), s.Invalid)
}

func TestDedupWindowResets(t *testing.T) {
	h := NewHandler(nil, nil, quiet())
	for i := uint64(0); i <= dedupMaxPerSource; i++ {
		assert.False(t, h.isDuplicate("n", i))
	}
	assert.Len(t, h.seen["n"], 1, "window reset keeps only the latest entry")
	assert.True(t, h.isDuplicate("n", dedupMaxPerSource))
	assert.False(t, h.isDuplicate("n", 0))
}

func TestHandleUsesClockWhenTimestampMissing(t *testing.T) {
	sink := &recordingSink{name: "s"}
	h := NewHandler(nil, []Sink{sink}, quiet())
	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	d := datagram("fe80::1", "", telemetry.Encode(1, nil, 1))
	d.ReceivedAt = time.Time{}
	h.Handle(context.Background(), d)

	require.Len(t, sink.got, 1)
	assert.Equal(t, fixed, sink.got[0].Timestamp)
}
