// Package node runs the sample loop: read sensors, encode one frame, send it,
// put the radios to sleep, wait.
package node

import (
	"cloudpico-node/internal/clock"
	"cloudpico-node/internal/dutycycle"
	"cloudpico-node/internal/sensor"
	"cloudpico-node/internal/telemetry"
	"cloudpico-node/internal/transport"
	"cloudpico-node/internal/utils"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const DefaultStatsEvery = 100

// Radio is the part of the radio power controller the loop drives.
type Radio interface {
	SleepAll() error
	WakeAll() error
}

type Options struct {
	Sensors     sensor.Adapter
	Scheduler   *dutycycle.Scheduler
	Radio       Radio
	Transmitter transport.Transmitter
	Clock       clock.Clock
	Interval    time.Duration
	// ExplicitWake wakes every interface before each send instead of
	// relying on the transport to do it.
	ExplicitWake bool
	StatsEvery   uint64
	Logger       *slog.Logger
}

// Node owns every piece of state the loop touches.
type Node struct {
	sensors      sensor.Adapter
	sched        *dutycycle.Scheduler
	radio        Radio
	tx           transport.Transmitter
	clock        clock.Clock
	interval     time.Duration
	explicitWake bool
	statsEvery   uint64
	logger       *slog.Logger
	stats        Stats
}

func New(opts Options) (*Node, error) {
	if opts.Sensors == nil {
		return nil, errors.New("node: sensors required")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("node: scheduler required")
	}
	if opts.Transmitter == nil {
		return nil, errors.New("node: transmitter required")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("node: invalid interval %v", opts.Interval)
	}
	n := &Node{
		sensors:      opts.Sensors,
		sched:        opts.Scheduler,
		radio:        opts.Radio,
		tx:           opts.Transmitter,
		clock:        opts.Clock,
		interval:     opts.Interval,
		explicitWake: opts.ExplicitWake,
		statsEvery:   opts.StatsEvery,
		logger:       opts.Logger,
	}
	if n.clock == nil {
		n.clock = clock.System{}
	}
	if n.statsEvery == 0 {
		n.statsEvery = DefaultStatsEvery
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	return n, nil
}

// CycleResult describes what one cycle did.
type CycleResult struct {
	Counter       uint32
	AccelSelected bool
	AccelRead     bool
	Dropped       bool
	Frame         []byte
	SentBytes     int
	TempErr       error
	AccelErr      error
	SendErr       error
	RadioErr      error
}

// Init configures the sensors. Failures are logged and never fatal.
func (n *Node) Init() {
	if err := n.sensors.Init(); err != nil {
		var ierrs []error
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			ierrs = joined.Unwrap()
		} else {
			ierrs = []error{err}
		}
		for _, e := range ierrs {
			n.logger.Error("sensor init failed; sensor disabled", "error", e)
		}
	}
}

// Cycle runs one iteration up to, but not including, the interval wait.
func (n *Node) Cycle(ctx context.Context) CycleResult {
	res := CycleResult{
		Counter:       n.sched.Counter(),
		AccelSelected: n.sched.SampleAccel(),
	}

	temp, err := n.sensors.ReadTemperature()
	if err != nil {
		res.TempErr = err
		res.Dropped = true
		n.logger.Warn("temperature read failed; cycle dropped", "cycle", res.Counter, "error", err)
	} else {
		var accel *telemetry.Acceleration
		if res.AccelSelected {
			a, err := n.sampleAccel()
			if err != nil {
				res.AccelErr = err
				n.logger.Warn("accelerometer sample failed; sending without accel", "cycle", res.Counter, "error", err)
			} else {
				accel = &a
				res.AccelRead = true
			}
		}

		n.sched.Advance()
		res.Frame = telemetry.Encode(temp, accel, n.clock.UptimeMicros())

		if n.explicitWake && n.radio != nil {
			if err := n.radio.WakeAll(); err != nil {
				n.stats.RadioWakeFailures++
			}
		}
		if err := n.tx.Transmit(res.Frame); err != nil {
			res.SendErr = err
			n.logger.Warn("frame send failed", "cycle", res.Counter, "error", err)
		} else {
			res.SentBytes = len(res.Frame)
			n.logger.Debug("frame sent", "cycle", res.Counter, "frame", utils.HexDump(res.Frame, telemetry.FrameSize))
		}
	}

	if n.radio != nil {
		if err := n.radio.SleepAll(); err != nil {
			res.RadioErr = err
		}
	}

	n.stats.record(res)
	if n.stats.Cycles%n.statsEvery == 0 {
		n.logStats()
	}
	n.logger.Debug("cycle complete",
		"cycle", res.Counter,
		"sent_bytes", res.SentBytes,
		"accel_selected", res.AccelSelected,
		"accel_read", res.AccelRead,
		"dropped", res.Dropped,
	)
	return res
}

// sampleAccel activates the accelerometer, reads it and puts it back in
// standby. A failed standby after a good read keeps the reading.
func (n *Node) sampleAccel() (telemetry.Acceleration, error) {
	if err := n.sensors.SetAccelActive(true); err != nil {
		return telemetry.Acceleration{}, err
	}
	a, readErr := n.sensors.ReadAcceleration()
	if err := n.sensors.SetAccelActive(false); err != nil {
		n.logger.Warn("accelerometer standby failed", "error", err)
		if readErr == nil {
			n.stats.AccelStandbyFailures++
		}
	}
	if readErr != nil {
		return telemetry.Acceleration{}, readErr
	}
	return a, nil
}

// Run initialises the sensors and loops until ctx is cancelled. Only the
// interval wait observes ctx.
func (n *Node) Run(ctx context.Context) error {
	n.logger.Info("sample loop starting",
		"interval", n.interval.String(),
		"accel_enabled", n.sched.Enabled(),
		"accel_period", n.sched.Period(),
		"explicit_wake", n.explicitWake,
	)
	n.Init()

	for {
		n.Cycle(ctx)
		if err := n.clock.Sleep(ctx, n.interval); err != nil {
			n.logStats()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return err
		}
	}
}

func (n *Node) Stats() Stats { return n.stats }

func (n *Node) logStats() {
	s := n.stats
	n.logger.Info("node stats",
		"cycles", s.Cycles,
		"frames_sent", s.FramesSent,
		"cycles_dropped", s.CyclesDropped,
		"send_failures", s.SendFailures,
		"accel_samples", s.AccelSamples,
		"accel_failures", s.AccelFailures,
		"radio_sleep_failures", s.RadioSleepFailures,
	)
}
