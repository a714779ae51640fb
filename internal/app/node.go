package app

import (
	"cloudpico-node/internal/config"
	"cloudpico-node/internal/dutycycle"
	"cloudpico-node/internal/node"
	"cloudpico-node/internal/radio"
	"cloudpico-node/internal/sensor"
	"cloudpico-node/internal/transport"
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"

	"github.com/coreos/go-systemd/daemon"
	"github.com/spf13/afero"
	"periph.io/x/conn/v3/gpio"
)

func RunNode(ctx context.Context, cfg config.Node) error {
	slog.Info("initializing node",
		"sample_interval", cfg.SampleInterval.String(),
		"accel_enabled", cfg.AccelEnabled,
		"accel_period", cfg.AccelPeriod,
		"destination", net.JoinHostPort(cfg.MulticastAddr, strconv.Itoa(cfg.MulticastPort)),
		"sensor_driver", cfg.SensorDriver,
		"temp_sensor", cfg.TempSensor,
		"radio_driver", cfg.RadioDriver,
	)

	board, closeBoard := buildBoard(cfg)
	defer closeBoard()

	ifaces, err := transport.Discover(cfg.Interfaces)
	if err != nil {
		return err
	}
	if len(ifaces) == 0 {
		slog.Warn("no multicast interfaces found; sending via default route without radio control")
	}
	slog.Info("network interfaces", "ifaces", transport.Names(ifaces))

	tx, err := transport.NewSender(cfg.MulticastAddr, cfg.MulticastPort, ifaces)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Close(); err != nil {
			slog.Error("sender close", "error", err)
		}
	}()

	sched, err := dutycycle.New(cfg.AccelPeriod, cfg.AccelEnabled)
	if err != nil {
		return err
	}

	n, err := node.New(node.Options{
		Sensors:      board,
		Scheduler:    sched,
		Radio:        radio.NewController(buildRadios(cfg, ifaces), slog.Default()),
		Transmitter:  tx,
		Interval:     cfg.SampleInterval,
		ExplicitWake: cfg.RadioExplicitWake,
		Logger:       slog.Default(),
	})
	if err != nil {
		return err
	}

	notify(daemon.SdNotifyReady)
	defer notify(daemon.SdNotifyStopping)

	err = n.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("node shutting down")
		return nil
	}
	return err
}

// buildBoard never fails: a bus that cannot be opened leaves both sensors
// unfitted and every cycle is dropped, as with any other sensor failure.
func buildBoard(cfg config.Node) (*sensor.Board, func()) {
	if cfg.SensorDriver == "sim" {
		return sensor.NewSimBoard(), func() {}
	}

	bus, err := sensor.OpenPeriph(cfg.I2CBus)
	if err != nil {
		slog.Error("i2c bus unavailable; sensors disabled", "bus", cfg.I2CBus, "error", err)
		return &sensor.Board{}, func() {}
	}
	slog.Info("i2c bus opened", "bus", bus.String())

	board := &sensor.Board{
		Accelerometer: sensor.NewMMA7660(bus, cfg.AccelAddr),
	}

	closers := []func() error{bus.Close}
	switch cfg.TempSensor {
	case "bme280":
		board.Temperature = sensor.NewBME280(bus, cfg.TempAddr)
	case "bmx280":
		bmx := sensor.NewBMx280(bus.Periph(), cfg.TempAddr)
		board.Temperature = bmx
		closers = append([]func() error{bmx.Halt}, closers...)
	default:
		board.Temperature = sensor.NewAT30TS74(bus, cfg.TempAddr, sensor.Resolution12Bit)
	}

	if cfg.LightPowerPin != "" {
		board.Peripherals = append(board.Peripherals, sensor.PinSwitch{
			Label: "light",
			Pin:   cfg.LightPowerPin,
			Off:   gpio.High,
		})
	}

	return board, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Error("sensor close", "error", err)
			}
		}
	}
}

func buildRadios(cfg config.Node, ifaces []net.Interface) []radio.Interface {
	out := make([]radio.Interface, 0, len(ifaces))
	fs := afero.NewOsFs()
	for _, ifi := range ifaces {
		switch cfg.RadioDriver {
		case "nop":
			out = append(out, radio.NewNop(ifi.Name, slog.Default()))
		default:
			out = append(out, radio.NewSysfs(fs, cfg.RadioSysfsRoot, ifi.Name))
		}
	}
	return out
}
