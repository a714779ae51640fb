package app

import (
	"cloudpico-node/internal/collector"
	"cloudpico-node/internal/config"
	"cloudpico-node/internal/httpapi"
	"cloudpico-node/internal/influx"
	"cloudpico-node/internal/mqtt"
	"cloudpico-node/internal/stations"
	"cloudpico-node/internal/store"
	"cloudpico-node/internal/transport"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/daemon"
)

func RunCollector(ctx context.Context, cfg config.Collector) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"group", cfg.Group,
		"port", cfg.Port,
		"interfaces", cfg.Interfaces,
		"httpAddr", cfg.HTTPAddr,
		"stationsFile", cfg.StationsFile,
		"sqliteEnabled", cfg.SQLiteEnabled,
		"sqlitePath", cfg.SQLitePath,
		"mqttBroker", cfg.MQTTBroker,
		"influxURL", cfg.InfluxURL,
	)

	stationMap, err := stations.Load(cfg.StationsFile)
	if err != nil {
		return err
	}
	slog.Info("station map loaded", "stations", stationMap.Len())

	var (
		sinks []collector.Sink
		deps  httpapi.Deps
	)

	if cfg.SQLiteEnabled {
		db, err := store.Open(store.Options{
			DSN:    cfg.DSN,
			Path:   cfg.SQLitePath,
			LogSQL: cfg.LogLevel <= slog.LevelDebug,
			Logger: slog.Default(),
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(db); err != nil {
				slog.Error("db close", "error", err)
			}
		}()
		if err := store.Migrate(ctx, db); err != nil {
			return err
		}
		repo := store.NewReadings(db)
		sinks = append(sinks, repo)
		deps.Store = repo
		deps.Readings = repo
	}

	if cfg.MQTTBroker != "" {
		pub := mqtt.NewPublisher(mqtt.Options{
			Broker:   cfg.MQTTBroker,
			Port:     cfg.MQTTPort,
			ClientID: cfg.MQTTClientID,
		}, slog.Default())
		// Short initial wait so a missing broker does not block startup;
		// paho keeps retrying in the background.
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := pub.Connect(connectCtx); err != nil {
			slog.Warn("mqtt connection failed (continuing, will retry)", "error", err)
		}
		cancel()
		defer pub.Disconnect()
		sinks = append(sinks, pub)
	}

	if cfg.InfluxURL != "" {
		w := influx.NewWriter(influx.Options{
			URL:    cfg.InfluxURL,
			Token:  cfg.InfluxToken,
			Org:    cfg.InfluxOrg,
			Bucket: cfg.InfluxBucket,
		}, slog.Default())
		defer w.Close()
		sinks = append(sinks, w)
	}

	if len(sinks) == 0 {
		slog.Warn("no sinks enabled; readings are only logged")
	}

	ifaces, err := transport.Discover(cfg.Interfaces)
	if err != nil {
		return err
	}
	rx, err := transport.Listen(cfg.Group, cfg.Port, ifaces, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("listening for frames", "addr", rx.LocalAddr().String(), "ifaces", transport.Names(ifaces))

	handler := collector.NewHandler(stationMap, sinks, slog.Default())
	deps.Stats = handler

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewMux(deps))

	httpErr := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		httpErr <- srv.ListenAndServe()
	}()

	rxCtx, stopRx := context.WithCancel(ctx)
	defer stopRx()
	rxErr := make(chan error, 1)
	go func() {
		rxErr <- rx.Run(rxCtx, func(d transport.Datagram) { handler.Handle(rxCtx, d) })
	}()

	notify(daemon.SdNotifyReady)
	defer notify(daemon.SdNotifyStopping)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
		httpErr <- nil
	case err := <-rxErr:
		runErr = err
		rxErr <- nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("receiver stopping")
	stopRx()
	if err := <-rxErr; err != nil && runErr == nil {
		runErr = err
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	if err := <-httpErr; err != nil && !errors.Is(err, http.ErrServerClosed) && runErr == nil {
		runErr = err
	}

	slog.Info("collector stopped", "stats", handler.Snapshot())
	return runErr
}
