package main

import (
	"cloudpico-node/internal/app"
	"cloudpico-node/internal/config"
	"cloudpico-node/internal/logging"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"
var appName = "cloudpico-collector"

func main() {
	cfg, err := config.LoadCollectorFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Base, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"listen", fmt.Sprintf("[%s]:%d", cfg.Group, cfg.Port),
		"http", cfg.HTTPAddr,
		"sqlite", cfg.SQLiteEnabled,
		"mqtt", cfg.MQTTBroker != "",
		"influx", cfg.InfluxURL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunCollector(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("collector stopped", "err", err)
		os.Exit(1)
	}

	slog.Info("shut down")
}
