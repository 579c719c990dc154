// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/relabs-tech/gps_reader/internal/config"
	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/publish"
)

// RunReader decodes the configured input and publishes every notification
// to MQTT, NATS and the web server, whichever are configured. It returns on
// SIGINT/SIGTERM or when a replayed file is exhausted.
func RunReader() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("config not loaded")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runReader(ctx, cfg)
}

func runReader(ctx context.Context, cfg *config.Config) error {
	log := NewLogger(cfg.LogLevel)
	slog.SetDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	in, err := newInput(cfg, log)
	if err != nil {
		return err
	}
	bus := gps.NewBus()

	// ---- 1) Outputs ----
	if cfg.MQTTBroker != "" {
		client, err := publish.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDReader)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		log.Info("connected to MQTT broker", "broker", cfg.MQTTBroker, "prefix", cfg.TopicPrefix)
		bus.Subscribe(publish.NewMQTT(client, publish.MQTTConfig{
			Prefix:   cfg.TopicPrefix,
			Retained: true,
			Logger:   log,
			Metrics:  m,
		}))
	}

	if cfg.NATSURL != "" {
		conn, err := publish.ConnectNATS(cfg.NATSURL, cfg.NATSClientName, log)
		if err != nil {
			return err
		}
		defer func() { _ = conn.Drain() }()
		log.Info("connected to NATS", "url", cfg.NATSURL, "prefix", cfg.NATSSubjectPrefix)
		bus.Subscribe(publish.NewNATS(conn, publish.NATSConfig{
			Prefix:  cfg.NATSSubjectPrefix,
			Logger:  log,
			Metrics: m,
		}))
	}

	if cfg.WebServerPort > 0 {
		hub := publish.NewHub(publish.HubConfig{Logger: log, Metrics: m})
		defer hub.Close()
		latest := publish.NewLatest()
		bus.Subscribe(hub)
		bus.Subscribe(latest)
		shutdown := startWeb(cfg.WebServerPort, newWebMux(hub, latest, reg), log)
		defer shutdown()
	}

	if bus.Subscribers() == 0 {
		log.Warn("no output configured; decoded sentences are only counted")
	}

	// ---- 2) Input ----
	svc := gps.New(in, gps.Options{
		Bus:               bus,
		CarryPartialLines: cfg.CarryPartialLines,
		Logger:            log,
		Metrics:           m,
	})
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case <-inputDone(in):
		log.Info("input finished")
	}
	return nil
}
