// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relabs-tech/gps_reader/internal/config"
	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/publish"
)

// newWebMux serves the live stream, the latest values and the metrics.
func newWebMux(stream, latest http.Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", stream)
	mux.Handle("/api/latest", latest)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// startWeb runs the HTTP server in the background. The returned func shuts
// it down.
func startWeb(port int, handler http.Handler, log *slog.Logger) func() {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("web server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("web server failed", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// RunWeb serves the notifications a reader publishes to MQTT over /ws and
// /api/latest, without touching the receiver.
func RunWeb() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("config not loaded")
	}
	if cfg.MQTTBroker == "" {
		return errors.New("MQTT_BROKER is required for the web server")
	}
	log := NewLogger(cfg.LogLevel)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	hub := publish.NewHub(publish.HubConfig{Logger: log, Metrics: m})
	defer hub.Close()
	latest := publish.NewLatest()
	bus := gps.NewBus()
	bus.Subscribe(hub)
	bus.Subscribe(latest)

	// 1) Connect to MQTT broker and relay every notification
	client, err := publish.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Info("connected to MQTT broker", "broker", cfg.MQTTBroker)

	topic := cfg.TopicPrefix + "/#"
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := relayPayload(bus, msg.Payload()); err != nil {
			log.Warn("payload unmarshal error", "topic", msg.Topic(), "error", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Info("subscribed", "topic", topic)

	// 2) Serve until interrupted
	port := cfg.WebServerPort
	if port == 0 {
		port = 8080
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	shutdown := startWeb(port, newWebMux(hub, latest, reg), log)
	defer shutdown()

	<-ctx.Done()
	log.Info("web server shutting down")
	return nil
}

// relayPayload decodes a published notification and republishes it on bus.
func relayPayload(bus *gps.Bus, payload []byte) error {
	var n gps.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return err
	}
	bus.Publish(n)
	return nil
}
