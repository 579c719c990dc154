// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package publish forwards reader notifications to MQTT, NATS and
// WebSocket clients.
package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

// MQTTPublisher is the part of mqtt.Client used by the MQTT sink.
type MQTTPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type MQTTConfig struct {
	// Prefix is prepended to the kind: "gps/nmea" gives "gps/nmea/gpgga".
	Prefix   string
	QoS      byte
	Retained bool
	// Timeout bounds the wait for each publish; 0 means 2s.
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// MQTT publishes every notification as JSON on one topic per kind.
type MQTT struct {
	client MQTTPublisher
	cfg    MQTTConfig
	log    *slog.Logger
}

func NewMQTT(client MQTTPublisher, cfg MQTTConfig) *MQTT {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &MQTT{client: client, cfg: cfg, log: log.With("sink", "mqtt")}
}

func (m *MQTT) Topic(k nmea.Kind) string { return m.cfg.Prefix + "/" + string(k) }

func (m *MQTT) Publish(n gps.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		m.log.Error("marshal failed", "kind", n.Kind, "error", err)
		m.cfg.Metrics.PublishFailed("mqtt")
		return
	}

	topic := m.Topic(n.Kind)
	token := m.client.Publish(topic, m.cfg.QoS, m.cfg.Retained, payload)
	if !token.WaitTimeout(m.cfg.Timeout) {
		m.log.Error("publish timed out", "topic", topic, "timeout", m.cfg.Timeout)
		m.cfg.Metrics.PublishFailed("mqtt")
		return
	}
	if err := token.Error(); err != nil {
		m.log.Error("publish failed", "topic", topic, "error", err)
		m.cfg.Metrics.PublishFailed("mqtt")
		return
	}
	m.cfg.Metrics.Published("mqtt", string(n.Kind))
}

// ConnectMQTT connects to broker and returns the client. The client
// reconnects on its own after a connection loss.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return client, nil
}
