// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

// NATSPublisher is the part of *nats.Conn used by the NATS sink.
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

type NATSConfig struct {
	// Prefix is joined to the kind with a dot: "gps.nmea.gpgga".
	Prefix  string
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NATS publishes every notification as JSON on one subject per kind.
type NATS struct {
	conn NATSPublisher
	cfg  NATSConfig
	log  *slog.Logger
}

func NewNATS(conn NATSPublisher, cfg NATSConfig) *NATS {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &NATS{conn: conn, cfg: cfg, log: log.With("sink", "nats")}
}

func (s *NATS) Subject(k nmea.Kind) string { return s.cfg.Prefix + "." + string(k) }

func (s *NATS) Publish(n gps.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		s.log.Error("marshal failed", "kind", n.Kind, "error", err)
		s.cfg.Metrics.PublishFailed("nats")
		return
	}
	subject := s.Subject(n.Kind)
	if err := s.conn.Publish(subject, data); err != nil {
		s.log.Error("publish failed", "subject", subject, "error", err)
		s.cfg.Metrics.PublishFailed("nats")
		return
	}
	s.cfg.Metrics.Published("nats", string(n.Kind))
}

// ConnectNATS connects to url and keeps reconnecting for as long as the
// process runs.
func ConnectNATS(url, name string, log *slog.Logger) (*nats.Conn, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return conn, nil
}
