// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package input

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
)

type TCPConfig struct {
	// Addr is host:port of a raw NMEA stream (gpsd raw port, ser2net, ...).
	Addr        string
	DialTimeout time.Duration
	Logger      *slog.Logger
}

// TCP reads NMEA text from a network stream. The connection is not
// re-established once it drops.
type TCP struct {
	cfg TCPConfig
	stream
}

func NewTCP(cfg TCPConfig) *TCP {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	return &TCP{
		cfg:    cfg,
		stream: stream{name: "tcp " + cfg.Addr, log: loggerOrDefault(cfg.Logger)},
	}
}

func (t *TCP) Open(ctx context.Context, h Handler) error {
	if t.IsOpen() {
		return fmt.Errorf("%w: %s already open", ErrOpen, t.cfg.Addr)
	}
	dialer := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, t.cfg.Addr, err)
	}
	if !t.begin(ctx, conn, h) {
		_ = conn.Close()
		return fmt.Errorf("%w: %s already open", ErrOpen, t.cfg.Addr)
	}
	t.log.Info("tcp stream connected", "addr", t.cfg.Addr)
	return nil
}

func (t *TCP) Close() error { return t.close() }

func (t *TCP) IsOpen() bool { return t.isOpen() }

// Done is closed once the read loop has exited.
func (t *TCP) Done() <-chan struct{} { return t.wait() }
