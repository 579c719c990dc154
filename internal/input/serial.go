// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package input

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	serial "github.com/jacobsa/go-serial/serial"
)

type SerialConfig struct {
	// PortName is the device path: /dev/serial0, /dev/ttyAMA0, /dev/ttyUSB0, etc.
	PortName string
	BaudRate uint
	Logger   *slog.Logger
}

// Serial reads a receiver attached to a serial port (8N1). Every read is
// delivered as one chunk, whatever its length.
type Serial struct {
	cfg      SerialConfig
	openPort func(serial.OpenOptions) (io.ReadWriteCloser, error)
	stream
}

func NewSerial(cfg SerialConfig) *Serial {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 115200
	}
	return &Serial{
		cfg:      cfg,
		openPort: serial.Open,
		stream:   stream{name: "serial " + cfg.PortName, log: loggerOrDefault(cfg.Logger)},
	}
}

func (s *Serial) Open(ctx context.Context, h Handler) error {
	if s.IsOpen() {
		return fmt.Errorf("%w: %s already open", ErrOpen, s.cfg.PortName)
	}
	opts := serial.OpenOptions{
		PortName:              s.cfg.PortName,
		BaudRate:              s.cfg.BaudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := s.openPort(opts)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, s.cfg.PortName, err)
	}
	if !s.begin(ctx, port, h) {
		_ = port.Close()
		return fmt.Errorf("%w: %s already open", ErrOpen, s.cfg.PortName)
	}
	s.log.Info("serial port opened", "port", opts.PortName, "baud", opts.BaudRate)
	return nil
}

func (s *Serial) Close() error { return s.close() }

func (s *Serial) IsOpen() bool { return s.isOpen() }

// Done is closed once the read loop has exited.
func (s *Serial) Done() <-chan struct{} { return s.wait() }
