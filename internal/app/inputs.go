// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/relabs-tech/gps_reader/internal/config"
	"github.com/relabs-tech/gps_reader/internal/input"
)

// newInput builds the transport selected by INPUT_SOURCE.
func newInput(cfg *config.Config, log *slog.Logger) (input.Input, error) {
	switch cfg.InputSource {
	case config.SourceSerial:
		return input.NewSerial(input.SerialConfig{
			PortName: cfg.GPSSerialPort,
			BaudRate: uint(cfg.GPSBaudRate),
			Logger:   log,
		}), nil
	case config.SourceFile:
		return input.NewFile(input.FileConfig{
			Path:     cfg.ReplayFile,
			Interval: time.Duration(cfg.ReplayInterval) * time.Millisecond,
			Logger:   log,
		}), nil
	case config.SourceTCP:
		return input.NewTCP(input.TCPConfig{Addr: cfg.TCPAddr, Logger: log}), nil
	default:
		return nil, fmt.Errorf("unknown input source %q", cfg.InputSource)
	}
}

// inputDone returns a channel closed when in stops on its own, or nil if
// the input cannot report that.
func inputDone(in input.Input) <-chan struct{} {
	if d, ok := in.(interface{ Done() <-chan struct{} }); ok {
		return d.Done()
	}
	return nil
}
