// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/gps_reader/internal/config"
	"github.com/relabs-tech/gps_reader/internal/gps"
)

// RunConsole decodes the configured input locally and prints one line per
// notification.
func RunConsole() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("config not loaded")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runConsole(ctx, cfg, os.Stdout)
}

func runConsole(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := NewLogger(cfg.LogLevel)

	in, err := newInput(cfg, log)
	if err != nil {
		return err
	}
	svc := gps.New(in, gps.Options{
		CarryPartialLines: cfg.CarryPartialLines,
		Logger:            log,
	})
	svc.Bus().Subscribe(gps.SinkFunc(func(n gps.Notification) {
		fmt.Fprintln(out, formatNotification(n))
	}))

	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	select {
	case <-ctx.Done():
		log.Info("console: shutting down")
	case <-inputDone(in):
		log.Info("console: input finished")
	}
	return nil
}
