// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/relabs-tech/gps_reader/internal/input"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

const (
	gsv1 = "$GPGSV,3,1,12,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*7F"
	gsv2 = "$GPGSV,3,2,12,15,30,050,47,18,61,153,45,21,30,310,42,22,45,270,44*72"
	gsv3 = "$GPGSV,3,3,12,24,12,110,38,25,45,200,40,26,05,020,,29,67,080,48*79"

	ggaLine = "$GPGGA,123519,4807.038,N,01131.324,E,1,08,0.9,545.4,M,46.9,M,,*42"
	gsaLine = "$GPGSA,A,1,22,17,14,,,,,,,,,,57.18,57.17,1.00*0D"
	gllLine = "$GPGLL,,,,,211123.00,V,N*48"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X", payload, ck)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustGSV(raw string) nmea.GSV {
	rec, err := nmea.DefaultRegistry().Decode(raw)
	if err != nil {
		panic(err)
	}
	return rec.(nmea.GSV)
}

// collector records every notification it receives.
type collector struct {
	mu  sync.Mutex
	got []Notification
}

func (c *collector) Publish(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, n)
}

func (c *collector) kinds() []nmea.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]nmea.Kind, 0, len(c.got))
	for _, n := range c.got {
		out = append(out, n.Kind)
	}
	return out
}

func (c *collector) all() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.got...)
}

// fakeInput is an input.Input driven by the test.
type fakeInput struct {
	mu      sync.Mutex
	openErr error
	open    bool
	handler input.Handler
	closes  int
}

func (f *fakeInput) Open(_ context.Context, h input.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return fmt.Errorf("%w: %w", input.ErrOpen, f.openErr)
	}
	f.open = true
	f.handler = h
	return nil
}

func (f *fakeInput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.open {
		f.closes++
	}
	f.open = false
	return nil
}

func (f *fakeInput) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeInput) emit(chunk string) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	h(chunk)
}
