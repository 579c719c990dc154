// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gps turns raw NMEA text from an input into notifications on a Bus.
package gps

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/relabs-tech/gps_reader/internal/input"
	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

type Options struct {
	// Registry defaults to nmea.DefaultRegistry().
	Registry *nmea.Registry
	// Bus defaults to a new, empty bus.
	Bus *Bus
	// CarryPartialLines keeps a sentence cut by a chunk boundary and
	// completes it with the next chunk. When false each chunk is split on
	// its own and cut sentences are lost.
	CarryPartialLines bool
	// MaxPending caps the carried partial line; 0 means nmea.DefaultMaxPending.
	MaxPending int
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// Service reads chunks from an input, decodes every sentence and publishes
// the records. A chunk is processed completely, under one lock, before the
// next one starts.
type Service struct {
	in      input.Input
	reg     *nmea.Registry
	bus     *Bus
	carry   bool
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	lifecycle sync.Mutex

	mu       sync.Mutex // guards splitter and agg
	splitter nmea.Splitter
	agg      aggregator
}

func New(in input.Input, opts Options) *Service {
	s := &Service{
		in:      in,
		reg:     opts.Registry,
		bus:     opts.Bus,
		carry:   opts.CarryPartialLines,
		log:     opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if s.reg == nil {
		s.reg = nmea.DefaultRegistry()
	}
	if s.bus == nil {
		s.bus = NewBus()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.With("component", "gps")
	s.splitter.MaxPending = opts.MaxPending
	s.agg = aggregator{log: s.log, metrics: s.metrics}
	return s
}

func (s *Service) Bus() *Bus { return s.bus }

// Start opens the input and begins decoding. A failure to open leaves the
// service stopped and wraps both ErrStart and input.ErrOpen.
func (s *Service) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.in.IsOpen() {
		return ErrAlreadyRunning
	}
	if err := s.in.Open(ctx, s.HandleChunk); err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}
	s.log.Info("reader started")
	return nil
}

// Stop closes the input if it is open. A chunk being processed completes.
func (s *Service) Stop() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	var err error
	if s.in.IsOpen() {
		err = s.in.Close()
	}

	s.mu.Lock()
	if rest := s.splitter.Flush(); rest != "" {
		s.log.Debug("discarding partial line at stop", "partial", rest)
	}
	s.mu.Unlock()

	s.log.Info("reader stopped")
	return err
}

// HandleChunk decodes and publishes every sentence in chunk. It is the
// input.Handler passed to the input by Start and may be called directly.
func (s *Service) HandleChunk(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("chunk received", "bytes", len(chunk), "chunk", chunk)

	var lines iter.Seq[string]
	if s.carry {
		dropped := s.splitter.Dropped()
		lines = s.splitter.Feed(chunk)
		if s.splitter.Dropped() > dropped {
			s.log.Warn("partial line exceeded size cap, dropped")
			s.metrics.PartialLineDropped()
		}
	} else {
		lines = nmea.Sentences(chunk)
	}

	for raw := range lines {
		s.dispatch(raw)
	}
}

func (s *Service) dispatch(raw string) {
	rec, err := s.reg.Decode(raw)
	if err != nil {
		reason := nmea.RejectReason(err)
		s.metrics.SentenceRejected(reason)
		if errors.Is(err, nmea.ErrUnknownSentence) {
			s.log.Debug("sentence skipped", "raw", raw)
			return
		}
		s.log.Warn("sentence rejected", "reason", reason, "raw", raw, "error", err)
		return
	}

	kind := rec.Kind()
	if h := rec.Sentence(); !h.ChecksumValid {
		s.log.Warn("checksum mismatch", "kind", kind, "received", h.Checksum, "computed", nmea.Checksum(raw))
		s.metrics.ChecksumMismatch(string(kind))
	}
	if w, ok := rec.(interface{ Warnings() []string }); ok {
		for _, msg := range w.Warnings() {
			s.log.Warn("value out of range", "kind", kind, "warning", msg)
			s.metrics.RangeWarning(string(kind))
		}
	}
	s.metrics.SentenceDecoded(string(kind))

	now := s.now()
	s.bus.Publish(Notification{Kind: kind, Raw: raw, Record: rec, ReceivedAt: now})

	if gsv, ok := rec.(nmea.GSV); ok {
		if group := s.agg.observe(gsv); group != nil {
			s.bus.Publish(Notification{Kind: nmea.KindGSVGroup, Group: group, ReceivedAt: now})
		}
	}
}
