// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package input provides the transports that deliver raw NMEA text.
package input

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrOpen wraps every failure to acquire a transport.
var ErrOpen = errors.New("input: open failed")

// Handler receives one chunk of raw text. Chunk boundaries are arbitrary and
// may cut a sentence in two. It is called from the input's own goroutine.
type Handler func(chunk string)

// Input is a source of raw NMEA text.
type Input interface {
	// Open acquires the transport and starts delivering chunks to h until
	// Close is called, ctx is cancelled or the source is exhausted.
	Open(ctx context.Context, h Handler) error
	// Close stops delivery. It is safe to call more than once.
	Close() error
	IsOpen() bool
}

const readBufferSize = 1024

// session is one Open..Close cycle. A read loop only ever ends its own
// session, so a reopened input is not closed by the loop it replaced.
type session struct {
	rc   io.ReadCloser
	stop func() bool
	done chan struct{}
}

// stream runs the read loop shared by the byte-stream inputs.
type stream struct {
	name string
	log  *slog.Logger

	mu   sync.Mutex
	cur  atomic.Pointer[session]
	done chan struct{}
}

func (s *stream) begin(ctx context.Context, rc io.ReadCloser, h Handler) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.Load() != nil {
		return false
	}
	ss := &session{rc: rc, done: make(chan struct{})}
	s.done = ss.done
	s.cur.Store(ss)
	ss.stop = context.AfterFunc(ctx, func() { _ = s.end(ss) })
	go s.run(ss, h)
	return true
}

func (s *stream) run(ss *session, h Handler) {
	defer close(ss.done)
	buf := make([]byte, readBufferSize)
	for {
		n, err := ss.rc.Read(buf)
		if n > 0 && s.cur.Load() == ss {
			h(string(buf[:n]))
		}
		if err != nil {
			if s.cur.Load() == ss && !errors.Is(err, io.EOF) {
				s.log.Error("read failed", "input", s.name, "error", err)
			}
			_ = s.end(ss)
			return
		}
	}
}

func (s *stream) isOpen() bool { return s.cur.Load() != nil }

func (s *stream) close() error {
	ss := s.cur.Load()
	if ss == nil {
		return nil
	}
	return s.end(ss)
}

// end closes ss if it is still the current session.
func (s *stream) end(ss *session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cur.CompareAndSwap(ss, nil) {
		return nil
	}
	ss.stop()
	s.log.Info("input closed", "input", s.name)
	return ss.rc.Close()
}

// wait returns a channel closed once the read loop has exited.
func (s *stream) wait() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return closedChan
	}
	return s.done
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
