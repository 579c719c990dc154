// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type FileConfig struct {
	Path string
	// Interval is the pause after each burst.
	Interval time.Duration
	Logger   *slog.Logger
}

// File replays a capture. Lines are grouped into bursts that end at a blank
// line; each burst is delivered as one chunk, followed by a pause of
// Interval. Lines left at end of file form the last burst, after which the
// input closes itself.
type File struct {
	cfg FileConfig
	log *slog.Logger

	mu   sync.Mutex
	cur  atomic.Pointer[replayRun]
	done chan struct{}
}

// replayRun is one Open..Close cycle of a File.
type replayRun struct {
	cancel context.CancelFunc
}

func NewFile(cfg FileConfig) *File {
	return &File{cfg: cfg, log: loggerOrDefault(cfg.Logger)}
}

func (f *File) Open(ctx context.Context, h Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cur.Load() != nil {
		return fmt.Errorf("%w: %s already open", ErrOpen, f.cfg.Path)
	}
	file, err := os.Open(f.cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &replayRun{cancel: cancel}
	f.done = make(chan struct{})
	f.cur.Store(run)
	go func(done chan struct{}) {
		defer close(done)
		defer file.Close()
		f.replay(runCtx, run, file, h)
		f.end(run)
	}(f.done)

	f.log.Info("replaying file", "path", f.cfg.Path, "interval", f.cfg.Interval)
	return nil
}

func (f *File) replay(ctx context.Context, run *replayRun, r io.Reader, h Handler) {
	sc := bufio.NewScanner(r)
	var burst strings.Builder

	flush := func() bool {
		if burst.Len() == 0 {
			return true
		}
		if ctx.Err() != nil || f.cur.Load() != run {
			return false
		}
		h(burst.String())
		burst.Reset()
		return true
	}

	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) != "" {
			burst.WriteString(line)
			burst.WriteByte('\n')
			continue
		}
		if burst.Len() == 0 {
			continue
		}
		if !flush() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(f.cfg.Interval):
		}
	}
	if err := sc.Err(); err != nil {
		f.log.Error("replay read failed", "path", f.cfg.Path, "error", err)
	}
	flush()
}

func (f *File) Close() error {
	if run := f.cur.Load(); run != nil {
		f.end(run)
	}
	return nil
}

// end stops run if it is still the current replay.
func (f *File) end(run *replayRun) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.cur.CompareAndSwap(run, nil) {
		return
	}
	run.cancel()
	f.log.Info("input closed", "input", "file "+f.cfg.Path)
}

func (f *File) IsOpen() bool { return f.cur.Load() != nil }

// Done is closed once the replay has finished or been stopped.
func (f *File) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done == nil {
		return closedChan
	}
	return f.done
}
