// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"iter"
	"strings"
)

// DefaultMaxPending bounds the partial line a Splitter keeps between chunks.
// NMEA sentences are at most 82 characters, so anything longer is noise.
const DefaultMaxPending = 4096

// Sentences yields the candidate sentences of one chunk, split on '\n'.
// Each piece is trimmed and blank pieces are skipped. Nothing is carried
// between calls: a sentence cut by a chunk boundary comes out as two
// fragments.
func Sentences(chunk string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.SplitSeq(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Splitter splits chunks into sentences and carries a trailing partial line
// over to the next chunk. The zero value is ready to use.
type Splitter struct {
	// MaxPending caps the carried partial line; 0 means DefaultMaxPending.
	MaxPending int

	pending string
	dropped uint64
}

// Feed appends chunk to the carried remainder and returns the complete
// sentences. The text after the last '\n' is kept for the next call.
func (s *Splitter) Feed(chunk string) iter.Seq[string] {
	data := s.pending + chunk
	last := strings.LastIndexByte(data, '\n')
	if last == -1 {
		s.keep(data)
		return Sentences("")
	}
	s.keep(data[last+1:])
	return Sentences(data[:last])
}

// Flush returns the carried partial line, trimmed, and clears it.
func (s *Splitter) Flush() string {
	rest := strings.TrimSpace(s.pending)
	s.pending = ""
	return rest
}

// Pending returns the number of bytes currently carried over.
func (s *Splitter) Pending() int { return len(s.pending) }

// Dropped returns how many oversized partial lines were discarded.
func (s *Splitter) Dropped() uint64 { return s.dropped }

func (s *Splitter) keep(rest string) {
	limit := s.MaxPending
	if limit <= 0 {
		limit = DefaultMaxPending
	}
	if len(rest) > limit {
		s.pending = ""
		s.dropped++
		return
	}
	s.pending = rest
}
