// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"errors"
	"fmt"
	"strings"
)

// Decoder owns one sentence identifier and its field grammar.
type Decoder interface {
	// ID is the identifier without '$', e.g. "GPGGA".
	ID() string
	// Decode builds a record from a sentence whose first field is "$"+ID().
	Decode(fs FieldSet) (Record, error)
}

// Registry holds an ordered list of decoders and tries them in order.
// Register is not safe to call while Decode runs on another goroutine.
type Registry struct {
	decoders []Decoder
}

func NewRegistry(decoders ...Decoder) *Registry {
	r := &Registry{}
	for _, d := range decoders {
		r.Register(d)
	}
	return r
}

// DefaultRegistry decodes GPGGA, GNGGA, GPGSA, GPGLL, GPGSV and GPRMC.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewGPGGADecoder(),
		NewGNGGADecoder(),
		NewGSADecoder(),
		NewGLLDecoder(),
		NewGSVDecoder(),
		NewRMCDecoder(),
	)
}

func (r *Registry) Register(d Decoder) {
	if d == nil {
		return
	}
	r.decoders = append(r.decoders, d)
}

// Decoders returns the registered decoders in trial order.
func (r *Registry) Decoders() []Decoder {
	out := make([]Decoder, len(r.decoders))
	copy(out, r.decoders)
	return out
}

// Decode runs raw through every decoder that owns its identifier and returns
// the first record produced. It returns ErrUnknownSentence when no decoder
// owns the identifier, otherwise the last decoder's error.
func (r *Registry) Decode(raw string) (Record, error) {
	var (
		fs     FieldSet
		parsed bool
		last   error
	)
	for _, d := range r.decoders {
		if !strings.HasPrefix(raw, "$"+d.ID()) {
			continue
		}
		if !parsed {
			var err error
			if fs, err = ParseFieldSet(raw); err != nil {
				return nil, fmt.Errorf("%s: %w", d.ID(), err)
			}
			parsed = true
		}
		rec, err := tryDecode(d, fs)
		if err == nil {
			return rec, nil
		}
		last = err
	}
	if last == nil {
		return nil, ErrUnknownSentence
	}
	return nil, last
}

func tryDecode(d Decoder, fs FieldSet) (rec Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec = nil
			err = fmt.Errorf("%s: %w: %v", d.ID(), ErrDecoderPanic, p)
		}
	}()
	rec, err = d.Decode(fs)
	if err == nil && rec == nil {
		err = fmt.Errorf("%s: %w: decoder returned no record", d.ID(), ErrInvalidField)
	}
	return rec, err
}

// RejectReason maps a Decode error to a short label for logs and metrics.
func RejectReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownSentence):
		return "unknown"
	case errors.Is(err, ErrMissingChecksum):
		return "missing_checksum"
	case errors.Is(err, ErrTooFewFields):
		return "too_few_fields"
	case errors.Is(err, ErrInvalidField):
		return "invalid_field"
	case errors.Is(err, ErrDecoderPanic):
		return "panic"
	default:
		return "other"
	}
}
