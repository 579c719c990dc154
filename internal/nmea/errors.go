// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import "errors"

var (
	// ErrMissingChecksum is returned for sentences without a '*' delimiter.
	ErrMissingChecksum = errors.New("nmea: missing checksum delimiter")
	// ErrUnknownSentence is returned when no decoder claims the sentence identifier.
	ErrUnknownSentence = errors.New("nmea: unknown sentence")
	ErrTooFewFields    = errors.New("nmea: too few fields")
	ErrInvalidField    = errors.New("nmea: invalid field")
	ErrDecoderPanic    = errors.New("nmea: decoder panic")
)
