// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"fmt"
	"strings"

	gonmea "github.com/adrianmo/go-nmea"
)

// FieldSet is one sentence split into its comma-delimited fields and the
// checksum token that followed '*'.
type FieldSet struct {
	Raw string
	// Fields is in wire order; Fields[0] is the identifier including '$'.
	Fields []string
	// Checksum is the received token without the '*'.
	Checksum string
}

// ParseFieldSet separates the field list from the trailing checksum token.
// The checksum itself is not verified here, see FieldSet.ChecksumValid.
func ParseFieldSet(raw string) (FieldSet, error) {
	body, token, ok := strings.Cut(raw, "*")
	if !ok {
		return FieldSet{}, fmt.Errorf("%w: %q", ErrMissingChecksum, raw)
	}
	return FieldSet{
		Raw:      raw,
		Fields:   strings.Split(body, ","),
		Checksum: strings.TrimSpace(token),
	}, nil
}

// Field returns field i, or "" when the sentence is shorter.
func (fs FieldSet) Field(i int) string {
	if i < 0 || i >= len(fs.Fields) {
		return ""
	}
	return fs.Fields[i]
}

// ChecksumValid reports whether the received token matches the XOR of the
// sentence body. Hex case is ignored.
func (fs FieldSet) ChecksumValid() bool {
	want := Checksum(fs.Raw)
	return want != "" && strings.EqualFold(want, fs.Checksum)
}

func (fs FieldSet) header(id string) Header {
	return Header{ID: id, Checksum: fs.Checksum, ChecksumValid: fs.ChecksumValid()}
}

// Checksum computes the NMEA checksum of sentence: the XOR of every byte
// strictly between the first '$' and the first '*', as two uppercase hex
// digits. It returns "" if either delimiter is missing or out of order.
func Checksum(sentence string) string {
	start := strings.IndexByte(sentence, '$')
	end := strings.IndexByte(sentence, '*')
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return gonmea.Checksum(sentence[start+1 : end])
}
