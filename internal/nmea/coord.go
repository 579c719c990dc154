// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"fmt"
	"strings"

	gonmea "github.com/adrianmo/go-nmea"
)

// ParseCoordinate converts an NMEA ddmm.mmmm (latitude) or dddmm.mmmm
// (longitude) value plus its hemisphere letter to decimal degrees.
//
// The last two digits of the integer part are whole minutes; everything
// before them is degrees. S and W negate the result; a missing or unknown
// hemisphere reads as positive. No range check is made here, see
// GGA.Warnings.
func ParseCoordinate(value, hemisphere string) (float64, error) {
	value = strings.TrimSpace(value)
	intPart, frac, hasFrac := strings.Cut(value, ".")
	if len(intPart) < 3 || !isDigits(intPart) || (hasFrac && !isDigits(frac)) {
		return 0, fmt.Errorf("coordinate %q: want [d]ddmm.mmmm", value)
	}

	dir := strings.ToUpper(strings.TrimSpace(hemisphere))
	switch dir {
	case gonmea.North, gonmea.South, gonmea.East, gonmea.West:
	default:
		dir = gonmea.North
	}
	dec, err := gonmea.ParseGPS(value + " " + dir)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", value, err)
	}
	return dec, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
