// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"fmt"
	"time"
)

// ggaMinFields counts the identifier, as receivers always send the DGPS
// fields even when empty.
const ggaMinFields = 15

// GGA is a positioning fix (GPGGA or GNGGA).
type GGA struct {
	Header
	UTC *string `json:"utc"`
	// UTCTime holds the time of day; the date part is meaningless.
	UTCTime              *time.Time `json:"utc_time"`
	Latitude             *float64   `json:"latitude"`
	Longitude            *float64   `json:"longitude"`
	Quality              *int       `json:"quality"`
	Satellites           *int       `json:"satellites"`
	HDOP                 *float64   `json:"hdop"`
	Altitude             *float64   `json:"altitude"`
	AltitudeUnits        *string    `json:"altitude_units"`
	GeoidSeparation      *float64   `json:"geoid_separation"`
	GeoidSeparationUnits *string    `json:"geoid_separation_units"`
	DGPSAge              *string    `json:"dgps_age"`
	DGPSStation          *string    `json:"dgps_station"`
}

// Warnings reports values outside their plausible range. They never make
// the sentence invalid.
func (g GGA) Warnings() []string {
	var w []string
	if g.Latitude != nil && (*g.Latitude < -90 || *g.Latitude > 90) {
		w = append(w, fmt.Sprintf("latitude out of range [-90, 90]: %v", *g.Latitude))
	}
	if g.Longitude != nil && (*g.Longitude < -180 || *g.Longitude > 180) {
		w = append(w, fmt.Sprintf("longitude out of range [-180, 180]: %v", *g.Longitude))
	}
	if g.Quality != nil && (*g.Quality < 0 || *g.Quality > 9) {
		w = append(w, fmt.Sprintf("quality out of range [0, 9]: %d", *g.Quality))
	}
	if g.Satellites != nil && *g.Satellites > 30 {
		w = append(w, fmt.Sprintf("satellite count unusually high (>30): %d", *g.Satellites))
	}
	if g.HDOP != nil && *g.HDOP > 100 {
		w = append(w, fmt.Sprintf("hdop unusually high (>100): %v", *g.HDOP))
	}
	return w
}

type ggaDecoder struct {
	id      string
	station bool
}

// NewGNGGADecoder decodes multi-constellation fixes, DGPS station included.
func NewGNGGADecoder() Decoder { return ggaDecoder{id: "GNGGA", station: true} }

// NewGPGGADecoder decodes GPS-only fixes. The DGPS station field is not
// read for this identifier.
func NewGPGGADecoder() Decoder { return ggaDecoder{id: "GPGGA"} }

func (d ggaDecoder) ID() string { return d.id }

// GGA fields:
//
//	 1: time (hhmmss[.ss])
//	 2: latitude (ddmm.mmmm)   3: N/S
//	 4: longitude (dddmm.mmmm) 5: E/W
//	 6: fix quality            7: satellites in use
//	 8: HDOP
//	 9: altitude              10: units
//	11: geoid separation      12: units
//	13: DGPS age              14: DGPS station
func (d ggaDecoder) Decode(fs FieldSet) (Record, error) {
	f := fs.Fields
	if len(f) < ggaMinFields {
		return nil, tooFewFields(d.id, len(f), ggaMinFields)
	}

	rec := GGA{Header: fs.header(d.id)}
	var err error

	rec.UTC = optString(f[1])
	if rec.UTC != nil {
		rec.UTCTime = parseTimeOfDay(*rec.UTC)
	}
	// Coordinates skip the parser's range check: out-of-range values are
	// warnings, not rejections.
	if rec.Latitude, err = optCoordinate(f[2], f[3]); err != nil {
		return nil, invalidField(d.id, "latitude", err)
	}
	if rec.Longitude, err = optCoordinate(f[4], f[5]); err != nil {
		return nil, invalidField(d.id, "longitude", err)
	}

	r := newFieldReader(fs, d.id)
	rec.Quality = r.int(6, "quality")
	rec.Satellites = r.int(7, "satellites")
	rec.HDOP = r.float(8, "hdop")
	rec.Altitude = r.float(9, "altitude")
	rec.AltitudeUnits = optString(f[10])
	rec.GeoidSeparation = r.float(11, "geoid separation")
	rec.GeoidSeparationUnits = optString(f[12])
	rec.DGPSAge = optString(f[13])
	if d.station {
		rec.DGPSStation = optString(f[14])
	}
	if err := r.err(); err != nil {
		return nil, invalidField(d.id, "field", err)
	}
	return rec, nil
}

// parseTimeOfDay accepts hhmmss with or without fractional seconds.
func parseTimeOfDay(s string) *time.Time {
	t, err := time.Parse("150405", s)
	if err != nil {
		return nil
	}
	return &t
}
