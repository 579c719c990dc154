// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	gonmea "github.com/adrianmo/go-nmea"
)

const rmcMinFields = 10

// RMC is the recommended minimum fix. Time and date use the go-nmea
// renderings ("hh:mm:ss.ssss" and "dd/mm/yy").
type RMC struct {
	Header
	Time       *string  `json:"time"`
	Validity   *string  `json:"validity"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	SpeedKnots *float64 `json:"speed_knots"`
	CourseDeg  *float64 `json:"course_deg"`
	Date       *string  `json:"date"`
	Variation  *float64 `json:"variation"`
}

type rmcDecoder struct{}

func NewRMCDecoder() Decoder { return rmcDecoder{} }

func (rmcDecoder) ID() string { return "GPRMC" }

// Decode reads each field with the go-nmea field parser. Empty fields are
// skipped so they stay absent instead of becoming zero, and the checksum is
// left to FieldSet so a mismatch is only flagged.
func (d rmcDecoder) Decode(fs FieldSet) (Record, error) {
	f := fs.Fields
	if len(f) < rmcMinFields {
		return nil, tooFewFields(d.ID(), len(f), rmcMinFields)
	}

	r := newFieldReader(fs, d.ID())
	p := r.p
	rec := RMC{Header: fs.header(d.ID())}

	if r.present(1) {
		s := p.Time(0, "time").String()
		rec.Time = &s
	}
	if r.present(2) {
		s := p.EnumString(1, "validity", gonmea.ValidRMC, gonmea.InvalidRMC)
		rec.Validity = &s
	}
	if r.present(3) {
		v := p.LatLong(2, 3, "latitude")
		rec.Latitude = &v
	}
	if r.present(5) {
		v := p.LatLong(4, 5, "longitude")
		rec.Longitude = &v
	}
	rec.SpeedKnots = r.float(7, "speed")
	rec.CourseDeg = r.float(8, "course")
	if r.present(9) {
		s := p.Date(8, "date").String()
		rec.Date = &s
	}
	// A variation without its direction is kept unsigned.
	if rec.Variation = r.float(10, "variation"); rec.Variation != nil && r.present(11) {
		if p.EnumString(10, "variation direction", gonmea.West, gonmea.East) == gonmea.West {
			*rec.Variation = -*rec.Variation
		}
	}

	if err := r.err(); err != nil {
		return nil, invalidField(d.ID(), "field", err)
	}
	return rec, nil
}
