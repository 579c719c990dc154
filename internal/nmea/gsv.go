// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"strconv"
	"strings"
)

const (
	gsvFirstSatellite   = 4
	gsvFieldsPerSat     = 4
	maxSatellitesPerGSV = 4
)

// Satellite is one entry of a GSV sentence.
type Satellite struct {
	Number    *string `json:"number"`
	Elevation *string `json:"elevation"`
	Azimuth   *string `json:"azimuth"`
	SNR       *string `json:"snr"`
}

// GSV is one sentence of a satellites-in-view group.
type GSV struct {
	Header
	MessageCount     *string     `json:"message_count"`
	MessageNumber    *string     `json:"message_number"`
	SatellitesInView *string     `json:"satellites_in_view"`
	Satellites       []Satellite `json:"satellites"`
}

// DeclaredCount is the number of sentences in the group this one belongs to.
func (g GSV) DeclaredCount() (int, bool) { return atoiOpt(g.MessageCount) }

// Index is this sentence's 1-based position in its group.
func (g GSV) Index() (int, bool) { return atoiOpt(g.MessageNumber) }

func atoiOpt(s *string) (int, bool) {
	if s == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return 0, false
	}
	return v, true
}

type gsvDecoder struct{}

func NewGSVDecoder() Decoder { return gsvDecoder{} }

func (gsvDecoder) ID() string { return "GPGSV" }

// Decode reads up to four satellites. A trailing group with fewer than four
// fields, such as the NMEA 4.1 signal id, is ignored.
func (d gsvDecoder) Decode(fs FieldSet) (Record, error) {
	rec := GSV{
		Header:           fs.header(d.ID()),
		MessageCount:     optString(fs.Field(1)),
		MessageNumber:    optString(fs.Field(2)),
		SatellitesInView: optString(fs.Field(3)),
		Satellites:       make([]Satellite, 0, maxSatellitesPerGSV),
	}
	f := fs.Fields
	for i := gsvFirstSatellite; i+gsvFieldsPerSat <= len(f) && len(rec.Satellites) < maxSatellitesPerGSV; i += gsvFieldsPerSat {
		rec.Satellites = append(rec.Satellites, Satellite{
			Number:    optString(f[i]),
			Elevation: optString(f[i+1]),
			Azimuth:   optString(f[i+2]),
			SNR:       optString(f[i+3]),
		})
	}
	return rec, nil
}
