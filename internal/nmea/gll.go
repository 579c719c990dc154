// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

// GLL is a geographic position. Coordinates are left as sent.
type GLL struct {
	Header
	Latitude            *string `json:"latitude"`
	LatitudeHemisphere  *string `json:"latitude_hemisphere"`
	Longitude           *string `json:"longitude"`
	LongitudeHemisphere *string `json:"longitude_hemisphere"`
	UTC                 *string `json:"utc"`
	Status              *string `json:"status"`
	Mode                *string `json:"mode"`
}

type gllDecoder struct{}

func NewGLLDecoder() Decoder { return gllDecoder{} }

func (gllDecoder) ID() string { return "GPGLL" }

// Decode never rejects on length; missing trailing fields are absent.
func (d gllDecoder) Decode(fs FieldSet) (Record, error) {
	return GLL{
		Header:              fs.header(d.ID()),
		Latitude:            optString(fs.Field(1)),
		LatitudeHemisphere:  optString(fs.Field(2)),
		Longitude:           optString(fs.Field(3)),
		LongitudeHemisphere: optString(fs.Field(4)),
		UTC:                 optString(fs.Field(5)),
		Status:              optString(fs.Field(6)),
		Mode:                optString(fs.Field(7)),
	}, nil
}
