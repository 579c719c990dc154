// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

const (
	gsaMinFields  = 15
	gsaFirstSlot  = 3
	gsaSlotCount  = 12
	gsaPDOPOffset = 15
)

// GSA is the DOP and active satellites sentence. Dilution values keep the
// receiver's text so no precision is lost.
type GSA struct {
	Header
	Mode       *string  `json:"mode"`
	FixStatus  *string  `json:"fix_status"`
	Satellites []string `json:"satellites"`
	PDOP       *string  `json:"pdop"`
	HDOP       *string  `json:"hdop"`
	VDOP       *string  `json:"vdop"`
}

type gsaDecoder struct{}

func NewGSADecoder() Decoder { return gsaDecoder{} }

func (gsaDecoder) ID() string { return "GPGSA" }

func (d gsaDecoder) Decode(fs FieldSet) (Record, error) {
	if len(fs.Fields) < gsaMinFields {
		return nil, tooFewFields(d.ID(), len(fs.Fields), gsaMinFields)
	}
	rec := GSA{
		Header:     fs.header(d.ID()),
		Mode:       optString(fs.Field(1)),
		FixStatus:  optString(fs.Field(2)),
		Satellites: make([]string, 0, gsaSlotCount),
		PDOP:       optString(fs.Field(gsaPDOPOffset)),
		HDOP:       optString(fs.Field(gsaPDOPOffset + 1)),
		VDOP:       optString(fs.Field(gsaPDOPOffset + 2)),
	}
	for i := gsaFirstSlot; i < gsaFirstSlot+gsaSlotCount; i++ {
		if id := fs.Field(i); id != "" {
			rec.Satellites = append(rec.Satellites, id)
		}
	}
	return rec, nil
}
