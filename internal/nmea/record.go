// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"encoding/json"
	"fmt"
	"strings"

	gonmea "github.com/adrianmo/go-nmea"
)

// Kind names a notification channel. Sentence kinds are the lowercase
// sentence identifier.
type Kind string

const (
	KindGPGGA Kind = "gpgga"
	KindGNGGA Kind = "gngga"
	KindGPGSA Kind = "gpgsa"
	KindGPGLL Kind = "gpgll"
	KindGPGSV Kind = "gpgsv"
	KindGPRMC Kind = "gprmc"

	// KindGSVGroup carries a completed satellites-in-view group.
	KindGSVGroup Kind = "gpgsv_group"
)

// Kinds lists every channel in a stable order.
func Kinds() []Kind {
	return []Kind{KindGPGGA, KindGNGGA, KindGPGSA, KindGPGLL, KindGPGSV, KindGPRMC, KindGSVGroup}
}

// Header is embedded in every record.
type Header struct {
	ID            string `json:"id"`
	Checksum      string `json:"checksum"`
	ChecksumValid bool   `json:"checksum_valid"`
}

func (h Header) Kind() Kind { return Kind(strings.ToLower(h.ID)) }

func (h Header) Sentence() Header { return h }

// Record is a decoded sentence.
type Record interface {
	Kind() Kind
	Sentence() Header
}

// UnmarshalRecord decodes the JSON form of a record of the given kind.
func UnmarshalRecord(kind Kind, data []byte) (Record, error) {
	switch kind {
	case KindGPGGA, KindGNGGA:
		var r GGA
		err := json.Unmarshal(data, &r)
		return r, err
	case KindGPGSA:
		var r GSA
		err := json.Unmarshal(data, &r)
		return r, err
	case KindGPGLL:
		var r GLL
		err := json.Unmarshal(data, &r)
		return r, err
	case KindGPGSV:
		var r GSV
		err := json.Unmarshal(data, &r)
		return r, err
	case KindGPRMC:
		var r RMC
		err := json.Unmarshal(data, &r)
		return r, err
	default:
		return nil, fmt.Errorf("nmea: no record type for kind %q", kind)
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fieldReader reads fields with the go-nmea field parser. Indexes are wire
// positions (0 is the identifier). Empty fields are skipped so they stay nil
// instead of becoming zero; the first parse failure is kept for err.
type fieldReader struct {
	fields []string
	p      *gonmea.Parser
}

func newFieldReader(fs FieldSet, id string) fieldReader {
	return fieldReader{
		fields: fs.Fields,
		// go-nmea indexes fields after the identifier.
		p: gonmea.NewParser(gonmea.BaseSentence{
			Talker:   id[:2],
			Type:     id[2:],
			Fields:   fs.Fields[1:],
			Checksum: fs.Checksum,
			Raw:      fs.Raw,
		}),
	}
}

func (r fieldReader) present(i int) bool {
	return i < len(r.fields) && r.fields[i] != ""
}

func (r fieldReader) int(i int, name string) *int {
	if !r.present(i) {
		return nil
	}
	v := int(r.p.Int64(i-1, name))
	return &v
}

func (r fieldReader) float(i int, name string) *float64 {
	if !r.present(i) {
		return nil
	}
	v := r.p.Float64(i-1, name)
	return &v
}

func (r fieldReader) err() error { return r.p.Err() }

func optCoordinate(value, hemisphere string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	v, err := ParseCoordinate(value, hemisphere)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func invalidField(id, name string, err error) error {
	return fmt.Errorf("%s %s: %w: %v", id, name, ErrInvalidField, err)
}

func tooFewFields(id string, got, want int) error {
	return fmt.Errorf("%s: %w: got %d, want at least %d", id, ErrTooFewFields, got, want)
}
