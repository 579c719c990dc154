// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeGSV(t *testing.T, raw string) GSV {
	t.Helper()
	fs, err := ParseFieldSet(raw)
	require.NoError(t, err)
	rec, err := NewGSVDecoder().Decode(fs)
	require.NoError(t, err)
	return rec.(GSV)
}

func TestGSV_Decode(t *testing.T) {
	gsv := decodeGSV(t, "$GPGSV,3,1,12,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*7F")

	assert.Equal(t, KindGPGSV, gsv.Kind())
	assert.True(t, gsv.ChecksumValid)
	n, ok := gsv.DeclaredCount()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	idx, ok := gsv.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "12", str(gsv.SatellitesInView))

	require.Len(t, gsv.Satellites, 4)
	assert.Equal(t, "01", str(gsv.Satellites[0].Number))
	assert.Equal(t, "40", str(gsv.Satellites[0].Elevation))
	assert.Equal(t, "083", str(gsv.Satellites[0].Azimuth))
	assert.Equal(t, "46", str(gsv.Satellites[0].SNR))
	assert.Equal(t, "14", str(gsv.Satellites[3].Number))
}

func TestGSV_EmptySNR(t *testing.T) {
	gsv := decodeGSV(t, "$GPGSV,3,3,12,24,12,110,38,25,45,200,40,26,05,020,,29,67,080,48*79")
	require.Len(t, gsv.Satellites, 4)
	assert.Equal(t, "26", str(gsv.Satellites[2].Number))
	assert.Nil(t, gsv.Satellites[2].SNR)
}

func TestGSV_PartialTrailingGroupDropped(t *testing.T) {
	gsv := decodeGSV(t, "$GPGSV,1,1,03,01,40,083,46,02,17,308,41,12,07,344,39,1*5C")
	assert.Len(t, gsv.Satellites, 3)
}

func TestGSV_HeaderOnly(t *testing.T) {
	gsv := decodeGSV(t, nmeaLine("GPGSV,1,1,00"))
	assert.NotNil(t, gsv.Satellites)
	assert.Empty(t, gsv.Satellites)
}

func TestGSV_UnparsableCount(t *testing.T) {
	gsv := decodeGSV(t, nmeaLine("GPGSV,x,1,00"))
	_, ok := gsv.DeclaredCount()
	assert.False(t, ok)

	gsv = decodeGSV(t, nmeaLine("GPGSV"))
	_, ok = gsv.DeclaredCount()
	assert.False(t, ok)
	_, ok = gsv.Index()
	assert.False(t, ok)
}
