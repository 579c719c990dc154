// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gps_reader/internal/nmea"
)

func TestBus_FiltersByKind(t *testing.T) {
	var b Bus
	all, fixes := &collector{}, &collector{}
	b.Subscribe(all)
	b.Subscribe(fixes, nmea.KindGPGGA, nmea.KindGNGGA)

	b.Publish(Notification{Kind: nmea.KindGPGGA})
	b.Publish(Notification{Kind: nmea.KindGPGLL})
	b.Publish(Notification{Kind: nmea.KindGNGGA})

	assert.Equal(t, []nmea.Kind{nmea.KindGPGGA, nmea.KindGPGLL, nmea.KindGNGGA}, all.kinds())
	assert.Equal(t, []nmea.Kind{nmea.KindGPGGA, nmea.KindGNGGA}, fixes.kinds())
}

func TestBus_Cancel(t *testing.T) {
	b := NewBus()
	c := &collector{}
	cancel := b.Subscribe(c)
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()
	assert.Equal(t, 0, b.Subscribers())

	b.Publish(Notification{Kind: nmea.KindGPGGA})
	assert.Empty(t, c.all())
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	late := &collector{}
	b.Subscribe(SinkFunc(func(Notification) { b.Subscribe(late) }))

	b.Publish(Notification{Kind: nmea.KindGPGLL})
	assert.Empty(t, late.all())
	assert.Equal(t, 2, b.Subscribers())
}

func TestBus_TypedAdapters(t *testing.T) {
	reg := nmea.DefaultRegistry()
	b := NewBus()

	var fixRaw string
	var dop nmea.GSA
	var positions, satellites, groups int
	b.Subscribe(OnFix(func(raw string, _ nmea.GGA) { fixRaw = raw }))
	b.Subscribe(OnDOP(func(_ string, r nmea.GSA) { dop = r }))
	b.Subscribe(OnPosition(func(string, nmea.GLL) { positions++ }))
	b.Subscribe(OnSatellites(func(string, nmea.GSV) { satellites++ }))
	b.Subscribe(OnSatelliteGroup(func(g []nmea.GSV) { groups += len(g) }))

	for _, raw := range []string{ggaLine, gsaLine, gllLine, gsv1} {
		rec, err := reg.Decode(raw)
		require.NoError(t, err)
		b.Publish(Notification{Kind: rec.Kind(), Raw: raw, Record: rec})
	}
	b.Publish(Notification{Kind: nmea.KindGSVGroup, Group: []nmea.GSV{mustGSV(gsv1)}})

	assert.Equal(t, ggaLine, fixRaw)
	assert.Equal(t, []string{"22", "17", "14"}, dop.Satellites)
	assert.Equal(t, 1, positions)
	assert.Equal(t, 1, satellites)
	assert.Equal(t, 1, groups)
}

func TestBus_OnRMC(t *testing.T) {
	rec, err := nmea.DefaultRegistry().Decode("$GPRMC,,V,,,,,,,,,,N*53")
	require.NoError(t, err)

	var got nmea.RMC
	b := NewBus()
	b.Subscribe(OnRMC(func(_ string, r nmea.RMC) { got = r }), nmea.KindGPRMC)
	b.Publish(Notification{Kind: nmea.KindGPRMC, Record: rec})
	assert.Equal(t, "V", *got.Validity)
}

func TestNotification_JSON(t *testing.T) {
	rec, err := nmea.DefaultRegistry().Decode(ggaLine)
	require.NoError(t, err)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := json.Marshal(Notification{Kind: rec.Kind(), Raw: ggaLine, Record: rec, ReceivedAt: at})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"gpgga"`)
	assert.Contains(t, string(data), `"dgps_station":null`)

	var back Notification
	require.NoError(t, json.Unmarshal(data, &back))
	gga, ok := back.Record.(nmea.GGA)
	require.True(t, ok, "got %T", back.Record)
	assert.InDelta(t, 48.1173, *gga.Latitude, 0.0001)
	assert.Equal(t, "42", gga.Checksum)
	assert.True(t, back.ReceivedAt.Equal(at))
}

func TestNotification_GroupJSON(t *testing.T) {
	data, err := json.Marshal(Notification{Kind: nmea.KindGSVGroup, Group: []nmea.GSV{mustGSV(gsv1), mustGSV(gsv2)}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"record"`)

	var back Notification
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.Record)
	require.Len(t, back.Group, 2)
	assert.Len(t, back.Group[1].Satellites, 4)
}
