// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gps_reader/internal/config"
	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/input"
	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/nmea"
	"github.com/relabs-tech/gps_reader/internal/publish"
)

const capture = `$GPGGA,123519,4807.038,N,01131.324,E,1,08,0.9,545.4,M,46.9,M,,*42
$GPGSA,A,1,22,17,14,,,,,,,,,,57.18,57.17,1.00*0D
$GPGSV,3,1,12,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*7F
$GPGSV,3,2,12,15,30,050,47,18,61,153,45,21,30,310,42,22,45,270,44*72
$GPGSV,3,3,12,24,12,110,38,25,45,200,40,26,05,020,,29,67,080,48*79
$GPGLL,,,,,211123.00,V,N*48

$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A
$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K*48
`

func decode(t *testing.T, raw string) gps.Notification {
	t.Helper()
	rec, err := nmea.DefaultRegistry().Decode(raw)
	require.NoError(t, err)
	return gps.Notification{Kind: rec.Kind(), Raw: raw, Record: rec}
}

func TestFormatNotification(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{
			"$GPGGA,123519,4807.038,N,01131.324,E,1,08,0.9,545.4,M,46.9,M,,*42",
			"[GPGGA] utc=123519 lat=48.117300 lon=11.522067 quality=1 sats=8 hdop=0.9 alt=545.4M",
		},
		{
			"$GPGSA,A,1,22,17,14,,,,,,,,,,57.18,57.17,1.00*0D",
			"[GPGSA] mode=A fix=1 sats=22,17,14 pdop=57.18 hdop=57.17 vdop=1.00",
		},
		{
			"$GPGLL,,,,,211123.00,V,N*48",
			"[GPGLL] lat=-- lon=-- utc=211123.00 status=V mode=N",
		},
		{
			"$GPGSV,3,1,12,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*7F",
			"[GPGSV] msg=1/3 in_view=12 sats=01,02,12,14",
		},
		{
			"$GPGLL,,,,,211123.00,V,N*00",
			"[GPGLL] lat=-- lon=-- utc=211123.00 status=V mode=N checksum=BAD(00)",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNotification(decode(t, tt.raw)))
	}
}

func TestFormatNotification_RMCAndGroup(t *testing.T) {
	line := formatNotification(decode(t, "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"))
	assert.True(t, strings.HasPrefix(line, "[GPRMC] time="), line)
	assert.Contains(t, line, "validity=A lat=48.117300 lon=11.516667 speed=22.4kn course=84.4")

	g := decode(t, "$GPGSV,1,1,02,07,79,048,42,09,10,200,*72")
	group := formatNotification(gps.Notification{Kind: nmea.KindGSVGroup, Group: []nmea.GSV{g.Record.(nmea.GSV)}})
	assert.Equal(t, "[SATS ] 1 sentences, 2 satellites: 07(42) 09(-)", group)
}

func TestPrintPayload(t *testing.T) {
	data, err := json.Marshal(decode(t, "$GPGLL,,,,,211123.00,V,N*48"))
	require.NoError(t, err)

	var out bytes.Buffer
	printPayload(&out, "gps/nmea/gpgll", data)
	assert.Equal(t, "[GPGLL] lat=-- lon=-- utc=211123.00 status=V mode=N\n", out.String())

	out.Reset()
	printPayload(&out, "gps/nmea/gpgll", []byte("not json"))
	assert.Empty(t, out.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewInput(t *testing.T) {
	cfg := config.Default()

	cfg.GPSSerialPort = "/dev/serial0"
	in, err := newInput(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &input.Serial{}, in)

	cfg.InputSource = config.SourceFile
	in, err = newInput(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &input.File{}, in)

	cfg.InputSource = config.SourceTCP
	in, err = newInput(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &input.TCP{}, in)
	assert.NotNil(t, inputDone(in))

	cfg.InputSource = "usb"
	_, err = newInput(cfg, nil)
	assert.Error(t, err)
}

func replayConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.txt")
	require.NoError(t, os.WriteFile(path, []byte(capture), 0o644))

	cfg := config.Default()
	cfg.InputSource = config.SourceFile
	cfg.ReplayFile = path
	cfg.ReplayInterval = 0
	cfg.LogLevel = "error"
	return cfg
}

func TestRunConsole_ReplaysFile(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, runConsole(ctx, replayConfig(t), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "[GPGGA]"))
	assert.True(t, strings.HasPrefix(lines[1], "[GPGSA]"))
	assert.True(t, strings.HasPrefix(lines[4], "[GPGSV] msg=3/3"))
	assert.True(t, strings.HasPrefix(lines[5], "[SATS ] 3 sentences, 12 satellites"))
	assert.True(t, strings.HasPrefix(lines[6], "[GPGLL]"))
	assert.True(t, strings.HasPrefix(lines[7], "[GPRMC]"))
}

func TestRunConsole_OpenFailure(t *testing.T) {
	cfg := replayConfig(t)
	cfg.ReplayFile = filepath.Join(t.TempDir(), "absent.txt")
	err := runConsole(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, gps.ErrStart)
	assert.ErrorIs(t, err, input.ErrOpen)
}

func TestRunReader_ReplaysFileWithoutOutputs(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, runReader(ctx, replayConfig(t)))
}

func TestWebMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.SentenceDecoded("gpgll")

	latest := publish.NewLatest()
	hub := publish.NewHub(publish.HubConfig{Metrics: m})
	defer hub.Close()
	srv := httptest.NewServer(newWebMux(hub, latest, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	latest.Publish(decode(t, "$GPGLL,,,,,211123.00,V,N*48"))
	resp, err = http.Get(srv.URL + "/api/latest?kind=gpgll")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `gps_reader_nmea_sentences_decoded_total{kind="gpgll"} 1`)
}

func TestRelayPayload(t *testing.T) {
	bus := gps.NewBus()
	latest := publish.NewLatest()
	bus.Subscribe(latest)

	data, err := json.Marshal(decode(t, "$GPGLL,,,,,211123.00,V,N*48"))
	require.NoError(t, err)
	require.NoError(t, relayPayload(bus, data))

	n, ok := latest.Get(nmea.KindGPGLL)
	require.True(t, ok)
	assert.IsType(t, nmea.GLL{}, n.Record)

	assert.Error(t, relayPayload(bus, []byte("{")))
}
