// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"strings"

	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

// formatNotification renders one console line. Absent values print as "-".
func formatNotification(n gps.Notification) string {
	if n.Kind == nmea.KindGSVGroup {
		return formatGroup(n.Group)
	}

	var line string
	switch r := n.Record.(type) {
	case nmea.GGA:
		line = fmt.Sprintf("[%s] utc=%s lat=%s lon=%s quality=%s sats=%s hdop=%s alt=%s%s",
			r.ID, optStr(r.UTC), optCoord(r.Latitude), optCoord(r.Longitude),
			optInt(r.Quality), optInt(r.Satellites), optNum(r.HDOP),
			optNum(r.Altitude), optStr(r.AltitudeUnits))
	case nmea.GSA:
		line = fmt.Sprintf("[%s] mode=%s fix=%s sats=%s pdop=%s hdop=%s vdop=%s",
			r.ID, optStr(r.Mode), optStr(r.FixStatus), joinOrDash(r.Satellites),
			optStr(r.PDOP), optStr(r.HDOP), optStr(r.VDOP))
	case nmea.GLL:
		line = fmt.Sprintf("[%s] lat=%s%s lon=%s%s utc=%s status=%s mode=%s",
			r.ID, optStr(r.Latitude), optStr(r.LatitudeHemisphere),
			optStr(r.Longitude), optStr(r.LongitudeHemisphere),
			optStr(r.UTC), optStr(r.Status), optStr(r.Mode))
	case nmea.GSV:
		ids := make([]string, 0, len(r.Satellites))
		for _, s := range r.Satellites {
			ids = append(ids, optStr(s.Number))
		}
		line = fmt.Sprintf("[%s] msg=%s/%s in_view=%s sats=%s",
			r.ID, optStr(r.MessageNumber), optStr(r.MessageCount),
			optStr(r.SatellitesInView), joinOrDash(ids))
	case nmea.RMC:
		line = fmt.Sprintf("[%s] time=%s date=%s validity=%s lat=%s lon=%s speed=%skn course=%s",
			r.ID, optStr(r.Time), optStr(r.Date), optStr(r.Validity),
			optCoord(r.Latitude), optCoord(r.Longitude),
			optNum(r.SpeedKnots), optNum(r.CourseDeg))
	default:
		return fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Kind)), n.Raw)
	}

	if !n.Record.Sentence().ChecksumValid {
		line += " checksum=BAD(" + n.Record.Sentence().Checksum + ")"
	}
	return line
}

func formatGroup(group []nmea.GSV) string {
	var sats []string
	for _, g := range group {
		for _, s := range g.Satellites {
			sats = append(sats, fmt.Sprintf("%s(%s)", optStr(s.Number), optStr(s.SNR)))
		}
	}
	return fmt.Sprintf("[SATS ] %d sentences, %d satellites: %s",
		len(group), len(sats), strings.Join(sats, " "))
}

func optStr(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func optNum(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *p)
}

func optCoord(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.6f", *p)
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}
