// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"log/slog"

	"github.com/relabs-tech/gps_reader/internal/metrics"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

// aggregator reassembles satellites-in-view groups. It is either empty or
// collecting a group whose members all declare the same count; a group is
// handed back and cleared as soon as it holds count sentences.
type aggregator struct {
	log     *slog.Logger
	metrics *metrics.Metrics

	group []nmea.GSV
	count int
}

// observe adds g and returns the completed group, or nil.
func (a *aggregator) observe(g nmea.GSV) []nmea.GSV {
	count, ok := g.DeclaredCount()
	if !ok || count <= 0 {
		a.log.Warn("satellites-in-view sentence has no usable message count, not aggregated",
			"message_count", deref(g.MessageCount))
		a.metrics.Unaggregated()
		return nil
	}

	if len(a.group) > 0 {
		if count != a.count {
			a.log.Warn("satellites-in-view message count changed, dropping partial group",
				"had", a.count, "got", count, "dropped", len(a.group))
			a.metrics.GroupReset("count_mismatch")
			a.reset()
		} else if idx, ok := g.Index(); ok && idx == 1 {
			a.log.Warn("satellites-in-view group restarted, dropping partial group",
				"dropped", len(a.group), "of", a.count)
			a.metrics.GroupReset("restart")
			a.reset()
		}
	}

	if len(a.group) == 0 {
		a.count = count
	}
	a.group = append(a.group, g)
	if len(a.group) < a.count {
		return nil
	}

	done := a.group
	a.reset()
	a.metrics.GroupCompleted()
	return done
}

func (a *aggregator) pending() int { return len(a.group) }

func (a *aggregator) reset() {
	a.group = nil
	a.count = 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
