// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics holds the Prometheus counters of the reader. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gps_reader"

type Metrics struct {
	decoded       *prometheus.CounterVec // by kind
	rejected      *prometheus.CounterVec // by reason
	checksum      *prometheus.CounterVec // mismatches by kind
	warnings      *prometheus.CounterVec // range warnings by kind
	groups        prometheus.Counter
	groupResets   *prometheus.CounterVec // by reason
	unaggregated  prometheus.Counter
	published     *prometheus.CounterVec // by sink and kind
	publishErrors *prometheus.CounterVec // by sink
	droppedLines  prometheus.Counter
	wsClients     prometheus.Gauge
}

// New creates the reader metrics and registers them with reg.
// A nil registerer disables metrics and returns nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nmea",
			Name:      "sentences_decoded_total",
			Help:      "Sentences decoded, by kind",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nmea",
			Name:      "sentences_rejected_total",
			Help:      "Sentences that produced no record, by reason",
		}, []string{"reason"}),
		checksum: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nmea",
			Name:      "checksum_mismatch_total",
			Help:      "Decoded sentences whose checksum did not match, by kind",
		}, []string{"kind"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nmea",
			Name:      "range_warnings_total",
			Help:      "Values outside their plausible range, by kind",
		}, []string{"kind"}),
		groups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gsv",
			Name:      "groups_completed_total",
			Help:      "Satellites-in-view groups assembled and published",
		}),
		groupResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gsv",
			Name:      "group_resets_total",
			Help:      "Partial satellites-in-view groups discarded, by reason",
		}, []string{"reason"}),
		unaggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gsv",
			Name:      "unaggregated_total",
			Help:      "Satellites-in-view sentences published without a usable message count",
		}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "notifications_total",
			Help:      "Notifications delivered to an output, by sink and kind",
		}, []string{"sink", "kind"}),
		publishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "errors_total",
			Help:      "Failed deliveries, by sink",
		}, []string{"sink"}),
		droppedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "partial_lines_dropped_total",
			Help:      "Carried partial lines discarded for exceeding the size cap",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "websocket_clients",
			Help:      "Connected WebSocket clients",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.decoded, m.rejected, m.checksum, m.warnings,
		m.groups, m.groupResets, m.unaggregated,
		m.published, m.publishErrors,
		m.droppedLines, m.wsClients,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) SentenceDecoded(kind string) {
	if m == nil {
		return
	}
	m.decoded.WithLabelValues(kind).Inc()
}

func (m *Metrics) SentenceRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ChecksumMismatch(kind string) {
	if m == nil {
		return
	}
	m.checksum.WithLabelValues(kind).Inc()
}

func (m *Metrics) RangeWarning(kind string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(kind).Inc()
}

func (m *Metrics) GroupCompleted() {
	if m == nil {
		return
	}
	m.groups.Inc()
}

// GroupReset counts a discarded partial group. reason is "count_mismatch"
// or "restart".
func (m *Metrics) GroupReset(reason string) {
	if m == nil {
		return
	}
	m.groupResets.WithLabelValues(reason).Inc()
}

// Unaggregated counts a satellites-in-view sentence left out of any group.
func (m *Metrics) Unaggregated() {
	if m == nil {
		return
	}
	m.unaggregated.Inc()
}

func (m *Metrics) Published(sink, kind string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(sink, kind).Inc()
}

func (m *Metrics) PublishFailed(sink string) {
	if m == nil {
		return
	}
	m.publishErrors.WithLabelValues(sink).Inc()
}

func (m *Metrics) PartialLineDropped() {
	if m == nil {
		return
	}
	m.droppedLines.Inc()
}

func (m *Metrics) SetWebSocketClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}
