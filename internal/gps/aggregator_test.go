// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gps_reader/internal/metrics"
)

func newAggregator(t *testing.T) *aggregator {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return &aggregator{log: quietLogger(), metrics: m}
}

func TestAggregator_CompletesGroup(t *testing.T) {
	a := newAggregator(t)

	assert.Nil(t, a.observe(mustGSV(gsv1)))
	assert.Equal(t, 1, a.pending())
	assert.Nil(t, a.observe(mustGSV(gsv2)))
	assert.Equal(t, 2, a.pending())

	group := a.observe(mustGSV(gsv3))
	require.Len(t, group, 3)
	assert.Equal(t, 0, a.pending())

	var numbers []string
	for _, g := range group {
		for _, s := range g.Satellites {
			numbers = append(numbers, *s.Number)
		}
	}
	assert.Equal(t, []string{
		"01", "02", "12", "14",
		"15", "18", "21", "22",
		"24", "25", "26", "29",
	}, numbers)
}

func TestAggregator_SingleSentenceGroup(t *testing.T) {
	a := newAggregator(t)
	group := a.observe(mustGSV(nmeaLine("GPGSV,1,1,01,07,79,048,42")))
	require.Len(t, group, 1)
	assert.Equal(t, 0, a.pending())
}

func TestAggregator_CountMismatchResets(t *testing.T) {
	a := newAggregator(t)
	assert.Nil(t, a.observe(mustGSV(gsv1)))

	// A two-sentence group arrives mid-way through the three-sentence one.
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,2,1,08,01,40,083,46"))))
	assert.Equal(t, 1, a.pending())
	assert.Equal(t, 2, a.count)

	group := a.observe(mustGSV(nmeaLine("GPGSV,2,2,08,15,30,050,47")))
	require.Len(t, group, 2)
}

func TestAggregator_RestartDropsPartialGroup(t *testing.T) {
	a := newAggregator(t)
	assert.Nil(t, a.observe(mustGSV(gsv1)))
	assert.Nil(t, a.observe(mustGSV(gsv2)))

	assert.Nil(t, a.observe(mustGSV(gsv1)))
	assert.Equal(t, 1, a.pending())

	assert.Nil(t, a.observe(mustGSV(gsv2)))
	require.Len(t, a.observe(mustGSV(gsv3)), 3)
}

func TestAggregator_InvalidCountNotAggregated(t *testing.T) {
	a := newAggregator(t)
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,x,1,04,01,40,083,46"))))
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,0,1,04,01,40,083,46"))))
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,,,04"))))
	assert.Equal(t, 0, a.pending())

	// A partial group survives the unusable sentence.
	assert.Nil(t, a.observe(mustGSV(gsv1)))
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,x,2,12"))))
	assert.Equal(t, 1, a.pending())
}

func TestAggregator_InvalidCountIsNotAReset(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	a := &aggregator{log: quietLogger(), metrics: m}

	assert.Nil(t, a.observe(mustGSV(gsv1)))
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,x,2,12"))))
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,0,2,12"))))
	assert.Equal(t, 1, a.pending())

	n, err := testutil.GatherAndCount(reg, "gps_reader_gsv_group_resets_total")
	require.NoError(t, err)
	assert.Zero(t, n)

	expected := `
# HELP gps_reader_gsv_unaggregated_total Satellites-in-view sentences published without a usable message count
# TYPE gps_reader_gsv_unaggregated_total counter
gps_reader_gsv_unaggregated_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gps_reader_gsv_unaggregated_total"))
}

func TestAggregator_NilMetrics(t *testing.T) {
	a := &aggregator{log: quietLogger()}
	assert.Nil(t, a.observe(mustGSV(nmeaLine("GPGSV,x,1,00"))))
	assert.Len(t, a.observe(mustGSV(nmeaLine("GPGSV,1,1,00"))), 1)
}
