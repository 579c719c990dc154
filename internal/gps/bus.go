// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"encoding/json"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/gps_reader/internal/nmea"
)

// Notification is one decoded sentence, or one completed satellites-in-view
// group when Kind is nmea.KindGSVGroup.
type Notification struct {
	Kind       nmea.Kind   `json:"kind"`
	Raw        string      `json:"raw,omitempty"`
	Record     nmea.Record `json:"record,omitempty"`
	Group      []nmea.GSV  `json:"group,omitempty"`
	ReceivedAt time.Time   `json:"received_at"`
}

// UnmarshalJSON restores the concrete record type from Kind.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var aux struct {
		Kind       nmea.Kind       `json:"kind"`
		Raw        string          `json:"raw"`
		Record     json.RawMessage `json:"record"`
		Group      []nmea.GSV      `json:"group"`
		ReceivedAt time.Time       `json:"received_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Notification{Kind: aux.Kind, Raw: aux.Raw, Group: aux.Group, ReceivedAt: aux.ReceivedAt}
	if len(aux.Record) == 0 || string(aux.Record) == "null" {
		return nil
	}
	rec, err := nmea.UnmarshalRecord(aux.Kind, aux.Record)
	if err != nil {
		return err
	}
	n.Record = rec
	return nil
}

// Sink receives notifications. Publish runs on the reader's goroutine and
// must not call back into the Service.
type Sink interface {
	Publish(n Notification)
}

type SinkFunc func(n Notification)

func (f SinkFunc) Publish(n Notification) { f(n) }

type subscription struct {
	id    uint64
	sink  Sink
	kinds []nmea.Kind // empty means all
}

func (s subscription) wants(k nmea.Kind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, k)
}

// Bus fans notifications out to subscribed sinks, synchronously and in
// subscription order. The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   atomic.Pointer[[]subscription]
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers s for the given kinds, or for every kind when none
// are given. The returned func removes the subscription.
func (b *Bus) Subscribe(s Sink, kinds ...nmea.Kind) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID

	var cur []subscription
	if p := b.subs.Load(); p != nil {
		cur = *p
	}
	next := append(slices.Clone(cur), subscription{id: id, sink: s, kinds: slices.Clone(kinds)})
	b.subs.Store(&next)

	var once sync.Once
	return func() { once.Do(func() { b.unsubscribe(id) }) }
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.subs.Load()
	if p == nil {
		return
	}
	next := slices.DeleteFunc(slices.Clone(*p), func(s subscription) bool { return s.id == id })
	b.subs.Store(&next)
}

func (b *Bus) Publish(n Notification) {
	p := b.subs.Load()
	if p == nil {
		return
	}
	for _, s := range *p {
		if s.wants(n.Kind) {
			s.sink.Publish(n)
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	if p := b.subs.Load(); p != nil {
		return len(*p)
	}
	return 0
}

// OnFix adapts a callback for GPGGA and GNGGA records.
func OnFix(fn func(raw string, fix nmea.GGA)) Sink {
	return SinkFunc(func(n Notification) {
		if r, ok := n.Record.(nmea.GGA); ok {
			fn(n.Raw, r)
		}
	})
}

func OnDOP(fn func(raw string, dop nmea.GSA)) Sink {
	return SinkFunc(func(n Notification) {
		if r, ok := n.Record.(nmea.GSA); ok {
			fn(n.Raw, r)
		}
	})
}

func OnPosition(fn func(raw string, pos nmea.GLL)) Sink {
	return SinkFunc(func(n Notification) {
		if r, ok := n.Record.(nmea.GLL); ok {
			fn(n.Raw, r)
		}
	})
}

func OnSatellites(fn func(raw string, sats nmea.GSV)) Sink {
	return SinkFunc(func(n Notification) {
		if r, ok := n.Record.(nmea.GSV); ok {
			fn(n.Raw, r)
		}
	})
}

func OnRMC(fn func(raw string, rmc nmea.RMC)) Sink {
	return SinkFunc(func(n Notification) {
		if r, ok := n.Record.(nmea.RMC); ok {
			fn(n.Raw, r)
		}
	})
}

// OnSatelliteGroup adapts a callback for completed satellites-in-view groups.
func OnSatelliteGroup(fn func(group []nmea.GSV)) Sink {
	return SinkFunc(func(n Notification) {
		if n.Kind == nmea.KindGSVGroup {
			fn(n.Group)
		}
	})
}
