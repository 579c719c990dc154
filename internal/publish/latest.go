// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package publish

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/nmea"
)

// Latest keeps the most recent notification of each kind.
type Latest struct {
	mu     sync.RWMutex
	byKind map[nmea.Kind]gps.Notification
}

func NewLatest() *Latest {
	return &Latest{byKind: make(map[nmea.Kind]gps.Notification)}
}

func (l *Latest) Publish(n gps.Notification) {
	l.mu.Lock()
	l.byKind[n.Kind] = n
	l.mu.Unlock()
}

func (l *Latest) Get(k nmea.Kind) (gps.Notification, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n, ok := l.byKind[k]
	return n, ok
}

// ServeHTTP answers with every kind seen so far, or with one kind when the
// "kind" query parameter is set. It returns 503 until data has arrived.
func (l *Latest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body any
	if k := r.URL.Query().Get("kind"); k != "" {
		n, ok := l.Get(nmea.Kind(k))
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		body = n
	} else {
		l.mu.RLock()
		all := make(map[nmea.Kind]gps.Notification, len(l.byKind))
		for k, n := range l.byKind {
			all[k] = n
		}
		l.mu.RUnlock()
		if len(all) == 0 {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		body = all
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("json encode error", "error", err)
	}
}
