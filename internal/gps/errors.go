// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "errors"

var (
	// ErrStart wraps the transport's open failure.
	ErrStart          = errors.New("gps: start failed")
	ErrAlreadyRunning = errors.New("gps: reader already running")
)
