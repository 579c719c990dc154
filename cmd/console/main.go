// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gps_reader/internal/app"
	"github.com/relabs-tech/gps_reader/internal/config"
)

func main() {
	configPath := flag.String("config", "gps_config.txt", "Path to configuration file")
	flag.Parse()

	log.Println("starting gps console (local decode)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
