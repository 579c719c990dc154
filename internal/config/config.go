// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Input sources.
const (
	SourceSerial = "serial"
	SourceFile   = "file"
	SourceTCP    = "tcp"
)

// Config holds all application configuration values. In a YAML file the
// keys are the lowercase form of the KEY=VALUE names.
type Config struct {
	// Input
	InputSource       string `yaml:"input_source"`
	GPSSerialPort     string `yaml:"gps_serial_port"`
	GPSBaudRate       int    `yaml:"gps_baud_rate"`
	ReplayFile        string `yaml:"replay_file"`
	ReplayInterval    int    `yaml:"replay_interval"` // milliseconds
	TCPAddr           string `yaml:"tcp_addr"`
	CarryPartialLines bool   `yaml:"carry_partial_lines"`

	// MQTT (empty broker disables publishing)
	MQTTBroker          string `yaml:"mqtt_broker"`
	MQTTClientIDReader  string `yaml:"mqtt_client_id_reader"`
	MQTTClientIDConsole string `yaml:"mqtt_client_id_console"`
	MQTTClientIDWeb     string `yaml:"mqtt_client_id_web"`
	TopicPrefix         string `yaml:"topic_prefix"`

	// NATS (empty URL disables publishing)
	NATSURL           string `yaml:"nats_url"`
	NATSClientName    string `yaml:"nats_client_name"`
	NATSSubjectPrefix string `yaml:"nats_subject_prefix"`

	// Web Server (0 disables it)
	WebServerPort int `yaml:"web_server_port"`

	LogLevel string `yaml:"log_level"`
}

var (
	globalConfig *Config
	initErr      error
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		InputSource:         SourceSerial,
		GPSBaudRate:         115200,
		ReplayInterval:      1000,
		CarryPartialLines:   true,
		MQTTClientIDReader:  "gps-reader",
		MQTTClientIDConsole: "gps-console",
		MQTTClientIDWeb:     "gps-web",
		TopicPrefix:         "gps/nmea",
		NATSClientName:      "gps-reader",
		NATSSubjectPrefix:   "gps.nmea",
		LogLevel:            "info",
	}
}

// Load reads the configuration file and returns a Config struct. Files
// ending in .yaml or .yml are YAML; anything else is KEY=VALUE lines.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = cfg.parseYAML(data)
	default:
		err = cfg.parseKeyValue(data)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseKeyValue(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}
		if err := c.setValue(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func (c *Config) parseYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid yaml config: %w", err)
	}
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Input
	case "INPUT_SOURCE":
		c.InputSource = strings.ToLower(value)
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = baud
	case "REPLAY_FILE":
		c.ReplayFile = value
	case "REPLAY_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid REPLAY_INTERVAL %q: %w", value, err)
		}
		c.ReplayInterval = interval
	case "TCP_ADDR":
		c.TCPAddr = value
	case "CARRY_PARTIAL_LINES":
		carry, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid CARRY_PARTIAL_LINES %q: %w", value, err)
		}
		c.CarryPartialLines = carry

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_READER":
		c.MQTTClientIDReader = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "TOPIC_PREFIX":
		c.TopicPrefix = strings.TrimSuffix(value, "/")

	// NATS
	case "NATS_URL":
		c.NATSURL = value
	case "NATS_CLIENT_NAME":
		c.NATSClientName = value
	case "NATS_SUBJECT_PREFIX":
		c.NATSSubjectPrefix = strings.TrimSuffix(value, ".")

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that the selected input is fully described and that
// numeric values are in range.
func (c *Config) validate() error {
	switch c.InputSource {
	case SourceSerial:
		if c.GPSSerialPort == "" {
			return fmt.Errorf("GPS_SERIAL_PORT is required for INPUT_SOURCE=serial")
		}
		if c.GPSBaudRate <= 0 {
			return fmt.Errorf("GPS_BAUD_RATE must be positive, got %d", c.GPSBaudRate)
		}
	case SourceFile:
		if c.ReplayFile == "" {
			return fmt.Errorf("REPLAY_FILE is required for INPUT_SOURCE=file")
		}
	case SourceTCP:
		if c.TCPAddr == "" {
			return fmt.Errorf("TCP_ADDR is required for INPUT_SOURCE=tcp")
		}
	default:
		return fmt.Errorf("INPUT_SOURCE must be serial, file or tcp, got %q", c.InputSource)
	}
	if c.ReplayInterval < 0 {
		return fmt.Errorf("REPLAY_INTERVAL must not be negative, got %d", c.ReplayInterval)
	}
	if c.WebServerPort < 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 0-65535, got %d", c.WebServerPort)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return that call's error.
func InitGlobal(configPath string) error {
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, initErr = Load(configPath)
	})
	return initErr
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
