// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/relabs-tech/gps_reader/internal/config"
	"github.com/relabs-tech/gps_reader/internal/gps"
	"github.com/relabs-tech/gps_reader/internal/publish"
)

// RunConsoleMQTT prints the notifications a reader publishes to MQTT.
func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("config not loaded")
	}
	if cfg.MQTTBroker == "" {
		return errors.New("MQTT_BROKER is required for the MQTT console")
	}

	// Unique suffix so several consoles can watch the same broker.
	clientID := cfg.MQTTClientIDConsole + "-" + uuid.NewString()[:8]
	client, err := publish.ConnectMQTT(cfg.MQTTBroker, clientID)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	topic := cfg.TopicPrefix + "/#"
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		printPayload(os.Stdout, msg.Topic(), msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", topic)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func printPayload(out io.Writer, topic string, payload []byte) {
	var n gps.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		log.Printf("console: %s unmarshal error: %v", topic, err)
		return
	}
	fmt.Fprintln(out, formatNotification(n))
}
