// Package mqtt publishes soil readings and lifecycle events, with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/soil-waterer/internal/logic"
)

// Topic is the MQTT topic for soil readings.
const Topic = "garden/soil/sensor/readings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "garden/soil/sensor/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a soil reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event ReadingEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ReadingEvent is a classified soil sample to be published.
type ReadingEvent struct {
	Timestamp time.Time
	Moisture  logic.Moisture
	Raw       int
	Voltage   float64
	Pump      logic.PumpState
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Soil SoilPayload `json:"soil"`
}

// SoilPayload contains the reading details.
type SoilPayload struct {
	Timestamp string  `json:"timestamp"`
	Moisture  string  `json:"moisture"`
	Raw       int     `json:"raw"`
	Voltage   float64 `json:"voltage"`
	Pump      string  `json:"pump"`
}

// FormatPayload creates the JSON payload for a soil reading.
func FormatPayload(event ReadingEvent) ([]byte, error) {
	payload := Payload{
		Soil: SoilPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Moisture:  string(event.Moisture),
			Raw:       event.Raw,
			Voltage:   event.Voltage,
			Pump:      string(event.Pump),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
