package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Moisture      string       `json:"moisture"`
	Pump          string       `json:"pump"`
	LastReading   *ReadingJSON `json:"last_reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"water_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the last sample.
type ReadingJSON struct {
	Raw       int     `json:"raw"`
	Voltage   float64 `json:"voltage"`
	Timestamp string  `json:"timestamp"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of watering counts.
type CountsJSON struct {
	Waterings int `json:"waterings"`
	DryTicks  int `json:"dry_ticks"`
	WetTicks  int `json:"wet_ticks"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs        int64  `json:"poll_ms"`
	LogIntervalMs int64  `json:"log_interval_ms"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	DryThreshold  int    `json:"dry_threshold"`
	Watering      bool   `json:"watering"`
	PumpOnMs      int64  `json:"pump_on_ms"`
	SoakMs        int64  `json:"soak_ms"`
	Broker        string `json:"broker"`
	HTTPAddr      string `json:"http_addr"`
	BaseDir       string `json:"base_dir"`
	WSBroker      string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	moisture := string(snap.Moisture)
	if moisture == "" {
		moisture = "UNKNOWN"
	}
	pump := string(snap.Pump)
	if pump == "" {
		pump = "OFF"
	}

	inner := StatusInner{
		Moisture:      moisture,
		Pump:          pump,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Waterings: snap.Counts.Waterings,
			DryTicks:  snap.Counts.DryTicks,
			WetTicks:  snap.Counts.WetTicks,
		},
		Config: ConfigJSON{
			PollMs:        snap.Config.PollMs,
			LogIntervalMs: snap.Config.LogIntervalMs,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			DryThreshold:  snap.Config.DryThreshold,
			Watering:      snap.Config.Watering,
			PumpOnMs:      snap.Config.PumpOnMs,
			SoakMs:        snap.Config.SoakMs,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
			BaseDir:       snap.Config.BaseDir,
			WSBroker:      snap.Config.WSBroker,
		},
	}

	if snap.HasReading {
		inner.LastReading = &ReadingJSON{
			Raw:       snap.LastRaw,
			Voltage:   snap.LastVoltage,
			Timestamp: snap.LastReadTime.UTC().Format(time.RFC3339),
		}
	}

	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
