// Package status provides a thread-safe status tracker for the
// soil-waterer daemon. It is read by HTTP handlers and rendered into
// MQTT lifecycle payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/soil-waterer/internal/logic"
)

// NetworkInfo contains network state as published by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs        int64
	LogIntervalMs int64
	HeartbeatMs   int64
	DryThreshold  int
	Watering      bool
	PumpOnMs      int64
	SoakMs        int64
	Broker        string
	HTTPAddr      string
	BaseDir       string
	WSBroker      string // Websocket broker URL for browser MQTT (empty = disabled)
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Moisture      logic.Moisture
	Pump          logic.PumpState
	LastRaw       int
	LastVoltage   float64
	LastReadTime  time.Time
	HasReading    bool
	Counts        logic.WaterCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Pump:      logic.PumpOff,
			Config:    cfg,
		},
	}
}

// Update records the latest classified sample and pump state.
// Called from runLoop on every tick.
func (t *Tracker) Update(s logic.Sample, m logic.Moisture, pump logic.PumpState, counts logic.WaterCounts) {
	t.mu.Lock()
	t.snap.LastRaw = s.Raw
	t.snap.LastVoltage = s.Voltage
	t.snap.LastReadTime = s.Time
	t.snap.HasReading = true
	t.snap.Moisture = m
	t.snap.Pump = pump
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
