// Package logic contains pure decision logic for soil moisture monitoring.
// This package has NO external dependencies (no I2C, GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Moisture represents the classified state of the soil.
type Moisture string

const (
	MoistureDry Moisture = "DRY"
	MoistureWet Moisture = "WET"
)

// PumpState represents the logical state of the water pump relay.
type PumpState string

const (
	PumpOn  PumpState = "ON"
	PumpOff PumpState = "OFF"
)

// Sample is a single soil sensor reading.
type Sample struct {
	Raw     int
	Voltage float64
	Time    time.Time
}

// Action tells the loop what to do with the pump relay this tick.
type Action int

const (
	ActionNone Action = iota
	ActionPumpOn
	ActionPumpOff
)

// String returns the action name for log messages.
func (a Action) String() string {
	switch a {
	case ActionPumpOn:
		return "PUMP_ON"
	case ActionPumpOff:
		return "PUMP_OFF"
	}
	return "NONE"
}

// WaterCounts tracks watering activity since startup.
type WaterCounts struct {
	Waterings int // completed pump cycles
	DryTicks  int // samples classified dry
	WetTicks  int // samples classified wet
}
