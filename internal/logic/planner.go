package logic

import "time"

// plannerState is the watering state machine phase.
type plannerState int

const (
	plannerIdle plannerState = iota
	plannerPumping
	plannerSoaking
)

// Planner decides when to run the water pump. It cycles
// idle -> pumping (for pumpOn) -> soaking (for soak) -> idle, starting
// a cycle only when the soil is classified dry while idle.
//
// A disabled Planner never acts: dryness is observed and counted but the
// pump stays off, which is the original monitoring-only behavior.
type Planner struct {
	enabled bool
	pumpOn  time.Duration
	soak    time.Duration

	state  plannerState
	since  time.Time
	counts WaterCounts
}

// NewPlanner creates a watering planner. pumpOn is how long the pump runs
// per cycle; soak is how long to wait after watering before the next cycle
// may start.
func NewPlanner(enabled bool, pumpOn, soak time.Duration) *Planner {
	return &Planner{enabled: enabled, pumpOn: pumpOn, soak: soak}
}

// Next consumes one classified sample and returns the pump action for
// this tick.
func (p *Planner) Next(m Moisture, now time.Time) Action {
	if m == MoistureDry {
		p.counts.DryTicks++
	} else {
		p.counts.WetTicks++
	}

	if !p.enabled {
		return ActionNone
	}

	switch p.state {
	case plannerIdle:
		if m == MoistureDry {
			p.state = plannerPumping
			p.since = now
			return ActionPumpOn
		}

	case plannerPumping:
		if now.Sub(p.since) >= p.pumpOn {
			p.state = plannerSoaking
			p.since = now
			p.counts.Waterings++
			return ActionPumpOff
		}

	case plannerSoaking:
		if now.Sub(p.since) >= p.soak {
			p.state = plannerIdle
		}
	}

	return ActionNone
}

// Pumping reports whether the pump is currently commanded on.
func (p *Planner) Pumping() bool {
	return p.state == plannerPumping
}

// Counts returns a snapshot of watering activity since startup.
func (p *Planner) Counts() WaterCounts {
	return p.counts
}
