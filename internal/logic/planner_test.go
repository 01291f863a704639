package logic

import (
	"testing"
	"time"
)

var plannerStart = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func TestPlannerDisabledNeverActs(t *testing.T) {
	p := NewPlanner(false, 3*time.Second, 5*time.Minute)

	for i := 0; i < 10; i++ {
		now := plannerStart.Add(time.Duration(i) * time.Second)
		if got := p.Next(MoistureDry, now); got != ActionNone {
			t.Fatalf("tick %d: disabled planner returned %s, want NONE", i, got)
		}
	}
	if p.Pumping() {
		t.Error("disabled planner should never report pumping")
	}
	if c := p.Counts(); c.DryTicks != 10 || c.Waterings != 0 {
		t.Errorf("counts = %+v, want 10 dry ticks and 0 waterings", c)
	}
}

func TestPlannerFullCycle(t *testing.T) {
	p := NewPlanner(true, 3*time.Second, 5*time.Minute)

	// Idle and dry: pump comes on.
	if got := p.Next(MoistureDry, plannerStart); got != ActionPumpOn {
		t.Fatalf("idle+dry: got %s, want PUMP_ON", got)
	}
	if !p.Pumping() {
		t.Error("should report pumping after PUMP_ON")
	}

	// Still within pump-on window: nothing.
	if got := p.Next(MoistureDry, plannerStart.Add(2*time.Second)); got != ActionNone {
		t.Fatalf("at +2s: got %s, want NONE", got)
	}

	// Pump-on window elapsed: pump off, soak begins.
	if got := p.Next(MoistureDry, plannerStart.Add(3*time.Second)); got != ActionPumpOff {
		t.Fatalf("at +3s: got %s, want PUMP_OFF", got)
	}
	if p.Pumping() {
		t.Error("should not report pumping after PUMP_OFF")
	}
	if c := p.Counts(); c.Waterings != 1 {
		t.Errorf("waterings = %d, want 1", c.Waterings)
	}

	// Dry during soak: no new cycle.
	if got := p.Next(MoistureDry, plannerStart.Add(time.Minute)); got != ActionNone {
		t.Fatalf("during soak: got %s, want NONE", got)
	}

	// Soak elapsed, still dry: the tick that expires the soak returns to
	// idle; the following dry tick starts a new cycle.
	soakDone := plannerStart.Add(3*time.Second + 5*time.Minute)
	if got := p.Next(MoistureDry, soakDone); got != ActionNone {
		t.Fatalf("soak expiry tick: got %s, want NONE", got)
	}
	if got := p.Next(MoistureDry, soakDone.Add(time.Second)); got != ActionPumpOn {
		t.Fatalf("after soak: got %s, want PUMP_ON", got)
	}
}

func TestPlannerWetSoilNeverPumps(t *testing.T) {
	p := NewPlanner(true, 3*time.Second, 5*time.Minute)

	for i := 0; i < 100; i++ {
		now := plannerStart.Add(time.Duration(i) * time.Second)
		if got := p.Next(MoistureWet, now); got != ActionNone {
			t.Fatalf("tick %d: wet soil returned %s, want NONE", i, got)
		}
	}
	if c := p.Counts(); c.WetTicks != 100 || c.Waterings != 0 {
		t.Errorf("counts = %+v, want 100 wet ticks and 0 waterings", c)
	}
}

func TestPlannerSoilTurnsWetDuringPumping(t *testing.T) {
	p := NewPlanner(true, 3*time.Second, 5*time.Minute)

	p.Next(MoistureDry, plannerStart)

	// Soil reads wet while pumping: the pump still runs its fixed window.
	if got := p.Next(MoistureWet, plannerStart.Add(time.Second)); got != ActionNone {
		t.Fatalf("wet during pumping: got %s, want NONE", got)
	}
	if got := p.Next(MoistureWet, plannerStart.Add(3*time.Second)); got != ActionPumpOff {
		t.Fatalf("pump window elapsed: got %s, want PUMP_OFF", got)
	}
}
