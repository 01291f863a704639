package logic

import (
	"fmt"
	"time"
)

// Classify maps a raw ADC count to a moisture state against the dryness
// threshold. A value exactly at the threshold is wet; only values above
// it are dry.
func Classify(raw, threshold int) Moisture {
	if raw > threshold {
		return MoistureDry
	}
	return MoistureWet
}

// ReadingMessage renders the log line message for a classified sample.
func ReadingMessage(m Moisture, raw int) string {
	if m == MoistureDry {
		return fmt.Sprintf("soil is dry (raw=%d)", raw)
	}
	return fmt.Sprintf("soil is wet (raw=%d)", raw)
}

// Gate rate-limits reading log writes to at most one per interval,
// independent of the loop's polling rate. An interval <= 0 means every
// call fires.
type Gate struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

// NewGate creates a Gate with the given minimum interval between log writes.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// ShouldLog reports whether a reading should be logged at the given time,
// and if so records it as the last logged time. The first call always fires.
func (g *Gate) ShouldLog(now time.Time) bool {
	if g.fired && g.interval > 0 && now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	g.fired = true
	return true
}
