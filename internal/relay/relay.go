// Package relay drives the water pump relay on a GPIO output line.
// The relay board is a low-level-trigger module: driving the line to
// physical 0 energizes the relay (pump ON), physical 1 releases it.
// The real implementation uses the Linux GPIO character device.
package relay

// Controller drives the pump relay.
type Controller interface {
	// Set drives the relay to the given logical state. The active-low
	// inversion is handled here; callers only think in terms of the pump
	// being on or off.
	Set(on bool) error

	// Close best-effort forces the relay off and releases the line.
	// Safe to call even if the line was never successfully driven.
	Close() error
}

// DefaultPin is the BCM pin number the relay control input is wired to.
const DefaultPin = 4
