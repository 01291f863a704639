// Package adc reads the soil moisture probe through an ADS1115
// analog-to-digital converter on the I2C bus.
// The real implementation uses periph.io; the fake allows testing
// without hardware.
package adc

// Reader reads the soil probe.
type Reader interface {
	// Read performs one conversion and returns the raw ADC count and the
	// derived voltage. A failed bus transaction surfaces as a hardware
	// error; there are no retries at this layer.
	Read() (raw int, voltage float64, err error)

	// Close releases the I2C bus.
	Close() error
}

// Defaults for the ADS1115 wiring.
const (
	DefaultAddr    = 0x48 // ADDR pin to GND
	DefaultChannel = 0    // probe on AIN0
)
