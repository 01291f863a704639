// Package hwerr distinguishes hardware faults (I2C bus, GPIO line) from
// everything else that can go wrong in a poll cycle. Both are fatal; the
// error log records which kind it saw.
package hwerr

import (
	"errors"
	"fmt"
)

// ErrHardware is the sentinel wrapped by adc and relay failures.
var ErrHardware = errors.New("hardware error")

// Wrap marks err as a hardware fault, preserving the original cause.
func Wrap(err error) error {
	return fmt.Errorf("%w: %w", ErrHardware, err)
}

// Kind returns the error-log kind for err.
func Kind(err error) string {
	if errors.Is(err, ErrHardware) {
		return "HardwareError"
	}
	return "UnexpectedError"
}
