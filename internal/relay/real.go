//go:build linux

package relay

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/soil-waterer/internal/hwerr"
)

// Physical line values for the low-level-trigger relay board.
const (
	physicalOn  = 0 // line low energizes the relay
	physicalOff = 1
)

// RealController drives the relay line on actual hardware using the
// Linux GPIO character device.
type RealController struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealController requests the relay line as an output, forced to the
// OFF level. The line must never float or come up ON at startup.
func NewRealController(pin int) (*RealController, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, hwerr.Wrap(fmt.Errorf("open gpio chip: %w", err))
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(physicalOff), gpiocdev.WithConsumer("soil-waterer"))
	if err != nil {
		chip.Close()
		return nil, hwerr.Wrap(fmt.Errorf("request relay pin %d: %w", pin, err))
	}

	return &RealController{chip: chip, line: line}, nil
}

// Set drives the relay. Logical ON writes the physical low level.
func (c *RealController) Set(on bool) error {
	v := physicalOff
	if on {
		v = physicalOn
	}
	if err := c.line.SetValue(v); err != nil {
		return hwerr.Wrap(fmt.Errorf("set relay pin: %w", err))
	}
	return nil
}

// Close forces the relay off and releases the line. The off write is
// best-effort: a failure there still releases the line, and all errors
// are reported together.
func (c *RealController) Close() error {
	var errs []error

	if c.line != nil {
		if err := c.line.SetValue(physicalOff); err != nil {
			errs = append(errs, fmt.Errorf("force relay off: %w", err))
		}
		if err := c.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay line: %w", err))
		}
	}
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
