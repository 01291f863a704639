//go:build linux

package adc

import (
	"encoding/binary"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sweeney/soil-waterer/internal/hwerr"
)

// ADS1115 registers.
const (
	regConversion = 0x00
	regConfig     = 0x01
)

// Config register fields for a single-shot, single-ended read.
const (
	configOSSingle       uint16 = 0x8000 // start one conversion / conversion done
	configGainOne        uint16 = 0x0200 // +/- 4.096V full scale
	configModeSingle     uint16 = 0x0100
	configDataRate128    uint16 = 0x0080 // 128 SPS
	configComparatorOff  uint16 = 0x0003
	configMuxSingleBase  uint16 = 0x4000 // AIN0 vs GND; +0x1000 per channel
	fullScaleVolts              = 4.096
	convTimeout                 = 50 * time.Millisecond
	convPollWait                = time.Millisecond
)

// RealReader reads an ADS1115 over the I2C bus on actual hardware.
type RealReader struct {
	bus i2c.BusCloser
	dev i2c.Dev
	mux uint16
}

// NewRealReader opens the default I2C bus and prepares a reader for the
// given ADS1115 address and single-ended channel (0-3).
func NewRealReader(addr uint16, channel int) (*RealReader, error) {
	if channel < 0 || channel > 3 {
		return nil, fmt.Errorf("adc channel %d out of range 0-3", channel)
	}

	if _, err := host.Init(); err != nil {
		return nil, hwerr.Wrap(fmt.Errorf("init periph host: %w", err))
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, hwerr.Wrap(fmt.Errorf("open i2c bus: %w", err))
	}

	return &RealReader{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: addr},
		mux: configMuxSingleBase + uint16(channel)<<12,
	}, nil
}

// Read starts a single-shot conversion, waits for it to complete, and
// returns the signed 16-bit count plus the voltage at the configured gain.
func (r *RealReader) Read() (int, float64, error) {
	cfg := configOSSingle | r.mux | configGainOne | configModeSingle |
		configDataRate128 | configComparatorOff

	if err := r.dev.Tx([]byte{regConfig, byte(cfg >> 8), byte(cfg)}, nil); err != nil {
		return 0, 0, hwerr.Wrap(fmt.Errorf("start conversion: %w", err))
	}

	// Poll the OS bit until the conversion completes.
	deadline := time.Now().Add(convTimeout)
	buf := make([]byte, 2)
	for {
		if err := r.dev.Tx([]byte{regConfig}, buf); err != nil {
			return 0, 0, hwerr.Wrap(fmt.Errorf("poll conversion: %w", err))
		}
		if binary.BigEndian.Uint16(buf)&configOSSingle != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, 0, hwerr.Wrap(fmt.Errorf("conversion timeout after %v", convTimeout))
		}
		time.Sleep(convPollWait)
	}

	if err := r.dev.Tx([]byte{regConversion}, buf); err != nil {
		return 0, 0, hwerr.Wrap(fmt.Errorf("read conversion: %w", err))
	}

	raw := int(int16(binary.BigEndian.Uint16(buf)))
	voltage := float64(raw) * fullScaleVolts / 32767
	return raw, voltage, nil
}

// Close releases the I2C bus.
func (r *RealReader) Close() error {
	if r.bus == nil {
		return nil
	}
	if err := r.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	return nil
}
