package adc

import "errors"

// Sample is a single scripted ADC reading.
type Sample struct {
	Raw     int
	Voltage float64
}

// FakeReader is a test double that returns scripted readings.
type FakeReader struct {
	// Samples contains scripted readings. Each call to Read() consumes
	// the next sample; when exhausted the last sample repeats.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (int, float64, error) {
	if f.ReadError != nil {
		return 0, 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Raw, sample.Voltage, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}
