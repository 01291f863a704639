package influx

import (
	"context"

	"github.com/sweeney/soil-waterer/internal/logic"
)

// FakeWriter records exported readings for test assertions.
type FakeWriter struct {
	// Readings contains every sample passed to WriteReading.
	Readings []logic.Sample

	// Moistures contains the classification written with each sample.
	Moistures []logic.Moisture

	// WriteError, if set, will be returned by WriteReading.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWriter creates a FakeWriter for testing.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// WriteReading records the sample.
func (f *FakeWriter) WriteReading(ctx context.Context, s logic.Sample, m logic.Moisture) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Readings = append(f.Readings, s)
	f.Moistures = append(f.Moistures, m)
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() {
	f.Closed = true
}
