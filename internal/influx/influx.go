// Package influx exports soil readings to InfluxDB. The export is an
// additive telemetry surface: write failures are reported to the caller
// but must never terminate the poll loop.
package influx

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/sweeney/soil-waterer/internal/logic"
)

// Writer exports one classified soil sample per call.
type Writer interface {
	WriteReading(ctx context.Context, s logic.Sample, m logic.Moisture) error
	Close()
}

// measurement is the InfluxDB measurement name for soil readings.
const measurement = "soil_moisture"

// RealWriter writes readings to an InfluxDB 2.x instance.
type RealWriter struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	sensor   string
}

// NewRealWriter connects to InfluxDB and verifies the server is healthy.
func NewRealWriter(url, token, org, bucket, sensor string) (*RealWriter, error) {
	client := influxdb2.NewClient(url, token)

	health, err := client.Health(context.Background())
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influx health check: %w", err)
	}
	if health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("influx unhealthy: %s", health.Status)
	}

	return &RealWriter{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		sensor:   sensor,
	}, nil
}

// WriteReading writes one point with the raw count, voltage, and dryness.
func (w *RealWriter) WriteReading(ctx context.Context, s logic.Sample, m logic.Moisture) error {
	point := influxdb2.NewPoint(
		measurement,
		map[string]string{"sensor": w.sensor},
		map[string]interface{}{
			"raw":     s.Raw,
			"voltage": s.Voltage,
			"dry":     m == logic.MoistureDry,
		},
		s.Time,
	)

	if err := w.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("write point: %w", err)
	}
	return nil
}

// Close releases the underlying HTTP client.
func (w *RealWriter) Close() {
	w.client.Close()
}
