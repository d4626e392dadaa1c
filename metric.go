package jsonbourne

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/rbaliyan/jsonbourne"

// Metrics records Lib activity per backend.
type Metrics interface {
	Encoded(backend string)
	Decoded(backend string)
	Failed(backend, op string)
	Switched(from, to string)
}

var (
	_ Metrics = &metrics{}
	_ Metrics = dummyMetrics{}
)

type dummyMetrics struct{}

type metrics struct {
	encoded  metric.Int64Counter
	decoded  metric.Int64Counter
	failed   metric.Int64Counter
	switched metric.Int64Counter
}

// NewMetrics creates OpenTelemetry counters on the given provider.
// A nil provider uses the global one.
func NewMetrics(mp metric.MeterProvider) (Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	m := &metrics{}
	var err error
	if m.encoded, err = meter.Int64Counter("jsonbourne.encode.count",
		metric.WithDescription("Total values encoded")); err != nil {
		return nil, err
	}
	if m.decoded, err = meter.Int64Counter("jsonbourne.decode.count",
		metric.WithDescription("Total documents decoded")); err != nil {
		return nil, err
	}
	if m.failed, err = meter.Int64Counter("jsonbourne.errors.count",
		metric.WithDescription("Total failed encode and decode calls")); err != nil {
		return nil, err
	}
	if m.switched, err = meter.Int64Counter("jsonbourne.backend.switches",
		metric.WithDescription("Total explicit backend switches")); err != nil {
		return nil, err
	}
	return m, nil
}

// Encoded a value was encoded
func (m *metrics) Encoded(backend string) {
	m.encoded.Add(context.Background(), 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// Decoded a document was decoded
func (m *metrics) Decoded(backend string) {
	m.decoded.Add(context.Background(), 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// Failed an encode or decode call failed
func (m *metrics) Failed(backend, op string) {
	m.failed.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("op", op)))
}

// Switched the selected backend changed
func (m *metrics) Switched(from, to string) {
	m.switched.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to)))
}

func (dummyMetrics) Encoded(string) {}

func (dummyMetrics) Decoded(string) {}

func (dummyMetrics) Failed(string, string) {}

func (dummyMetrics) Switched(string, string) {}
