package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StoreMetrics instruments the content store. A nil *StoreMetrics records
// nothing.
type StoreMetrics struct {
	mutations       metric.Int64Counter
	persistDuration metric.Float64Histogram
	persistFailures metric.Int64Counter
}

// NewStoreMetrics registers the content store instruments on the global meter.
func NewStoreMetrics() (*StoreMetrics, error) {
	meter := otel.Meter(instrumentationName)

	mutations, err := meter.Int64Counter(
		"campusqa.store.mutations",
		metric.WithDescription("Applied content store mutations"),
	)
	if err != nil {
		return nil, err
	}

	persistDuration, err := meter.Float64Histogram(
		"campusqa.store.persist.duration",
		metric.WithDescription("Time spent writing a collection to the backend"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	persistFailures, err := meter.Int64Counter(
		"campusqa.store.persist.failures",
		metric.WithDescription("Collection writes that failed and were dropped"),
	)
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{
		mutations:       mutations,
		persistDuration: persistDuration,
		persistFailures: persistFailures,
	}, nil
}

// RecordMutation counts one applied mutation.
func (m *StoreMetrics) RecordMutation(ctx context.Context, op string) {
	if m == nil {
		return
	}

	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordPersist records a save of the given collections.
func (m *StoreMetrics) RecordPersist(ctx context.Context, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	m.persistDuration.Record(ctx, elapsed.Seconds())

	if err != nil {
		m.persistFailures.Add(ctx, 1)
	}
}
