package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DatabaseMetrics records store query latency and the pool of the bun
// connection. Pool gauges only report once RegisterDB has been called.
type DatabaseMetrics struct {
	poolOpen      metric.Int64ObservableGauge
	poolIdle      metric.Int64ObservableGauge
	poolInUse     metric.Int64ObservableGauge
	poolMaxOpen   metric.Int64ObservableGauge
	poolWaits     metric.Int64ObservableCounter
	queryDuration metric.Float64Histogram
	queryErrors   metric.Int64Counter
}

func NewDatabaseMetrics(meter metric.Meter) (*DatabaseMetrics, error) {
	dm := &DatabaseMetrics{}

	gauges := []struct {
		target *metric.Int64ObservableGauge
		name   string
		desc   string
	}{
		{&dm.poolOpen, "db.connections.open", "Open connections in the pool"},
		{&dm.poolIdle, "db.connections.idle", "Idle connections in the pool"},
		{&dm.poolInUse, "db.connections.in_use", "Connections serving a query"},
		{&dm.poolMaxOpen, "db.connections.max_open", "Configured connection cap"},
	}
	for _, g := range gauges {
		gauge, err := meter.Int64ObservableGauge(g.name, metric.WithDescription(g.desc), metric.WithUnit("{connection}"))
		if err != nil {
			return nil, err
		}
		*g.target = gauge
	}

	var err error
	dm.poolWaits, err = meter.Int64ObservableCounter("db.connections.wait_count",
		metric.WithDescription("Times a query waited for a free connection"), metric.WithUnit("{wait}"))
	if err != nil {
		return nil, err
	}

	dm.queryDuration, err = meter.Float64Histogram("db.query.duration",
		metric.WithDescription("Store query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, err
	}

	dm.queryErrors, err = meter.Int64Counter("db.query.errors",
		metric.WithDescription("Failed store queries by error class"), metric.WithUnit("{error}"))
	if err != nil {
		return nil, err
	}

	return dm, nil
}

// RegisterDB exports the pool stats of db on every collection
func (dm *DatabaseMetrics) RegisterDB(db *sql.DB, meter metric.Meter) error {
	if dm == nil || db == nil || meter == nil || dm.poolOpen == nil {
		return nil
	}

	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(dm.poolOpen, int64(stats.OpenConnections))
		o.ObserveInt64(dm.poolIdle, int64(stats.Idle))
		o.ObserveInt64(dm.poolInUse, int64(stats.InUse))
		o.ObserveInt64(dm.poolMaxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(dm.poolWaits, stats.WaitCount)
		return nil
	}, dm.poolOpen, dm.poolIdle, dm.poolInUse, dm.poolMaxOpen, dm.poolWaits)
	return err
}

// RecordQuery records one store call. A select that found no row is not an error.
func (dm *DatabaseMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if dm == nil || dm.queryDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("table", table),
	}
	dm.queryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	class := errorClass(err)
	if class == "" || dm.queryErrors == nil {
		return
	}
	dm.queryErrors.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("error.type", class))...))
}

// errorClass keeps the error attribute low cardinality: the SQLSTATE for
// server errors, otherwise a coarse bucket.
func errorClass(err error) string {
	var pgErr pgdriver.Error
	switch {
	case err == nil, errors.Is(err, sql.ErrNoRows):
		return ""
	case errors.As(err, &pgErr):
		return pgErr.Field('C')
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "other"
	}
}
