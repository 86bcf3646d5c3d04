package metrics

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	bm, err := NewBusinessMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordUserRegistered(ctx, "STUDENT")
	bm.RecordUserRegistered(ctx, "COMPANY")
	bm.RecordLogin(ctx, true)
	bm.RecordTaskCreated(ctx, "CODING")
	bm.RecordApplicationSubmitted(ctx)
	bm.RecordApplicationStatusChanged(ctx, "ACCEPTED")
	bm.RecordReviewCreated(ctx)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["apt.users.registered"]))
	assert.Equal(t, int64(1), sumOf(t, got["apt.logins"]))
	assert.Equal(t, int64(1), sumOf(t, got["apt.tasks.created"]))
	assert.Equal(t, int64(1), sumOf(t, got["apt.applications.submitted"]))
	assert.Equal(t, int64(1), sumOf(t, got["apt.applications.status_changed"]))
	assert.Equal(t, int64(1), sumOf(t, got["apt.reviews.created"]))
}

func TestDatabaseMetrics_RecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	dm, err := NewDatabaseMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	dm.RecordQuery(ctx, "select", "tasks", 3*time.Millisecond, nil)
	dm.RecordQuery(ctx, "insert", "tasks", 5*time.Millisecond, errors.New("boom"))
	dm.RecordQuery(ctx, "select", "users", time.Millisecond, sql.ErrNoRows)

	got := collect(t, reader)
	hist, ok := got["db.query.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, int64(1), sumOf(t, got["db.query.errors"]))
}

func TestMock_IgnoresRecords(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.Database.RecordQuery(ctx, "select", "users", time.Millisecond, errors.New("x"))
		m.Events.RecordPublish(ctx, "nats", "task.created", time.Millisecond, nil)
		m.Health.RecordDependencyCheck(ctx, "postgres", time.Millisecond, nil)
		m.Business.RecordReviewCreated(ctx)
		assert.NoError(t, m.Database.RegisterDB(nil, m.Meter()))
	})

	var nilMetrics *Metrics
	assert.Nil(t, nilMetrics.Meter())
}
