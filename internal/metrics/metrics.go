package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Runtime  *RuntimeMetrics
	Database *DatabaseMetrics
	Events   *EventMetrics
	Health   *HealthMetrics
	Business *BusinessMetrics

	meter metric.Meter
}

func New(ctx context.Context, serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	runtime, err := NewRuntimeMetrics(ctx, meter)
	if err != nil {
		return nil, err
	}

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	events, err := NewEventMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	business, err := NewBusinessMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized")

	return &Metrics{
		Runtime:  runtime,
		Database: database,
		Events:   events,
		Health:   health,
		Business: business,
		meter:    meter,
	}, nil
}

// Meter is nil for mocks
func (m *Metrics) Meter() metric.Meter {
	if m == nil {
		return nil
	}
	return m.meter
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Runtime:  &RuntimeMetrics{},
		Database: &DatabaseMetrics{},
		Events:   &EventMetrics{},
		Health:   &HealthMetrics{status: map[string]bool{}},
		Business: &BusinessMetrics{},
	}
}
