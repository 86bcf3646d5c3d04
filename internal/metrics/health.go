package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HealthMetrics mirrors the /ready probes: one up/down gauge per dependency
// plus the probe latency.
type HealthMetrics struct {
	up          metric.Int64ObservableGauge
	probeTime   metric.Float64Histogram
	serviceInfo metric.Int64ObservableGauge

	mu     sync.RWMutex
	status map[string]bool
}

func NewHealthMetrics(meter metric.Meter) (*HealthMetrics, error) {
	hm := &HealthMetrics{status: make(map[string]bool)}

	var err error
	hm.up, err = meter.Int64ObservableGauge("dependency.up",
		metric.WithDescription("1 when the last readiness probe of the dependency passed"),
		metric.WithUnit("{status}"))
	if err != nil {
		return nil, err
	}

	hm.probeTime, err = meter.Float64Histogram("dependency.response_time",
		metric.WithDescription("Readiness probe duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2))
	if err != nil {
		return nil, err
	}

	// always 1; the attributes carry the build
	hm.serviceInfo, err = meter.Int64ObservableGauge("service.info",
		metric.WithDescription("API build information"),
		metric.WithUnit("{info}"))
	if err != nil {
		return nil, err
	}

	return hm, nil
}

func (hm *HealthMetrics) RegisterServiceInfo(meter metric.Meter, serviceName, version, env string) error {
	if hm == nil || meter == nil || hm.serviceInfo == nil {
		return nil
	}
	attrs := metric.WithAttributes(
		attribute.String("service_name", serviceName),
		attribute.String("version", version),
		attribute.String("environment", env),
	)
	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(hm.serviceInfo, 1, attrs)
		return nil
	}, hm.serviceInfo)
	return err
}

// RegisterDependencies starts reporting the named dependencies as down
// until their first successful probe.
func (hm *HealthMetrics) RegisterDependencies(meter metric.Meter, names []string) error {
	if hm == nil {
		return nil
	}

	hm.mu.Lock()
	for _, name := range names {
		hm.status[name] = false
	}
	hm.mu.Unlock()

	if meter == nil || hm.up == nil {
		return nil
	}

	_, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		hm.mu.RLock()
		defer hm.mu.RUnlock()

		for name, ok := range hm.status {
			var v int64
			if ok {
				v = 1
			}
			o.ObserveInt64(hm.up, v, metric.WithAttributes(attribute.String("dependency", name)))
		}
		return nil
	}, hm.up)
	return err
}

func (hm *HealthMetrics) RecordDependencyCheck(ctx context.Context, name string, duration time.Duration, err error) {
	if hm == nil {
		return
	}

	if hm.probeTime != nil {
		hm.probeTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("dependency", name)))
	}

	hm.mu.Lock()
	if _, ok := hm.status[name]; ok {
		hm.status[name] = err == nil
	}
	hm.mu.Unlock()
}
