package metrics

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics observes the Go runtime on every collection
type RuntimeMetrics struct {
	goroutines  metric.Int64ObservableGauge
	heapAlloc   metric.Int64ObservableGauge
	heapObjects metric.Int64ObservableGauge
	gcCycles    metric.Int64ObservableCounter
	uptime      metric.Float64ObservableCounter
	started     time.Time
}

func NewRuntimeMetrics(_ context.Context, meter metric.Meter) (*RuntimeMetrics, error) {
	rm := &RuntimeMetrics{started: time.Now()}

	gauges := []struct {
		target *metric.Int64ObservableGauge
		name   string
		desc   string
		unit   string
	}{
		{&rm.goroutines, "runtime.go.goroutines", "Number of goroutines", "{goroutine}"},
		{&rm.heapAlloc, "runtime.go.mem.heap_alloc", "Bytes of allocated heap objects", "By"},
		{&rm.heapObjects, "runtime.go.mem.heap_objects", "Number of allocated heap objects", "{object}"},
	}
	for _, g := range gauges {
		gauge, err := meter.Int64ObservableGauge(g.name, metric.WithDescription(g.desc), metric.WithUnit(g.unit))
		if err != nil {
			return nil, err
		}
		*g.target = gauge
	}

	var err error
	rm.gcCycles, err = meter.Int64ObservableCounter("runtime.go.gc.count",
		metric.WithDescription("Number of completed GC cycles"), metric.WithUnit("{gc}"))
	if err != nil {
		return nil, err
	}
	rm.uptime, err = meter.Float64ObservableCounter("service.uptime",
		metric.WithDescription("Seconds since the API process started"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	_, err = meter.RegisterCallback(rm.observe, rm.goroutines, rm.heapAlloc, rm.heapObjects, rm.gcCycles, rm.uptime)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (rm *RuntimeMetrics) observe(_ context.Context, o metric.Observer) error {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	o.ObserveInt64(rm.goroutines, int64(runtime.NumGoroutine()))
	o.ObserveInt64(rm.heapAlloc, int64(ms.HeapAlloc))
	o.ObserveInt64(rm.heapObjects, int64(ms.HeapObjects))
	o.ObserveInt64(rm.gcCycles, int64(ms.NumGC))
	o.ObserveFloat64(rm.uptime, time.Since(rm.started).Seconds())
	return nil
}
