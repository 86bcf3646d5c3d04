package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts marketplace activity
type BusinessMetrics struct {
	usersRegistered       metric.Int64Counter
	logins                metric.Int64Counter
	tasksCreated          metric.Int64Counter
	applicationsSubmitted metric.Int64Counter
	applicationsChanged   metric.Int64Counter
	reviewsCreated        metric.Int64Counter
}

func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	bm := &BusinessMetrics{}

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
		unit   string
	}{
		{&bm.usersRegistered, "apt.users.registered", "Total number of users registered", "{user}"},
		{&bm.logins, "apt.logins", "Login attempts by outcome", "{login}"},
		{&bm.tasksCreated, "apt.tasks.created", "Total number of tasks posted", "{task}"},
		{&bm.applicationsSubmitted, "apt.applications.submitted", "Total number of applications submitted", "{application}"},
		{&bm.applicationsChanged, "apt.applications.status_changed", "Application status changes by new status", "{change}"},
		{&bm.reviewsCreated, "apt.reviews.created", "Total number of reviews created", "{review}"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	return bm, nil
}

func (bm *BusinessMetrics) RecordUserRegistered(ctx context.Context, role string) {
	if bm != nil && bm.usersRegistered != nil {
		bm.usersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
	}
}

func (bm *BusinessMetrics) RecordLogin(ctx context.Context, success bool) {
	if bm != nil && bm.logins != nil {
		bm.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

func (bm *BusinessMetrics) RecordTaskCreated(ctx context.Context, domain string) {
	if bm != nil && bm.tasksCreated != nil {
		bm.tasksCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("domain", domain)))
	}
}

func (bm *BusinessMetrics) RecordApplicationSubmitted(ctx context.Context) {
	if bm != nil && bm.applicationsSubmitted != nil {
		bm.applicationsSubmitted.Add(ctx, 1)
	}
}

func (bm *BusinessMetrics) RecordApplicationStatusChanged(ctx context.Context, status string) {
	if bm != nil && bm.applicationsChanged != nil {
		bm.applicationsChanged.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func (bm *BusinessMetrics) RecordReviewCreated(ctx context.Context) {
	if bm != nil && bm.reviewsCreated != nil {
		bm.reviewsCreated.Add(ctx, 1)
	}
}
