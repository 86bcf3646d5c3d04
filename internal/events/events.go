// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
)

type Type string

const (
	UserRegistered           Type = "user.registered"
	TaskCreated              Type = "task.created"
	TaskUpdated              Type = "task.updated"
	TaskDeleted              Type = "task.deleted"
	ApplicationCreated       Type = "application.created"
	ApplicationStatusChanged Type = "application.status_changed"
	ApplicationWithdrawn     Type = "application.withdrawn"
	ReviewCreated            Type = "review.created"
)

type Event struct {
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	ActorID    uuid.UUID   `json:"actorId"`
	SubjectID  uuid.UUID   `json:"subjectId"`
	Data       interface{} `json:"data,omitempty"`
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emitter stamps and publishes events on behalf of services. Publish
// failures are logged and counted, never returned.
type Emitter struct {
	publisher Publisher
	driver    string
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewEmitter(publisher Publisher, driver string, logger *slog.Logger, m *metrics.Metrics) *Emitter {
	if publisher == nil {
		publisher = Noop{}
		driver = "noop"
	}
	return &Emitter{
		publisher: publisher,
		driver:    driver,
		logger:    logger,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (e *Emitter) Emit(ctx context.Context, typ Type, actorID, subjectID uuid.UUID, data interface{}) {
	if e == nil {
		return
	}

	event := Event{
		Type:       typ,
		OccurredAt: e.now(),
		ActorID:    actorID,
		SubjectID:  subjectID,
		Data:       data,
	}

	start := time.Now()
	err := e.publisher.Publish(ctx, event)
	e.metrics.Events.RecordPublish(ctx, e.driver, string(typ), time.Since(start), err)

	if err != nil {
		e.logger.WarnContext(ctx, "failed to publish event",
			"type", typ,
			"subject_id", subjectID,
			"error", err,
		)
	}
}

func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	return e.publisher.Close()
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]Type, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}
