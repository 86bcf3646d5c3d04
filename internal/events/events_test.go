package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/samuelcg20/Apt/internal/metrics"
	"github.com/samuelcg20/Apt/testing/testnats"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitter_PublishesStampedEvent(t *testing.T) {
	rec := &Recorder{}
	emitter := NewEmitter(rec, "memory", discardLogger(), metrics.NewMock())
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	emitter.now = func() time.Time { return fixed }

	actor, subject := uuid.New(), uuid.New()
	emitter.Emit(context.Background(), TaskCreated, actor, subject, map[string]string{"title": "t"})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, TaskCreated, got[0].Type)
	assert.Equal(t, fixed, got[0].OccurredAt)
	assert.Equal(t, actor, got[0].ActorID)
	assert.Equal(t, subject, got[0].SubjectID)
}

func TestEmitter_SwallowsPublishErrors(t *testing.T) {
	rec := &Recorder{Err: errors.New("broker down")}
	emitter := NewEmitter(rec, "memory", discardLogger(), metrics.NewMock())

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), ReviewCreated, uuid.New(), uuid.New(), nil)
	})
	assert.Empty(t, rec.Events())
}

func TestEmitter_NilIsSafe(t *testing.T) {
	var emitter *Emitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), UserRegistered, uuid.New(), uuid.New(), nil)
	})
	assert.NoError(t, emitter.Close())
}

func TestKafkaPublisher(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewKafkaConfig())
	publisher := NewKafkaPublisherWithProducer(producer, "apt-events", discardLogger())

	subject := uuid.New()
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Type != ApplicationCreated || e.SubjectID != subject {
			return errors.New("unexpected event payload")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	require.NoError(t, publisher.Publish(context.Background(), Event{Type: ApplicationCreated, SubjectID: subject}))

	err := publisher.Publish(context.Background(), Event{Type: ApplicationCreated, SubjectID: subject})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, publisher.Close())
}

func TestNATSPublisher(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	sub := natsContainer.Subscribe(t, "apt.events.>")

	publisher, err := NewNATSPublisher(natsContainer.URL, "apt.events", discardLogger())
	require.NoError(t, err)
	defer publisher.Close()

	subject := uuid.New()
	require.NoError(t, publisher.Publish(context.Background(), Event{Type: TaskDeleted, SubjectID: subject}))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "apt.events.task.deleted", msg.Subject)

	var got Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, subject, got.SubjectID)
}
