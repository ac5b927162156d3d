package producer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/messaging/kafka"
	kafkaMock "go-leave/internal/messaging/kafka/mock"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failFor map[string]error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err, ok := w.failFor[string(m.Key)]; ok {
			return err
		}
	}
	w.written = append(w.written, msgs...)
	return nil
}

func headerValue(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	m := metrics.New()
	ctx := context.Background()

	pending := []kafka.OutboxEvent{
		{ID: "o-1", RequestID: "rid-1", AggregateID: "lr-1", EventType: "leave_request_approved", Topic: "t", Payload: []byte(`{}`)},
		{ID: "o-2", AggregateID: "lr-2", EventType: "leave_request_created", Topic: "t", Payload: []byte(`{}`)},
	}
	repo.EXPECT().ClaimDue(ctx, 25, time.Minute).Return(pending, nil)
	repo.EXPECT().MarkSent(ctx, "o-1").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "o-2", "broker unavailable").Return(nil)

	writer := &fakeWriter{failFor: map[string]error{"lr-2": errors.New("broker unavailable")}}

	sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop(), producer.WorkerOptions{BatchSize: 25, Lease: time.Minute, Metrics: m})

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, writer.written, 1)
	assert.Equal(t, "rid-1", headerValue(writer.written[0], "request_id"))
	assert.Equal(t, "leave_request_approved", headerValue(writer.written[0], "event_type"))

	count, err := testutil.GatherAndCount(m.Registry(), "outbox_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ClaimDue(gomock.Any(), 50, time.Duration(0)).Return(nil, errors.New("db down"))

	_, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop(), producer.WorkerOptions{BatchSize: 50})

	assert.EqualError(t, err, "db down")
}
