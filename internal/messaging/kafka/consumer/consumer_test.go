package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves msgs in order, then cancels the consumer's context.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

type fakeSeeder struct {
	calls []string
	years []int
	err   error
}

func (s *fakeSeeder) SeedDefault(ctx context.Context, employeeID string, year int) (balance.BalanceResponse, error) {
	s.calls = append(s.calls, employeeID)
	s.years = append(s.years, year)
	return balance.BalanceResponse{EmployeeID: employeeID, Year: year}, s.err
}

func registeredMessage(t *testing.T, employeeID string, at time.Time) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.EmployeeRegisteredEvent{
		EventType:  events.EmployeeRegistered,
		EmployeeID: employeeID,
		OccurredAt: at,
	})
	assert.NoError(t, err)
	return kafkago.Message{Key: []byte(employeeID), Value: payload}
}

func run(reader *fakeReader, seeder *fakeSeeder) {
	ctx, cancel := context.WithCancel(context.Background())
	reader.cancel = cancel
	consumer.ConsumeEmployeeRegistered(ctx, reader, seeder, zap.NewNop())
}

func TestConsumeEmployeeRegistered_SeedsAndCommits(t *testing.T) {
	at := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	reader := &fakeReader{msgs: []kafkago.Message{registeredMessage(t, "emp-1", at)}}
	seeder := &fakeSeeder{}

	run(reader, seeder)

	assert.Equal(t, []string{"emp-1"}, seeder.calls)
	assert.Equal(t, []int{2025}, seeder.years)
	assert.Len(t, reader.committed, 1)
}

func TestConsumeEmployeeRegistered_DuplicateIsCommitted(t *testing.T) {
	reader := &fakeReader{msgs: []kafkago.Message{registeredMessage(t, "emp-1", time.Now())}}
	seeder := &fakeSeeder{err: balanceerrors.ErrDuplicateBalance.WithCause(errors.New("23505"))}

	run(reader, seeder)

	assert.Len(t, seeder.calls, 1)
	assert.Len(t, reader.committed, 1)
}

func TestConsumeEmployeeRegistered_FailureLeavesUncommitted(t *testing.T) {
	reader := &fakeReader{msgs: []kafkago.Message{registeredMessage(t, "emp-1", time.Now())}}
	seeder := &fakeSeeder{err: errors.New("db down")}

	run(reader, seeder)

	assert.Len(t, seeder.calls, 1)
	assert.Empty(t, reader.committed)
}

func TestConsumeEmployeeRegistered_PoisonMessageSkipped(t *testing.T) {
	reader := &fakeReader{msgs: []kafkago.Message{{Value: []byte("not json")}}}
	seeder := &fakeSeeder{}

	run(reader, seeder)

	assert.Empty(t, seeder.calls)
	assert.Len(t, reader.committed, 1)
}
