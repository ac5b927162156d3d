package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// BalanceSeeder grants the default annual allowance to a new employee.
type BalanceSeeder interface {
	SeedDefault(ctx context.Context, employeeID string, year int) (balance.BalanceResponse, error)
}

// ConsumeEmployeeRegistered runs until ctx is cancelled.
func ConsumeEmployeeRegistered(
	ctx context.Context,
	reader MessageReader,
	seeder BalanceSeeder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_registered")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		handleEmployeeRegistered(ctx, reader, seeder, log, msg)
	}
}

func handleEmployeeRegistered(
	ctx context.Context,
	reader MessageReader,
	seeder BalanceSeeder,
	log *zap.Logger,
	msg kafkago.Message,
) {
	var event events.EmployeeRegisteredEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee_registered event failed", zap.Error(err))
		commit(ctx, reader, log, msg)
		return
	}
	if event.EventType != events.EmployeeRegistered {
		commit(ctx, reader, log, msg)
		return
	}

	year := event.OccurredAt.UTC().Year()
	if event.OccurredAt.IsZero() {
		year = time.Now().UTC().Year()
	}

	fields := []zap.Field{
		zap.String("request_id", event.RequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.Int("year", year),
	}

	_, err := seeder.SeedDefault(ctx, event.EmployeeID, year)
	if err != nil {
		if errors.Is(err, balanceerrors.ErrDuplicateBalance) {
			log.Warn("default balance already seeded, skipping", fields...)
			commit(ctx, reader, log, msg)
			return
		}
		log.Error("seed default balance failed", append(fields, zap.Error(err))...)
		return
	}

	if commit(ctx, reader, log, msg) {
		log.Info("default balance seeded from employee_registered event", fields...)
	}
}

func commit(ctx context.Context, reader MessageReader, log *zap.Logger, msg kafkago.Message) bool {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit employee lifecycle message failed", zap.Error(err))
		return false
	}
	return true
}
