package kafka

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	defaultClaimLimit = 50
	defaultLease      = 30 * time.Second
	maxErrorLength    = 500
)

// OutboxEvent is one row of outbox_events. LeasedUntil is the instant after
// which another relay may claim the row again.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	LeasedUntil   time.Time
}

// NewOutboxEvent encodes payload as JSON into a pending outbox row.
func NewOutboxEvent(requestID, aggregateType, aggregateID, eventType, topic string, payload any) (OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	event := OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}
	return event, ValidateOutboxEvent(event)
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	// ClaimDue leases up to limit unsent events whose retry time has passed.
	// Rows locked by a concurrent claim are skipped, so relays never share a row.
	ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) conn() dbExecutor {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const insertOutboxSQL = `
INSERT INTO outbox_events (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}
	_, err := r.conn().ExecContext(ctx, insertOutboxSQL,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status,
	)
	if err != nil {
		return fmt.Errorf("insert outbox event %s: %w", event.EventType, err)
	}
	return nil
}

// The lease is written to next_retry_at so the due filter hides claimed rows
// until the relay marks them or the lease lapses.
const claimDueSQL = `
UPDATE outbox_events AS o
SET next_retry_at = NOW() + make_interval(secs => $3), updated_at = NOW()
FROM (
	SELECT id FROM outbox_events
	WHERE status IN ($1, $2) AND (next_retry_at IS NULL OR next_retry_at <= NOW())
	ORDER BY created_at
	LIMIT $4
	FOR UPDATE SKIP LOCKED
) AS due
WHERE o.id = due.id
RETURNING o.id::text, COALESCE(o.request_id, ''), o.aggregate_type, o.aggregate_id::text,
	o.event_type, o.topic, o.payload, o.status, o.retry_count, o.next_retry_at, o.created_at`

func (r *outboxRepository) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = defaultClaimLimit
	}
	if lease <= 0 {
		lease = defaultLease
	}

	rows, err := r.conn().QueryContext(ctx, claimDueSQL,
		OutboxStatusPending, OutboxStatusFailed, lease.Seconds(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim outbox events: %w", err)
	}
	defer rows.Close()

	claimed := make([]claimedRow, 0, limit)
	for rows.Next() {
		var c claimedRow
		e := &c.event
		if err := rows.Scan(&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID,
			&e.EventType, &e.Topic, &e.Payload, &e.Status, &e.RetryCount,
			&e.LeasedUntil, &c.createdAt); err != nil {
			return nil, err
		}
		claimed = append(claimed, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inCreationOrder(claimed), nil
}

type claimedRow struct {
	event     OutboxEvent
	createdAt time.Time
}

// RETURNING does not preserve the subquery ORDER BY.
func inCreationOrder(rows []claimedRow) []OutboxEvent {
	slices.SortStableFunc(rows, func(a, b claimedRow) int {
		return a.createdAt.Compare(b.createdAt)
	})
	out := make([]OutboxEvent, len(rows))
	for i, row := range rows {
		out[i] = row.event
	}
	return out
}

const markSentSQL = `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, next_retry_at = NULL, updated_at = NOW()
WHERE id = $1`

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.conn().ExecContext(ctx, markSentSQL, id, OutboxStatusSent)
	return err
}

// Retries back off linearly, 15s per attempt, capped at 10 steps.
const markFailedSQL = `
UPDATE outbox_events
SET status = $2,
	retry_count = retry_count + 1,
	error_message = $3,
	next_retry_at = NOW() + LEAST(retry_count + 1, 10) * INTERVAL '15 seconds',
	updated_at = NOW()
WHERE id = $1`

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if len(reason) > maxErrorLength {
		reason = strings.ToValidUTF8(reason[:maxErrorLength], "")
	}
	_, err := r.conn().ExecContext(ctx, markFailedSQL, id, OutboxStatusFailed, reason)
	return err
}

var (
	errOutboxID        = errors.New("outbox id is required")
	errOutboxTopic     = errors.New("outbox topic is required")
	errOutboxAggregate = errors.New("outbox aggregate id is required")
	errOutboxPayload   = errors.New("outbox payload is required")
)

func ValidateOutboxEvent(event OutboxEvent) error {
	switch {
	case event.ID == "":
		return errOutboxID
	case event.Topic == "":
		return errOutboxTopic
	case event.AggregateID == "":
		return errOutboxAggregate
	case len(event.Payload) == 0:
		return errOutboxPayload
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	}
	return fmt.Errorf("invalid outbox status: %s", event.Status)
}
