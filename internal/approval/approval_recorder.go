package approval

import (
	"context"
	"database/sql"
	"time"

	approvalerrors "go-leave/internal/approval/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder appends decisions. Record only runs inside a caller's transaction so
// a decision exists exactly when its state change commits.
type Recorder interface {
	Record(ctx context.Context, tx *sql.Tx, leaveRequestID, approverID, decision string, comment *string) (Decision, error)
	History(ctx context.Context, leaveRequestID string) ([]Decision, error)
	// Purge drops the history of a request being deleted.
	Purge(ctx context.Context, tx *sql.Tx, leaveRequestID string) error
}

type recorder struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

type RecorderOption func(*recorder)

// WithClock overrides the decision timestamp source.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *recorder) { r.now = now }
}

func WithLogger(l *zap.Logger) RecorderOption {
	return func(r *recorder) {
		if l != nil {
			r.logger = l.Named("approval.recorder")
		}
	}
}

func NewRecorder(repo Repository, opts ...RecorderOption) Recorder {
	r := &recorder{
		repo:   repo,
		now:    time.Now,
		logger: zap.L().Named("approval.recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *recorder) Record(
	ctx context.Context,
	tx *sql.Tx,
	leaveRequestID, approverID, decision string,
	comment *string,
) (Decision, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return Decision{}, approvalerrors.ErrInvalidDecision
	}
	requestUUID, err := uuid.Parse(leaveRequestID)
	if err != nil {
		return Decision{}, approvalerrors.ErrInvalidRequestID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return Decision{}, approvalerrors.ErrInvalidApproverID
	}

	d := Decision{
		ID:             uuid.New(),
		LeaveRequestID: requestUUID,
		ApproverID:     approverUUID,
		Decision:       decision,
		Comment:        comment,
		DecidedAt:      r.now().UTC(),
	}

	if err := r.repo.WithTx(tx).Append(ctx, &d); err != nil {
		r.logger.Error("append decision failed",
			zap.String("leave_request_id", leaveRequestID),
			zap.String("decision", decision),
			zap.Error(err),
		)
		return Decision{}, err
	}

	return d, nil
}

func (r *recorder) History(ctx context.Context, leaveRequestID string) ([]Decision, error) {
	if _, err := uuid.Parse(leaveRequestID); err != nil {
		return nil, approvalerrors.ErrInvalidRequestID
	}
	return r.repo.ListByRequest(ctx, leaveRequestID)
}

func (r *recorder) Purge(ctx context.Context, tx *sql.Tx, leaveRequestID string) error {
	return r.repo.WithTx(tx).DeleteByRequest(ctx, leaveRequestID)
}
