package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	numberScope   = "leave_request"
	aggregateType = "leave_request"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, actorID string) ([]LeaveResponse, error)
	ListByStatus(ctx context.Context, status string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, id, actorID string, comment *string) (LeaveResponse, error)
	Reject(ctx context.Context, id, actorID string, comment *string) (LeaveResponse, error)
	Decide(ctx context.Context, actorID string, req DecideRequest) (LeaveResponse, error)
	Delete(ctx context.Context, id, actorID string) error
}

// CalendarCache drops cached month views covering a date range.
type CalendarCache interface {
	Invalidate(ctx context.Context, start, end time.Time)
}

// Dependencies are the collaborators of the lifecycle manager. Cache and
// Metrics may be nil. A zero TxTimeout leaves transactions bounded only by the
// caller's context.
type Dependencies struct {
	Ledger    balance.Ledger
	Recorder  approval.Recorder
	Counter   counter.Repository
	Outbox    kafka.OutboxRepository
	Cache     CalendarCache
	Metrics   *metrics.Metrics
	TxTimeout time.Duration
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    balance.Ledger
	recorder  approval.Recorder
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	cache     CalendarCache
	metrics   *metrics.Metrics
	txTimeout time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    deps.Ledger,
		recorder:  deps.Recorder,
		counter:   deps.Counter,
		outbox:    deps.Outbox,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
		txTimeout: deps.TxTimeout,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (res LeaveResponse, err error) {
	defer func() { s.observe("create", err) }()

	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	employeeID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	dates, err := ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("create leave request invalid dates",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	days := dates.Days()

	ctx, cancel := s.txContext(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	exists, err = qtx.LeaveTypeExists(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
	}

	// Approval deducts from the same start-date year row.
	balanceYear := dates.Start.Year()
	available, err := s.ledger.WithTx(tx).Available(ctx, actorID, req.LeaveTypeID, balanceYear)
	if err != nil {
		log.Error("create leave request balance lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if available < days {
		log.Warn("create leave request insufficient balance",
			zap.String("employee_id", actorID),
			zap.String("leave_type_id", req.LeaveTypeID),
			zap.Int("year", balanceYear),
			zap.Int("available", available),
			zap.Int("requested", days),
		)
		return LeaveResponse{}, balanceerrors.ErrInsufficientBalance
	}

	if err := s.checkOverlapAtCreation(ctx, qtx, actorID, dates); err != nil {
		return LeaveResponse{}, err
	}

	year := s.now().UTC().Year()
	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, numberScope, strconv.Itoa(year))
	if err != nil {
		log.Error("create leave request number allocation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.now().UTC()
	lr := &LeaveRequest{
		ID:            uuid.New(),
		Number:        fmt.Sprintf("LV-%d-%05d", year, seq),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		StartDate:     dates.Start,
		EndDate:       dates.End,
		RequestedDays: days,
		Status:        StatusPending,
		Reason:        req.Reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		log.Error("create leave request persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.LeaveRequestCreated, lr, actorID); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave request commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave request created",
		zap.String("request_id", rid),
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("number", lr.Number),
		zap.Int("requested_days", days),
	)

	return mapToResponse(*lr), nil
}

func (s *service) ListMine(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	rows, err := s.repo.FindByEmployee(ctx, actorID)
	if err != nil {
		s.logger.Error("list own leave requests failed", zap.String("employee_id", actorID), zap.Error(err))
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]LeaveResponse, error) {
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, leaveerrors.ErrInvalidStatus
	}
	rows, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		s.logger.Error("list leave requests by status failed", zap.String("status", status), zap.Error(err))
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveRequestID
	}
	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) Approve(ctx context.Context, id, actorID string, comment *string) (LeaveResponse, error) {
	return s.decide(ctx, id, actorID, approval.DecisionApproved, comment)
}

func (s *service) Reject(ctx context.Context, id, actorID string, comment *string) (LeaveResponse, error) {
	return s.decide(ctx, id, actorID, approval.DecisionRejected, comment)
}

func (s *service) Decide(ctx context.Context, actorID string, req DecideRequest) (LeaveResponse, error) {
	switch req.Decision {
	case approval.DecisionApproved, approval.DecisionRejected:
		return s.decide(ctx, req.LeaveRequestID, actorID, req.Decision, req.Comment)
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
}

// decide runs one terminal transition. Locks are taken request row first and
// employee row second; approval needs both before the overlap re-check and the
// balance decrement so concurrent approvals of one employee serialize.
func (s *service) decide(ctx context.Context, id, actorID, decision string, comment *string) (res LeaveResponse, err error) {
	op := "reject"
	target := StatusRejected
	eventType := events.LeaveRequestRejected
	if decision == approval.DecisionApproved {
		op = "approve"
		target = StatusApproved
		eventType = events.LeaveRequestApproved
	}
	defer func() { s.observe(op, err) }()

	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("leave_request_id", id),
		zap.String("actor_id", actorID),
		zap.String("decision", decision),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveRequestID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	ctx, cancel := s.txContext(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.Error("decide begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		log.Warn("decide on terminal request", zap.String("status", lr.Status))
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	if decision == approval.DecisionApproved {
		if err := qtx.LockEmployee(ctx, lr.EmployeeID.String()); err != nil {
			log.Error("decide employee lock failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if err := s.checkOverlapAtApproval(ctx, qtx, lr); err != nil {
			return LeaveResponse{}, err
		}
	}

	recorded, err := s.recorder.Record(ctx, tx, id, actorID, decision, comment)
	if err != nil {
		log.Error("decide record failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if decision == approval.DecisionApproved {
		err := s.ledger.WithTx(tx).ApplyApproval(ctx,
			lr.EmployeeID.String(),
			lr.LeaveTypeID.String(),
			lr.StartDate.Year(),
			lr.RequestedDays,
		)
		if err != nil {
			log.Warn("decide balance apply failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	decidedAt := recorded.DecidedAt
	moved, err := qtx.UpdateStatus(ctx, id, StatusPending, target, decidedAt)
	if err != nil {
		log.Error("decide status update failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		return LeaveResponse{}, leaveerrors.ErrInvalidState
	}

	lr.Status = target
	lr.DecidedAt = &decidedAt
	lr.UpdatedAt = decidedAt

	if err := s.enqueue(ctx, tx, eventType, lr, actorID); err != nil {
		return LeaveResponse{}, err
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if decision == approval.DecisionApproved {
		s.invalidateCalendar(ctx, lr)
	}

	log.Info("leave request decided", zap.String("status", target))
	return mapToResponse(*updated), nil
}

// Delete removes the request and its history in any state. Consumed balance
// is not given back.
func (s *service) Delete(ctx context.Context, id, actorID string) (err error) {
	defer func() { s.observe("delete", err) }()

	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveRequestID
	}

	ctx, cancel := s.txContext(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete leave request begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if err := s.recorder.Purge(ctx, tx, id); err != nil {
		log.Error("delete leave request purge history failed", zap.Error(err))
		return err
	}

	deleted, err := qtx.Delete(ctx, id)
	if err != nil {
		log.Error("delete leave request failed", zap.String("leave_request_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return leaveerrors.ErrLeaveRequestNotFound
	}

	if err := s.enqueue(ctx, tx, events.LeaveRequestDeleted, lr, actorID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete leave request commit failed", zap.Error(err))
		return err
	}

	if lr.Status == StatusApproved {
		s.invalidateCalendar(ctx, lr)
	}

	log.Info("leave request deleted",
		zap.String("leave_request_id", id),
		zap.String("status", lr.Status),
		zap.String("actor_id", actorID),
	)
	return nil
}

// checkOverlapAtCreation compares the candidate against committed approved
// requests. Pending requests never block creation.
func (s *service) checkOverlapAtCreation(ctx context.Context, repo Repository, employeeID string, candidate DateRange) error {
	approved, err := repo.FindApprovedRanges(ctx, employeeID, "")
	if err != nil {
		return err
	}
	if AnyOverlap(approved, candidate) {
		s.logger.Warn("create leave request overlaps approved leave",
			zap.String("employee_id", employeeID),
			zap.Time("start_date", candidate.Start),
			zap.Time("end_date", candidate.End),
		)
		return leaveerrors.ErrOverlapConflict
	}
	return nil
}

// checkOverlapAtApproval runs under the employee lock and skips the request
// being approved, catching approvals committed since creation.
func (s *service) checkOverlapAtApproval(ctx context.Context, repo Repository, lr *LeaveRequest) error {
	approved, err := repo.FindApprovedRanges(ctx, lr.EmployeeID.String(), lr.ID.String())
	if err != nil {
		return err
	}
	if AnyOverlap(approved, lr.Range()) {
		s.logger.Warn("approve leave request overlaps approved leave",
			zap.String("leave_request_id", lr.ID.String()),
			zap.String("employee_id", lr.EmployeeID.String()),
		)
		return leaveerrors.ErrOverlapConflict
	}
	return nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, lr *LeaveRequest, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	payload := events.LeaveRequestEvent{
		EventType:      eventType,
		RequestID:      rid,
		LeaveRequestID: lr.ID.String(),
		Number:         lr.Number,
		EmployeeID:     lr.EmployeeID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		Status:         lr.Status,
		StartDate:      lr.StartDate.Format(DateLayout),
		EndDate:        lr.EndDate.Format(DateLayout),
		RequestedDays:  lr.RequestedDays,
		ActorID:        actorID,
		OccurredAt:     s.now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(rid, aggregateType, lr.ID.String(), eventType, events.LeaveRequestLifecycleTopic, payload)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("leave request outbox persist failed",
			zap.String("event_type", eventType),
			zap.String("leave_request_id", lr.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// txContext bounds one lifecycle transaction. Expiry rolls everything back.
func (s *service) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.txTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.txTimeout)
}

func (s *service) invalidateCalendar(ctx context.Context, lr *LeaveRequest) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, lr.StartDate, lr.EndDate)
}

func (s *service) observe(op string, err error) {
	switch {
	case err == nil:
		s.metrics.Transition(op, metrics.OutcomeSuccess)
	case isBusinessError(err):
		s.metrics.Transition(op, metrics.OutcomeRejected)
	default:
		s.metrics.Transition(op, metrics.OutcomeError)
	}
}

func isBusinessError(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.HTTPStatus < 500
}
