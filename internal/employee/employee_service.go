package employee

import (
	"context"
	"database/sql"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context, q EmployeeQuery) (EmployeePage, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		now:    time.Now,
		logger: l,
	}
}

// Register persists the employee and enqueues employee_registered in the same
// transaction, so the default balance is seeded exactly when the row exists.
func (s *service) Register(ctx context.Context, req RegisterEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	hireDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.HireDate != "" {
		parsed, err := time.Parse(dateLayout, req.HireDate)
		if err != nil {
			s.logger.Warn("register employee invalid hire_date",
				zap.String("hire_date", req.HireDate),
				zap.Error(err),
			)
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		hireDate = parsed
	}

	var supervisorID *uuid.UUID
	if req.SupervisorID != "" {
		id, err := uuid.Parse(req.SupervisorID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		supervisorID = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if supervisorID != nil {
		exists, err := qtx.Exists(ctx, supervisorID.String())
		if err != nil {
			s.logger.Error("register employee supervisor lookup failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if !exists {
			s.logger.Warn("register employee supervisor not found",
				zap.String("request_id", rid),
				zap.String("supervisor_id", supervisorID.String()),
			)
			return EmployeeResponse{}, employeeerrors.ErrSupervisorNotFound
		}
	}

	empl := &Employee{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		Position:     req.Position,
		Department:   req.Department,
		Category:     req.Category,
		SupervisorID: supervisorID,
		HireDate:     hireDate,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			s.logger.Error("register employee persist failed", zap.String("request_id", rid), zap.Error(err))
		} else {
			s.logger.Warn("register employee rejected", zap.String("request_id", rid), zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}

	if s.outbox != nil {
		payload := events.EmployeeRegisteredEvent{
			EventType:  events.EmployeeRegistered,
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			HireDate:   hireDate.Format(dateLayout),
			OccurredAt: s.now().UTC(),
		}
		event, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), payload.EventType, events.EmployeeLifecycleTopic, payload)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("register employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("register employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) List(ctx context.Context, q EmployeeQuery) (EmployeePage, error) {
	q = q.withDefaults()
	employees, total, err := s.repo.Search(ctx, q)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return EmployeePage{}, mapRepositoryError(err)
	}

	page := EmployeePage{
		Items:    make([]EmployeeResponse, len(employees)),
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	for i, e := range employees {
		page.Items[i] = mapToResponse(e)
	}
	return page, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Debug("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		FullName:   e.FullName,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Category:   e.Category,
		HireDate:   e.HireDate.Format(dateLayout),
	}
	if e.SupervisorID != nil {
		resp.SupervisorID = e.SupervisorID.String()
	}
	return resp
}
