package balance

import (
	"context"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults is the allowance granted to newly registered employees.
type Defaults struct {
	LeaveTypeID string
	AnnualDays  int
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Seed(ctx context.Context, req SeedBalanceRequest) (BalanceResponse, error)
	SeedDefault(ctx context.Context, employeeID string, year int) (BalanceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, year *int) ([]BalanceResponse, error)
}

type service struct {
	repo     Repository
	defaults Defaults
	logger   *zap.Logger
}

func NewService(repo Repository, defaults Defaults, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, defaults: defaults, logger: l}
}

func (s *service) Seed(ctx context.Context, req SeedBalanceRequest) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("seed balance requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)

	if req.TotalDays == nil || *req.TotalDays < 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidTotalDays
	}
	if req.Year < 1 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, apperror.InvalidField("employee_id")
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, apperror.InvalidField("leave_type_id")
	}

	b := &Balance{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		Year:          req.Year,
		TotalDays:     *req.TotalDays,
		UsedDays:      0,
		AvailableDays: *req.TotalDays,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			s.logger.Error("seed balance persist failed", zap.String("request_id", rid), zap.Error(err))
		} else {
			s.logger.Warn("seed balance rejected", zap.String("request_id", rid), zap.Error(err))
		}
		return BalanceResponse{}, mapped
	}

	s.logger.Info("seed balance success",
		zap.String("request_id", rid),
		zap.String("balance_id", b.ID.String()),
		zap.Int("total_days", b.TotalDays),
	)
	return mapToResponse(*b), nil
}

func (s *service) SeedDefault(ctx context.Context, employeeID string, year int) (BalanceResponse, error) {
	if s.defaults.LeaveTypeID == "" {
		return BalanceResponse{}, balanceerrors.ErrDefaultLeaveTypeUnset
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	days := s.defaults.AnnualDays
	return s.Seed(ctx, SeedBalanceRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: s.defaults.LeaveTypeID,
		Year:        year,
		TotalDays:   &days,
	})
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string, year *int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return []BalanceResponse{}, nil
	}

	balances, err := s.repo.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("list balances failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	res := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = mapToResponse(b)
	}
	return res, nil
}

func mapToResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		AvailableDays: b.AvailableDays,
	}
}
