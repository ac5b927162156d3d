package leavetype

import (
	"context"
	"encoding/json"
	"time"

	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ListCacheKey = "leave_types:list"

const listCacheTTL = time.Hour

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	List(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave type requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	unit := req.TimeUnit
	if unit == "" {
		unit = TimeUnitDays
	}
	if unit != TimeUnitDays && unit != TimeUnitMinutes {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidTimeUnit
	}
	if req.DefaultAnnualDays != nil && *req.DefaultAnnualDays < 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidDefaultDays
	}

	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	lt := &LeaveType{
		ID:                uuid.New(),
		Name:              req.Name,
		DefaultAnnualDays: req.DefaultAnnualDays,
		IsVariable:        req.IsVariable,
		RequiresApproval:  requiresApproval,
		RequiresDocument:  req.RequiresDocument,
		TimeUnit:          unit,
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			s.logger.Error("create leave type persist failed", zap.String("request_id", rid), zap.Error(err))
		} else {
			s.logger.Warn("create leave type rejected", zap.String("request_id", rid), zap.Error(err))
		}
		return LeaveTypeResponse{}, mapped
	}

	s.invalidateList(ctx)

	s.logger.Info("create leave type success",
		zap.String("request_id", rid),
		zap.String("leave_type_id", lt.ID.String()),
	)
	return mapToResponse(*lt), nil
}

func (s *service) List(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ListCacheKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ListCacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Error("list leave types failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := make([]LeaveTypeResponse, len(types))
		for i, lt := range types {
			resp[i] = mapToResponse(lt)
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, ListCacheKey, data, listCacheTTL).Err(); err != nil {
					s.logger.Warn("cache leave types failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Debug("get leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) invalidateList(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ListCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type cache", zap.String("key", ListCacheKey), zap.Error(err))
	}
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                lt.ID.String(),
		Name:              lt.Name,
		DefaultAnnualDays: lt.DefaultAnnualDays,
		IsVariable:        lt.IsVariable,
		RequiresApproval:  lt.RequiresApproval,
		RequiresDocument:  lt.RequiresDocument,
		TimeUnit:          lt.TimeUnit,
	}
}
