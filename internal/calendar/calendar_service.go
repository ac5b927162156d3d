package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-leave/internal/shared/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	summaryKeyPrefix = "calendar:summary:"
	versionKeyPrefix = "calendar:version:"
)

// Summaries are cached under the month's current version. Invalidate bumps the
// version, so a fill that read the store before an approval committed lands on
// a key no reader asks for again.
func SummaryCacheKey(m Month, version int64) string {
	return fmt.Sprintf("%s%s:v%d", summaryKeyPrefix, m.String(), version)
}

func VersionCacheKey(m Month) string {
	return versionKeyPrefix + m.String()
}

//go:generate mockgen -source=calendar_service.go -destination=mock/calendar_service_mock.go -package=mock
type Service interface {
	MonthRequests(ctx context.Context, year, month int) ([]EntryResponse, error)
	MonthSummary(ctx context.Context, year, month int) (MonthSummary, error)
	ExportMonthPDF(ctx context.Context, year, month int) ([]byte, error)
	// Invalidate retires the cached summary of every month in [start, end].
	Invalidate(ctx context.Context, start, end time.Time)
}

type service struct {
	repo    Repository
	rdb     *redis.Client
	ttl     time.Duration
	sf      *singleflight.Group
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	return &service{
		repo:    repo,
		rdb:     rdb,
		ttl:     ttl,
		sf:      &singleflight.Group{},
		metrics: m,
		logger:  l,
	}
}

func (s *service) MonthRequests(ctx context.Context, year, month int) ([]EntryResponse, error) {
	summary, err := s.MonthSummary(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return summary.Requests, nil
}

func (s *service) MonthSummary(ctx context.Context, year, month int) (MonthSummary, error) {
	m, err := NewMonth(year, month)
	if err != nil {
		return MonthSummary{}, err
	}
	cache := s.rdb
	var key string
	if cache != nil {
		version, err := s.monthVersion(ctx, m)
		if err != nil {
			s.logger.Warn("calendar cache version read failed", zap.String("month", m.String()), zap.Error(err))
			cache = nil
		} else {
			key = SummaryCacheKey(m, version)
		}
	}

	if cache != nil {
		if cached, err := cache.Get(ctx, key).Result(); err == nil {
			var summary MonthSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				s.metrics.CacheLookup(true)
				return summary, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("calendar cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.CacheLookup(false)
	}

	flight := key
	if flight == "" {
		flight = summaryKeyPrefix + m.String()
	}
	v, err, _ := s.sf.Do(flight, func() (interface{}, error) {
		entries, err := s.repo.FindApprovedInWindow(ctx, m.Start(), m.End())
		if err != nil {
			s.logger.Error("calendar month lookup failed", zap.String("month", m.String()), zap.Error(err))
			return nil, err
		}
		types, err := s.repo.ListLeaveTypes(ctx)
		if err != nil {
			s.logger.Error("calendar leave type lookup failed", zap.Error(err))
			return nil, err
		}

		summary := Summarize(m, entries, types)

		if cache != nil {
			if data, err := json.Marshal(summary); err == nil {
				if err := cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
					s.logger.Warn("cache calendar summary failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return MonthSummary{}, err
	}

	return v.(MonthSummary), nil
}

func (s *service) ExportMonthPDF(ctx context.Context, year, month int) ([]byte, error) {
	summary, err := s.MonthSummary(ctx, year, month)
	if err != nil {
		return nil, err
	}
	doc, err := renderMonthPDF(summary)
	if err != nil {
		s.logger.Error("calendar pdf render failed", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, err
	}
	return doc, nil
}

func (s *service) monthVersion(ctx context.Context, m Month) (int64, error) {
	raw, err := s.rdb.Get(ctx, VersionCacheKey(m)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *service) Invalidate(ctx context.Context, start, end time.Time) {
	if s.rdb == nil || end.Before(start) {
		return
	}

	last := MonthOf(end)
	for m := MonthOf(start); ; m = m.Next() {
		if err := s.rdb.Incr(ctx, VersionCacheKey(m)).Err(); err != nil {
			s.logger.Error("failed to invalidate calendar cache", zap.String("month", m.String()), zap.Error(err))
		}
		if m == last {
			break
		}
	}
}
