package stats

import (
	"context"
	"encoding/json"
	"time"

	"go-empms/internal/salary"
	"go-empms/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	departmentStatsKey = "stats:departments"
	departmentStatsTTL = 60 * time.Second
)

//go:generate mockgen -source=stats_service.go -destination=mock/stats_service_mock.go -package=mock
type Service interface {
	DepartmentStatistics(ctx context.Context) ([]salary.DepartmentStatsResponse, error)
	TotalExpenditure(ctx context.Context) (float64, error)
}

// service reads current salary records only; it trusts the one-current
// invariant maintained by the salary service and never mutates anything.
type service struct {
	repo   salary.Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo salary.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("stats.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stats.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) DepartmentStatistics(ctx context.Context) ([]salary.DepartmentStatsResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, departmentStatsKey).Result()
		if err == nil {
			var resp []salary.DepartmentStatsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
			s.logger.Warn("department stats cache decode failed, refetching", zap.Error(err))
		} else if err != redis.Nil {
			s.logger.Warn("department stats cache read failed", zap.Error(err))
		}
	}

	// singleflight collapses concurrent cache misses into one aggregate
	// query.
	v, err, _ := s.sf.Do(departmentStatsKey, func() (any, error) {
		rows, err := s.repo.DepartmentStatistics(ctx)
		if err != nil {
			return nil, apperror.StoreUnavailable(err)
		}

		resp := make([]salary.DepartmentStatsResponse, len(rows))
		for i, row := range rows {
			resp[i] = salary.DepartmentStatsResponse{
				Department:    row.Department,
				EmployeeCount: row.EmployeeCount,
				AverageSalary: row.AverageSalary,
				MinSalary:     row.MinSalary,
				MaxSalary:     row.MaxSalary,
				TotalSalary:   row.TotalSalary,
			}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, departmentStatsKey, payload, departmentStatsTTL).Err(); err != nil {
					s.logger.Warn("department stats cache write failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]salary.DepartmentStatsResponse), nil
}

// TotalExpenditure never fails on an empty store: the aggregate reports 0.
func (s *service) TotalExpenditure(ctx context.Context) (float64, error) {
	total, err := s.repo.TotalCurrentAmount(ctx)
	if err != nil {
		return 0, apperror.StoreUnavailable(err)
	}
	return total, nil
}
