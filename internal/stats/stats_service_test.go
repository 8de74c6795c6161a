package stats_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-empms/internal/salary"
	"go-empms/internal/stats"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSalaryRepository struct {
	departmentStatisticsFn func(ctx context.Context) ([]salary.DepartmentSalaryStats, error)
	totalCurrentAmountFn   func(ctx context.Context) (float64, error)
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository { return f }

func (f *fakeSalaryRepository) FindByID(ctx context.Context, id string) (*salary.SalaryRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindAll(ctx context.Context) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindAllCurrent(ctx context.Context) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindByEmployee(ctx context.Context, employeeID string) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindCurrentByEmployee(ctx context.Context, employeeID string) (*salary.SalaryRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindAllCurrentByEmployee(ctx context.Context, employeeID string) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindCurrentByDepartment(ctx context.Context, department string) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindInDateRange(ctx context.Context, start, end time.Time) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindByType(ctx context.Context, salaryType salary.SalaryType) ([]salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) DepartmentStatistics(ctx context.Context) ([]salary.DepartmentSalaryStats, error) {
	if f.departmentStatisticsFn != nil {
		return f.departmentStatisticsFn(ctx)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) TotalCurrentAmount(ctx context.Context) (float64, error) {
	if f.totalCurrentAmountFn != nil {
		return f.totalCurrentAmountFn(ctx)
	}
	return 0, nil
}

func (f *fakeSalaryRepository) Insert(ctx context.Context, rec *salary.SalaryRecord) error { return nil }

func (f *fakeSalaryRepository) Update(ctx context.Context, rec *salary.SalaryRecord) error { return nil }

func (f *fakeSalaryRepository) Delete(ctx context.Context, id string) error { return nil }

func TestStatsService_DepartmentStatistics(t *testing.T) {
	ctx := context.Background()

	rows := []salary.DepartmentSalaryStats{
		{Department: "Engineering", EmployeeCount: 2, AverageSalary: 55000, MinSalary: 50000, MaxSalary: 60000, TotalSalary: 110000},
		{Department: "Finance", EmployeeCount: 1, AverageSalary: 48000, MinSalary: 48000, MaxSalary: 48000, TotalSalary: 48000},
	}
	expected := []salary.DepartmentStatsResponse{
		{Department: "Engineering", EmployeeCount: 2, AverageSalary: 55000, MinSalary: 50000, MaxSalary: 60000, TotalSalary: 110000},
		{Department: "Finance", EmployeeCount: 1, AverageSalary: 48000, MinSalary: 48000, MaxSalary: 48000, TotalSalary: 48000},
	}

	t.Run("cache miss queries the store and fills the cache", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer rdb.Close()

		var queries int
		repo := &fakeSalaryRepository{
			departmentStatisticsFn: func(ctx context.Context) ([]salary.DepartmentSalaryStats, error) {
				queries++
				return rows, nil
			},
		}

		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		mock.ExpectGet("stats:departments").RedisNil()
		mock.ExpectSet("stats:departments", payload, 60*time.Second).SetVal("OK")

		svc := stats.NewService(repo, rdb)
		resp, err := svc.DepartmentStatistics(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.Equal(t, 1, queries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit never touches the store", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer rdb.Close()

		repo := &fakeSalaryRepository{
			departmentStatisticsFn: func(ctx context.Context) ([]salary.DepartmentSalaryStats, error) {
				t.Fatal("store must not be queried on a cache hit")
				return nil, nil
			},
		}

		payload, err := json.Marshal(expected)
		assert.NoError(t, err)
		mock.ExpectGet("stats:departments").SetVal(string(payload))

		svc := stats.NewService(repo, rdb)
		resp, err := svc.DepartmentStatistics(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("works without a cache client", func(t *testing.T) {
		repo := &fakeSalaryRepository{
			departmentStatisticsFn: func(ctx context.Context) ([]salary.DepartmentSalaryStats, error) {
				return rows, nil
			},
		}

		svc := stats.NewService(repo, nil)
		resp, err := svc.DepartmentStatistics(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
	})

	t.Run("store failures surface as unavailable", func(t *testing.T) {
		repo := &fakeSalaryRepository{
			departmentStatisticsFn: func(ctx context.Context) ([]salary.DepartmentSalaryStats, error) {
				return nil, errors.New("connection refused")
			},
		}

		svc := stats.NewService(repo, nil)
		_, err := svc.DepartmentStatistics(ctx)

		assert.Error(t, err)
	})
}

func TestStatsService_TotalExpenditure(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store reports zero instead of failing", func(t *testing.T) {
		svc := stats.NewService(&fakeSalaryRepository{}, nil)

		total, err := svc.TotalExpenditure(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, total)
	})

	t.Run("sums current records only", func(t *testing.T) {
		repo := &fakeSalaryRepository{
			totalCurrentAmountFn: func(ctx context.Context) (float64, error) {
				return 158000, nil
			},
		}
		svc := stats.NewService(repo, nil)

		total, err := svc.TotalExpenditure(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 158000.0, total)
	})
}
