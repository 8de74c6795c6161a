package employee

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-empms/internal/employee/errors"
	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("department", req.Department),
	)

	exists, err := s.repo.ExistsByName(ctx, req.FirstName, req.LastName, "")
	if err != nil {
		s.logger.Error("create employee duplicate check failed", zap.Error(err))
		return EmployeeResponse{}, apperror.StoreUnavailable(err)
	}
	if exists {
		return EmployeeResponse{}, employeeerrors.ErrDuplicateEmployee
	}

	now := time.Now().UTC()
	empl := &Employee{
		ID:            uuid.New(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Department:    req.Department,
		CurrentSalary: req.Salary,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		if mapped := mapRepositoryError(err); mapped != err {
			return EmployeeResponse{}, mapped
		}
		return EmployeeResponse{}, apperror.StoreUnavailable(err)
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	if len(empls) == 0 {
		return nil, employeeerrors.ErrNoEmployees
	}
	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, apperror.NotFoundf("Employee not found with id: %s", id)
		}
		return EmployeeResponse{}, apperror.StoreUnavailable(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, apperror.NotFoundf("Employee not found with id: %s", id)
		}
		return EmployeeResponse{}, apperror.StoreUnavailable(err)
	}

	exists, err := s.repo.ExistsByName(ctx, req.FirstName, req.LastName, id)
	if err != nil {
		return EmployeeResponse{}, apperror.StoreUnavailable(err)
	}
	if exists {
		return EmployeeResponse{}, employeeerrors.ErrDuplicateEmployee
	}

	// Profile edits never touch the current_salary snapshot; the salary
	// service owns that field.
	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.Department = req.Department
	empl.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		if mapped := mapRepositoryError(err); mapped != err {
			return EmployeeResponse{}, mapped
		}
		return EmployeeResponse{}, apperror.StoreUnavailable(err)
	}

	return mapToResponse(*empl), nil
}

// Delete removes the salary history first, then the employee row, inside
// one transaction. The two-step order replaces the cascade the schema
// does not declare.
func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("Employee not found with id: %s", id)
		}
		return apperror.StoreUnavailable(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return apperror.StoreUnavailable(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.DeleteSalaryRecords(ctx, id); err != nil {
		s.logger.Error("delete employee salary records failed", zap.Error(err))
		return apperror.StoreUnavailable(err)
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee persist failed", zap.Error(err))
		return apperror.StoreUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return apperror.StoreUnavailable(err)
	}

	s.logger.Info("delete employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            empl.ID.String(),
		FirstName:     empl.FirstName,
		LastName:      empl.LastName,
		Department:    empl.Department,
		CurrentSalary: empl.CurrentSalary,
		CreatedAt:     empl.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     empl.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, empl := range empls {
		res[i] = mapToResponse(empl)
	}
	return res
}
