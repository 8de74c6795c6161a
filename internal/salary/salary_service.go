package salary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-empms/internal/employee"
	"go-empms/internal/events"
	"go-empms/internal/messaging/kafka"
	salaryerrors "go-empms/internal/salary/errors"
	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	GetByID(ctx context.Context, id string) (SalaryResponse, error)
	GetAll(ctx context.Context) ([]SalaryResponse, error)
	GetAllCurrent(ctx context.Context) ([]SalaryResponse, error)
	GetCurrentByEmployee(ctx context.Context, employeeID string) (SalaryResponse, error)
	GetHistory(ctx context.Context, employeeID string) (SalaryHistoryResponse, error)
	GetByDepartment(ctx context.Context, department string) ([]SalaryResponse, error)
	GetInDateRange(ctx context.Context, startDate, endDate string) ([]SalaryResponse, error)
	GetByType(ctx context.Context, salaryType string) ([]SalaryResponse, error)
	ProcessIncrement(ctx context.Context, req SalaryIncrementRequest) (SalaryResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employees, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) Create(
	ctx context.Context,
	req CreateSalaryRequest,
) (SalaryResponse, error) {
	empl, err := s.findEmployee(ctx, req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, err
	}

	amount, err := resolveAmount(req.Amount, empl)
	if err != nil {
		return SalaryResponse{}, err
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return SalaryResponse{}, err
	}

	salaryType := SalaryType(req.SalaryType)
	if !salaryType.Valid() {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryType
	}

	return s.createRecord(ctx, empl, amount, effectiveDate, salaryType, req.Reason)
}

// createRecord is the supersession core shared by Create and
// ProcessIncrement: close every current record, insert the new current
// one, and sync the employee snapshot, all in one transaction.
func (s *service) createRecord(
	ctx context.Context,
	empl *employee.Employee,
	amount float64,
	effectiveDate time.Time,
	salaryType SalaryType,
	reason string,
) (SalaryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	previous, err := s.repo.FindAllCurrentByEmployee(ctx, empl.ID.String())
	if err != nil {
		s.logger.Error("create salary load current records failed", zap.Error(err))
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	etx := s.employees.WithTx(tx)
	now := time.Now().UTC()

	// Close-previous must commit before the new current record becomes
	// visible, hence both live in the same transaction. The loop closes
	// every current record, not just one, so a store corrupted with two
	// current rows heals on the next create.
	endDate := effectiveDate.AddDate(0, 0, -1)
	for i := range previous {
		prev := previous[i]
		prev.Current = false
		prev.EndDate = &endDate
		prev.UpdatedAt = now
		if err := qtx.Update(ctx, &prev); err != nil {
			s.logger.Error("close previous salary failed",
				zap.String("salary_id", prev.ID.String()),
				zap.Error(err),
			)
			return SalaryResponse{}, apperror.StoreUnavailable(err)
		}
	}

	rec := &SalaryRecord{
		ID:            uuid.New(),
		EmployeeID:    empl.ID,
		Amount:        amount,
		EffectiveDate: effectiveDate,
		EndDate:       nil,
		SalaryType:    salaryType,
		Reason:        reason,
		Current:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := qtx.Insert(ctx, rec); err != nil {
		s.logger.Error("create salary persist failed", zap.Error(err))
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}

	if err := etx.UpdateCurrentSalary(ctx, empl.ID.String(), &amount, now); err != nil {
		s.logger.Error("create salary snapshot sync failed", zap.Error(err))
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.SalaryCreated, rec); err != nil {
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create salary commit failed", zap.String("request_id", rid), zap.Error(err))
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}

	s.logger.Info("create salary success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("salary_id", rec.ID.String()),
		zap.Int("closed_records", len(previous)),
	)

	rec.EmployeeName = empl.FullName()
	rec.Department = empl.Department
	return mapToResponse(*rec, "Salary record created successfully"), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateSalaryRequest,
) (SalaryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return SalaryResponse{}, err
	}

	empl, err := s.findEmployee(ctx, rec.EmployeeID.String())
	if err != nil {
		return SalaryResponse{}, err
	}

	amount, err := resolveAmount(req.Amount, empl)
	if err != nil {
		return SalaryResponse{}, err
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return SalaryResponse{}, err
	}

	salaryType := SalaryType(req.SalaryType)
	if !salaryType.Valid() {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryType
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	etx := s.employees.WithTx(tx)
	now := time.Now().UTC()

	// In-place mutation: the record keeps its current flag and end date,
	// and no sibling is closed. Update is a correction, not a new version.
	rec.Amount = amount
	rec.EffectiveDate = effectiveDate
	rec.SalaryType = salaryType
	rec.Reason = req.Reason
	rec.UpdatedAt = now

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update salary persist failed", zap.Error(err))
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}

	if rec.Current {
		if err := etx.UpdateCurrentSalary(ctx, empl.ID.String(), &amount, now); err != nil {
			s.logger.Error("update salary snapshot sync failed", zap.Error(err))
			return SalaryResponse{}, apperror.StoreUnavailable(err)
		}
	}

	if err := s.enqueueEvent(ctx, tx, events.SalaryUpdated, rec); err != nil {
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}

	s.logger.Info("update salary success",
		zap.String("request_id", rid),
		zap.String("salary_id", rec.ID.String()),
		zap.Bool("current", rec.Current),
	)

	return mapToResponse(*rec, "Salary record updated successfully"), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryResponse, error) {
	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return SalaryResponse{}, err
	}
	return mapToResponse(*rec, "Salary record retrieved successfully"), nil
}

func (s *service) GetAll(ctx context.Context) ([]SalaryResponse, error) {
	recs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	if len(recs) == 0 {
		return nil, salaryerrors.ErrNoSalaryRecords
	}
	return mapToListResponse(recs), nil
}

func (s *service) GetAllCurrent(ctx context.Context) ([]SalaryResponse, error) {
	recs, err := s.repo.FindAllCurrent(ctx)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return mapToListResponse(recs), nil
}

func (s *service) GetCurrentByEmployee(ctx context.Context, employeeID string) (SalaryResponse, error) {
	rec, err := s.repo.FindCurrentByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryResponse{}, apperror.NotFoundf("No current salary found for employee id: %s", employeeID)
		}
		return SalaryResponse{}, apperror.StoreUnavailable(err)
	}
	return mapToResponse(*rec, ""), nil
}

// GetHistory reports a profile with zero salary records as missing
// history, not as an empty list.
func (s *service) GetHistory(ctx context.Context, employeeID string) (SalaryHistoryResponse, error) {
	empl, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return SalaryHistoryResponse{}, err
	}

	recs, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return SalaryHistoryResponse{}, apperror.StoreUnavailable(err)
	}
	if len(recs) == 0 {
		return SalaryHistoryResponse{}, apperror.NotFoundf("No salary history found for employee id: %s", employeeID)
	}

	details := make([]SalaryDetail, len(recs))
	for i, rec := range recs {
		details[i] = mapToDetail(rec)
	}

	currentSalary := 0.0
	if empl.CurrentSalary != nil {
		currentSalary = *empl.CurrentSalary
	}

	return SalaryHistoryResponse{
		EmployeeID:    empl.ID.String(),
		EmployeeName:  empl.FullName(),
		Department:    empl.Department,
		CurrentSalary: currentSalary,
		SalaryHistory: details,
	}, nil
}

func (s *service) GetByDepartment(ctx context.Context, department string) ([]SalaryResponse, error) {
	recs, err := s.repo.FindCurrentByDepartment(ctx, department)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return mapToListResponse(recs), nil
}

func (s *service) GetInDateRange(ctx context.Context, startDate, endDate string) ([]SalaryResponse, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}

	recs, err := s.repo.FindInDateRange(ctx, start, end)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return mapToListResponse(recs), nil
}

func (s *service) GetByType(ctx context.Context, salaryType string) ([]SalaryResponse, error) {
	t := SalaryType(salaryType)
	if !t.Valid() {
		return nil, salaryerrors.ErrInvalidSalaryType
	}

	recs, err := s.repo.FindByType(ctx, t)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return mapToListResponse(recs), nil
}

func (s *service) ProcessIncrement(
	ctx context.Context,
	req SalaryIncrementRequest,
) (SalaryResponse, error) {
	empl, err := s.findEmployee(ctx, req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, err
	}

	if empl.CurrentSalary == nil {
		return SalaryResponse{}, salaryerrors.ErrNoExistingSalary
	}
	currentSalary := *empl.CurrentSalary

	// Amount form wins when both are supplied.
	var increment float64
	switch {
	case req.IncrementAmount != nil:
		increment = *req.IncrementAmount
	case req.IncrementPercentage != nil:
		increment = currentSalary * (*req.IncrementPercentage / 100.0)
	default:
		return SalaryResponse{}, salaryerrors.ErrIncrementValueRequired
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return SalaryResponse{}, err
	}

	return s.createRecord(ctx, empl, currentSalary+increment, effectiveDate, TypeIncrement, req.Reason)
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	rec, err := s.findRecord(ctx, id)
	if err != nil {
		return err
	}

	var siblings []SalaryRecord
	if rec.Current {
		siblings, err = s.repo.FindByEmployee(ctx, rec.EmployeeID.String())
		if err != nil {
			return apperror.StoreUnavailable(err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.StoreUnavailable(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	etx := s.employees.WithTx(tx)
	now := time.Now().UTC()

	// Promotion happens before the delete so no committed state ever
	// shows the employee without a current record while siblings exist.
	// When the deleted record was the sole one, the snapshot is left
	// untouched: documented legacy behavior.
	promoted := false
	if rec.Current {
		for i := range siblings {
			sib := siblings[i]
			if sib.ID == rec.ID {
				continue
			}
			sib.Current = true
			sib.EndDate = nil
			sib.UpdatedAt = now
			if err := qtx.Update(ctx, &sib); err != nil {
				s.logger.Error("promote salary record failed",
					zap.String("salary_id", sib.ID.String()),
					zap.Error(err),
				)
				return apperror.StoreUnavailable(err)
			}
			if err := etx.UpdateCurrentSalary(ctx, rec.EmployeeID.String(), &sib.Amount, now); err != nil {
				return apperror.StoreUnavailable(err)
			}
			promoted = true
			break
		}
	}

	if err := qtx.Delete(ctx, rec.ID.String()); err != nil {
		s.logger.Error("delete salary persist failed", zap.Error(err))
		return apperror.StoreUnavailable(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.SalaryDeleted, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.StoreUnavailable(err)
	}

	s.logger.Info("delete salary success",
		zap.String("request_id", rid),
		zap.String("salary_id", rec.ID.String()),
		zap.Bool("was_current", rec.Current),
		zap.Bool("promoted_sibling", promoted),
	)
	return nil
}

func (s *service) findEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	empl, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("Employee not found with id: %s", id)
		}
		return nil, apperror.StoreUnavailable(err)
	}
	return empl, nil
}

func (s *service) findRecord(ctx context.Context, id string) (*SalaryRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("Salary record not found with id: %s", id)
		}
		return nil, apperror.StoreUnavailable(err)
	}
	return rec, nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, eventType string, rec *SalaryRecord) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.SalaryLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		SalaryID:   rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Amount:     rec.Amount,
		SalaryType: string(rec.SalaryType),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal salary event failed", zap.String("request_id", rid), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "salary",
		AggregateID:   rec.ID.String(),
		EventType:     eventType,
		Topic:         events.SalaryLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("salary outbox persist failed",
			zap.String("salary_id", rec.ID.String()),
			zap.Error(err),
		)
		return apperror.StoreUnavailable(err)
	}
	return nil
}

func resolveAmount(requested *float64, empl *employee.Employee) (float64, error) {
	if requested != nil {
		return *requested, nil
	}
	// Fall back on the employee snapshot when the caller omits the
	// amount; negative values pass through unvalidated.
	if empl.CurrentSalary != nil {
		return *empl.CurrentSalary, nil
	}
	return 0, salaryerrors.ErrNoSalaryAmount
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, salaryerrors.ErrInvalidDate
	}
	return d, nil
}

func mapToResponse(rec SalaryRecord, message string) SalaryResponse {
	return SalaryResponse{
		ID:            rec.ID.String(),
		EmployeeID:    rec.EmployeeID.String(),
		EmployeeName:  rec.EmployeeName,
		Department:    rec.Department,
		Amount:        rec.Amount,
		EffectiveDate: rec.EffectiveDate.Format(dateLayout),
		EndDate:       formatEndDate(rec.EndDate),
		SalaryType:    string(rec.SalaryType),
		Reason:        rec.Reason,
		Current:       rec.Current,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.Format(time.RFC3339),
		Message:       message,
	}
}

func mapToDetail(rec SalaryRecord) SalaryDetail {
	return SalaryDetail{
		SalaryID:      rec.ID.String(),
		Amount:        rec.Amount,
		EffectiveDate: rec.EffectiveDate.Format(dateLayout),
		EndDate:       formatEndDate(rec.EndDate),
		SalaryType:    string(rec.SalaryType),
		Reason:        rec.Reason,
		Current:       rec.Current,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(recs []SalaryRecord) []SalaryResponse {
	res := make([]SalaryResponse, len(recs))
	for i, rec := range recs {
		res[i] = mapToResponse(rec, "")
	}
	return res
}

func formatEndDate(endDate *time.Time) *string {
	if endDate == nil {
		return nil
	}
	formatted := endDate.Format(dateLayout)
	return &formatted
}
