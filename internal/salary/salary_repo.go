package salary

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

const joinedColumns = `
salary_records.*,
employees.first_name || ' ' || employees.last_name AS employee_name,
employees.department AS department
`

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*SalaryRecord, error)
	FindAll(ctx context.Context) ([]SalaryRecord, error)
	FindAllCurrent(ctx context.Context) ([]SalaryRecord, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
	FindCurrentByEmployee(ctx context.Context, employeeID string) (*SalaryRecord, error)
	FindAllCurrentByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
	FindCurrentByDepartment(ctx context.Context, department string) ([]SalaryRecord, error)
	FindInDateRange(ctx context.Context, start, end time.Time) ([]SalaryRecord, error)
	FindByType(ctx context.Context, salaryType SalaryType) ([]SalaryRecord, error)
	DepartmentStatistics(ctx context.Context) ([]DepartmentSalaryStats, error)
	TotalCurrentAmount(ctx context.Context) (float64, error)
	Insert(ctx context.Context, rec *SalaryRecord) error
	Update(ctx context.Context, rec *SalaryRecord) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("salary_records").
		Select(joinedColumns).
		Joins("JOIN employees ON employees.id = salary_records.employee_id")
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Order("salary_records.effective_date DESC, salary_records.created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindAllCurrent(ctx context.Context) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.is_current = ?", true).
		Order("employees.last_name ASC, employees.first_name ASC").
		Find(&recs).Error
	return recs, err
}

// FindByEmployee returns the full history, newest effective date first.
func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.employee_id = ?", employeeID).
		Order("salary_records.effective_date DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindCurrentByEmployee(ctx context.Context, employeeID string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.employee_id = ?", employeeID).
		Where("salary_records.is_current = ?", true).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindAllCurrentByEmployee exists for the defensive close-all path in the
// service: a corrupted store may hold more than one current record and
// every one of them must be closed when a new record supersedes them.
func (r *repository) FindAllCurrentByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.employee_id = ?", employeeID).
		Where("salary_records.is_current = ?", true).
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindCurrentByDepartment(ctx context.Context, department string) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Where("employees.department = ?", department).
		Where("salary_records.is_current = ?", true).
		Order("employees.last_name ASC, employees.first_name ASC").
		Find(&recs).Error
	return recs, err
}

// FindInDateRange matches on effective_date, both bounds inclusive.
func (r *repository) FindInDateRange(ctx context.Context, start, end time.Time) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.effective_date BETWEEN ? AND ?", start, end).
		Order("salary_records.effective_date DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindByType(ctx context.Context, salaryType SalaryType) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.joined(ctx).
		Where("salary_records.salary_type = ?", salaryType).
		Where("salary_records.is_current = ?", true).
		Find(&recs).Error
	return recs, err
}

func (r *repository) DepartmentStatistics(ctx context.Context) ([]DepartmentSalaryStats, error) {
	var stats []DepartmentSalaryStats
	query := `
SELECT
	employees.department AS department,
	COUNT(DISTINCT salary_records.employee_id) AS employee_count,
	AVG(salary_records.amount) AS average_salary,
	MIN(salary_records.amount) AS min_salary,
	MAX(salary_records.amount) AS max_salary,
	SUM(salary_records.amount) AS total_salary
FROM salary_records
JOIN employees ON employees.id = salary_records.employee_id
WHERE salary_records.is_current = true
GROUP BY employees.department
ORDER BY employees.department ASC
`
	err := r.db.WithContext(ctx).Raw(query).Scan(&stats).Error
	return stats, err
}

func (r *repository) TotalCurrentAmount(ctx context.Context) (float64, error) {
	var total float64
	query := `
SELECT COALESCE(SUM(amount), 0)
FROM salary_records
WHERE is_current = true
`
	err := r.db.WithContext(ctx).Raw(query).Scan(&total).Error
	return total, err
}

func (r *repository) Insert(ctx context.Context, rec *SalaryRecord) error {
	query := `
INSERT INTO salary_records (
	id, employee_id, amount, effective_date, end_date,
	salary_type, reason, is_current, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	return r.exec(ctx, query,
		rec.ID, rec.EmployeeID, rec.Amount, rec.EffectiveDate, rec.EndDate,
		rec.SalaryType, rec.Reason, rec.Current, rec.CreatedAt, rec.UpdatedAt,
	)
}

func (r *repository) Update(ctx context.Context, rec *SalaryRecord) error {
	query := `
UPDATE salary_records
SET
	amount = $2,
	effective_date = $3,
	end_date = $4,
	salary_type = $5,
	reason = $6,
	is_current = $7,
	updated_at = $8
WHERE id = $1
`
	return r.exec(ctx, query,
		rec.ID, rec.Amount, rec.EffectiveDate, rec.EndDate,
		rec.SalaryType, rec.Reason, rec.Current, rec.UpdatedAt,
	)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM salary_records WHERE id = $1`, id)
}

// exec routes writes through the attached transaction when one exists,
// so a multi-record mutation commits or rolls back as one unit.
func (r *repository) exec(ctx context.Context, query string, args ...any) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, args...)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, args...).Error
}
