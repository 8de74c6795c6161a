package employee

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	ExistsByName(ctx context.Context, firstName, lastName, excludeID string) (bool, error)
	Update(ctx context.Context, empl *Employee) error
	UpdateCurrentSalary(ctx context.Context, employeeID string, amount *float64, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteSalaryRecords(ctx context.Context, employeeID string) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) ExistsByName(ctx context.Context, firstName, lastName, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("first_name = ? AND last_name = ?", firstName, lastName)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

// UpdateCurrentSalary writes the denormalized snapshot. It goes through
// the transaction when one is attached so the snapshot commits together
// with the salary record mutations that justify it.
func (r *repository) UpdateCurrentSalary(ctx context.Context, employeeID string, amount *float64, updatedAt time.Time) error {
	query := `
UPDATE employees
SET current_salary = $2, updated_at = $3
WHERE id = $1
`
	return r.exec(ctx, query, employeeID, amount, updatedAt)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
}

// DeleteSalaryRecords removes all salary history for an employee. Kept
// here so profile deletion is an explicit two-step (children first, then
// the employee row) inside one transaction instead of a cascade.
func (r *repository) DeleteSalaryRecords(ctx context.Context, employeeID string) error {
	return r.exec(ctx, `DELETE FROM salary_records WHERE employee_id = $1`, employeeID)
}

func (r *repository) exec(ctx context.Context, query string, args ...any) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, args...)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, args...).Error
}
