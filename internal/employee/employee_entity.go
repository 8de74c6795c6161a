package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee carries identity and department plus the denormalized
// current_salary snapshot. The snapshot mirrors the amount of the
// employee's current salary record and is written only by the salary
// service (and seeded at profile creation); readers must treat it as a
// cache, not as an authoritative value.
type Employee struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName     string
	LastName      string
	Department    string `gorm:"index"`
	CurrentSalary *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
