package salary

import (
	"time"

	"github.com/google/uuid"
)

type SalaryType string

const (
	TypeBaseSalary SalaryType = "BASE_SALARY"
	TypeIncrement  SalaryType = "INCREMENT"
	TypeAdjustment SalaryType = "ADJUSTMENT"
	TypeBonus      SalaryType = "BONUS"
	TypeDeduction  SalaryType = "DEDUCTION"
)

func (t SalaryType) Valid() bool {
	switch t {
	case TypeBaseSalary, TypeIncrement, TypeAdjustment, TypeBonus, TypeDeduction:
		return true
	}
	return false
}

// SalaryRecord is one versioned compensation entry. Per employee at most
// one record has is_current = true, and a current record always has a
// nil EndDate; historical records carry the day before their successor's
// effective date.
type SalaryRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index"`
	Amount        float64
	EffectiveDate time.Time
	EndDate       *time.Time
	SalaryType    SalaryType
	Reason        string
	Current       bool `gorm:"column:is_current"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by joined reads only, never written.
	EmployeeName string `gorm:"->"`
	Department   string `gorm:"->"`
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}

// DepartmentSalaryStats is one aggregate row over current records.
type DepartmentSalaryStats struct {
	Department    string
	EmployeeCount int64
	AverageSalary float64
	MinSalary     float64
	MaxSalary     float64
	TotalSalary   float64
}
