package events

import "time"

const SalaryLifecycleTopic = "hr.salary.lifecycle.v1"

const (
	SalaryCreated = "salary_created"
	SalaryUpdated = "salary_updated"
	SalaryDeleted = "salary_deleted"
)

type SalaryLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	SalaryID   string    `json:"salary_id"`
	EmployeeID string    `json:"employee_id"`
	Amount     float64   `json:"amount"`
	SalaryType string    `json:"salary_type"`
	OccurredAt time.Time `json:"occurred_at"`
}
