package salary

type CreateSalaryRequest struct {
	EmployeeID    string   `json:"employee_id" binding:"required"`
	Amount        *float64 `json:"amount"`
	EffectiveDate string   `json:"effective_date" binding:"required"`
	SalaryType    string   `json:"salary_type" binding:"required"`
	Reason        string   `json:"reason"`
}

type UpdateSalaryRequest struct {
	Amount        *float64 `json:"amount"`
	EffectiveDate string   `json:"effective_date" binding:"required"`
	SalaryType    string   `json:"salary_type" binding:"required"`
	Reason        string   `json:"reason"`
}

type SalaryIncrementRequest struct {
	EmployeeID          string   `json:"employee_id" binding:"required"`
	IncrementAmount     *float64 `json:"increment_amount"`
	IncrementPercentage *float64 `json:"increment_percentage"`
	EffectiveDate       string   `json:"effective_date" binding:"required"`
	Reason              string   `json:"reason"`
}

type SalaryResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	Department    string  `json:"department"`
	Amount        float64 `json:"amount"`
	EffectiveDate string  `json:"effective_date"`
	EndDate       *string `json:"end_date,omitempty"`
	SalaryType    string  `json:"salary_type"`
	Reason        string  `json:"reason,omitempty"`
	Current       bool    `json:"current"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	Message       string  `json:"message,omitempty"`
}

type SalaryDetail struct {
	SalaryID      string  `json:"salary_id"`
	Amount        float64 `json:"amount"`
	EffectiveDate string  `json:"effective_date"`
	EndDate       *string `json:"end_date,omitempty"`
	SalaryType    string  `json:"salary_type"`
	Reason        string  `json:"reason,omitempty"`
	Current       bool    `json:"current"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type SalaryHistoryResponse struct {
	EmployeeID    string         `json:"employee_id"`
	EmployeeName  string         `json:"employee_name"`
	Department    string         `json:"department"`
	CurrentSalary float64        `json:"current_salary"`
	SalaryHistory []SalaryDetail `json:"salary_history"`
}

type DepartmentStatsResponse struct {
	Department    string  `json:"department"`
	EmployeeCount int64   `json:"employee_count"`
	AverageSalary float64 `json:"average_salary"`
	MinSalary     float64 `json:"min_salary"`
	MaxSalary     float64 `json:"max_salary"`
	TotalSalary   float64 `json:"total_salary"`
}
