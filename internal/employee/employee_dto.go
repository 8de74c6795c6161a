package employee

type CreateEmployeeRequest struct {
	FirstName  string   `json:"first_name" binding:"required"`
	LastName   string   `json:"last_name" binding:"required"`
	Department string   `json:"department" binding:"required"`
	Salary     *float64 `json:"salary"`
}

type UpdateEmployeeRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Department string `json:"department" binding:"required"`
}

type EmployeeResponse struct {
	ID            string   `json:"id"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Department    string   `json:"department"`
	CurrentSalary *float64 `json:"current_salary,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}
