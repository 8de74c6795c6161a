package employeeerrors

import (
	"net/http"

	"go-empms/internal/shared/apperror"
)

var (
	ErrDuplicateEmployee = apperror.New(
		apperror.CodeConflict,
		"Employee with the same name already exists",
		http.StatusConflict,
	)

	ErrNoEmployees = apperror.New(
		apperror.CodeNotFound,
		"No employees found",
		http.StatusNotFound,
	)
)
