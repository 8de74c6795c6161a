package salaryerrors

import (
	"net/http"

	"go-empms/internal/shared/apperror"
)

var (
	ErrNoSalaryAmount = apperror.New(
		apperror.CodeInvalidInput,
		"No valid salary amount provided",
		http.StatusBadRequest,
	)

	ErrNoExistingSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Employee has no existing salary",
		http.StatusBadRequest,
	)

	ErrIncrementValueRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Increment amount or percentage required",
		http.StatusBadRequest,
	)

	ErrInvalidSalaryType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown salary type",
		http.StatusBadRequest,
	)

	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrNoSalaryRecords = apperror.New(
		apperror.CodeNotFound,
		"No salary records found",
		http.StatusNotFound,
	)
)
