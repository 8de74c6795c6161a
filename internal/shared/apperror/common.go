package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrStoreUnavailable = New(
		CodeStoreUnavailable,
		"The data store is unavailable",
		http.StatusServiceUnavailable,
	)
)

func RequiredField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

func InvalidField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}

// NotFoundf builds a NOT_FOUND error carrying the missing-id message.
func NotFoundf(format string, args ...any) *AppError {
	return New(
		CodeNotFound,
		fmt.Sprintf(format, args...),
		http.StatusNotFound,
	)
}

// StoreUnavailable wraps a store-level I/O failure so it is never
// silently swallowed or reported as a validation error.
func StoreUnavailable(err error) *AppError {
	return Wrap(err, CodeStoreUnavailable, "The data store is unavailable", http.StatusServiceUnavailable)
}
