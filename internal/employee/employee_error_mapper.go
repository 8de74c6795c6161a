package employee

import (
	"errors"
	"strings"

	employeeerrors "go-empms/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_employees_name" {
			return employeeerrors.ErrDuplicateEmployee
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employees_name") {
		return employeeerrors.ErrDuplicateEmployee
	}

	return err
}
