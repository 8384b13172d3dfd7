package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FromStore maps a data-store failure for op into an API error. Callers pass the
// code they want surfaced for generic failures (e.g. "data_access_error").
func FromStore(code string, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	wrapped := fmt.Errorf("%s: %w", op, err)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(http.StatusNotFound, "not_found", wrapped)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return New(http.StatusServiceUnavailable, "store_unavailable", wrapped)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505", "23503":
			// unique_violation, foreign_key_violation
			return New(http.StatusConflict, "conflict", wrapped)
		case "40001", "40P01", "55P03":
			// serialization, deadlock, lock_not_available
			return New(http.StatusServiceUnavailable, "store_busy", wrapped)
		}
	}
	return New(http.StatusInternalServerError, code, wrapped)
}
