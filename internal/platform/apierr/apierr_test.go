package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestStatusOf(t *testing.T) {
	if got := StatusOf(nil); got != http.StatusOK {
		t.Fatalf("nil: want 200 got %d", got)
	}
	if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("plain: want 500 got %d", got)
	}
	wrapped := fmt.Errorf("outer: %w", Forbidden("forbidden", nil))
	if got := StatusOf(wrapped); got != http.StatusForbidden {
		t.Fatalf("wrapped: want 403 got %d", got)
	}
}

func TestFromStore(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, "store_unavailable"},
		{"fk violation", &pgconn.PgError{Code: "23503"}, http.StatusConflict, "conflict"},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, http.StatusServiceUnavailable, "store_busy"},
		{"generic", errors.New("connection reset"), http.StatusInternalServerError, "data_access_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromStore("data_access_error", "load blocks", tc.err)
			if got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("want %d/%s got %d/%s", tc.status, tc.code, got.Status, got.Code)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("expected wrapped error to unwrap to original")
			}
		})
	}
	if FromStore("x", "op", nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}
