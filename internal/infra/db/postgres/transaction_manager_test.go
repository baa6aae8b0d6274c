//go:build !integration

package postgres

import (
	"errors"
	"fmt"
	"testing"

	"poster-commerce/internal/domain"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

func TestGetExecutor(t *testing.T) {
	if _, err := getExecutor(nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("nil pool and tx: want ErrInvalidArgument, got %v", err)
	}
	if _, err := getExecutor(nil, "not a tx"); !errors.Is(err, domain.ErrInvalidExecContext) {
		t.Fatalf("foreign tx: want ErrInvalidExecContext, got %v", err)
	}
	if err := pickRow(nil, nil, 42, "SELECT 1").Scan(); !errors.Is(err, domain.ErrInvalidExecContext) {
		t.Fatalf("pickRow should surface executor errors, got %v", err)
	}
}

func TestForUpdateOnlyInsideTransactions(t *testing.T) {
	if forUpdate(nil) != "" {
		t.Fatal("pool reads must not lock")
	}
}

func TestMapErr(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, domain.ErrAlreadyExists},
		{"check", &pgconn.PgError{Code: "23514", Message: "orders_one_item"}, domain.ErrInvalidArgument},
		{"check hidden from clients", &pgconn.PgError{Code: "23514", Message: "orders_one_item"}, domain.ErrConstraint},
		{"integer out of range", &pgconn.PgError{Code: "22003", Message: "integer out of range"}, domain.ErrInvalidArgument},
		{"wrapped unique", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), domain.ErrAlreadyExists},
		{"other", errors.New("conn reset"), domain.ErrOperationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapErr("op", tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("mapErr(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
	if mapErr("op", nil) != nil {
		t.Fatal("nil must map to nil")
	}
}
