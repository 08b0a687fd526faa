package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Provider error codes the bootstrap path treats specially. Everything else
// is a generic store failure as far as callers are concerned.
const (
	CodePermissionDenied = "42501"
	CodeUndefinedTable   = "42P01"
	CodeUniqueViolation  = "23505"
	CodeNotFound         = "not_found"
	CodeNoRows           = "no_rows"
	CodeUnavailable      = "unavailable"
)

// StoreError is the normalized failure shape for every remote store
// operation: a machine-readable provider code plus a human message.
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s (code %s)", e.Message, e.Code)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// normalizeError wraps a provider failure into a StoreError, lifting the
// Postgres error code when one is present.
func normalizeError(op string, err error) *StoreError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{Code: pgErr.Code, Message: fmt.Sprintf("%s: %s", op, pgErr.Message), Err: err}
	}
	return &StoreError{Code: CodeUnavailable, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}

func notFoundError(op, id string) *StoreError {
	return &StoreError{Code: CodeNotFound, Message: fmt.Sprintf("%s: prompt %s not found", op, id)}
}
