package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrCode classifies store failures so callers can route on them without
// matching message text. Capability-absent codes (UNDEFINED_COLUMN,
// UNDEFINED_TABLE, UNDEFINED_FUNCTION) are expected during live schema
// migration and are never treated as hard failures by this subsystem.
type ErrCode string

const (
	ErrCodeUndefinedColumn   ErrCode = "UNDEFINED_COLUMN"
	ErrCodeUndefinedTable    ErrCode = "UNDEFINED_TABLE"
	ErrCodeUndefinedFunction ErrCode = "UNDEFINED_FUNCTION"
	ErrCodeUniqueViolation   ErrCode = "UNIQUE_VIOLATION"
	ErrCodeForeignKeyBlock   ErrCode = "FOREIGN_KEY_VIOLATION"
	ErrCodeQueryFailed       ErrCode = "QUERY_FAILED"
)

type StoreError struct {
	Code    ErrCode
	Table   string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s on %s: %s", e.Code, e.Table, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the machine code from a store error, or QUERY_FAILED for
// anything else.
func CodeOf(err error) ErrCode {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeQueryFailed
}

// IsCapabilityAbsent reports whether the error means the schema element the
// query touched does not exist in the current schema generation.
func IsCapabilityAbsent(err error) bool {
	switch CodeOf(err) {
	case ErrCodeUndefinedColumn, ErrCodeUndefinedTable, ErrCodeUndefinedFunction:
		return true
	}
	return false
}

// wrapPQ maps lib/pq SQLSTATE classes onto store error codes.
func wrapPQ(table string, err error) error {
	if err == nil {
		return nil
	}

	code := ErrCodeQueryFailed
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42703": // undefined_column
			code = ErrCodeUndefinedColumn
		case "42P01": // undefined_table
			code = ErrCodeUndefinedTable
		case "42883": // undefined_function
			code = ErrCodeUndefinedFunction
		case "23505": // unique_violation
			code = ErrCodeUniqueViolation
		case "23503": // foreign_key_violation
			code = ErrCodeForeignKeyBlock
		}
	}

	return &StoreError{
		Code:    code,
		Table:   table,
		Message: err.Error(),
		Err:     err,
	}
}
