package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/tradeledger/internal/tax/calc"
)

// Error kinds. Structured errors below unwrap to one of these, so callers
// can branch with errors.Is and read details with errors.As.
var (
	ErrValidation = errors.New("validation_error")
	ErrNotFound   = errors.New("not_found")
	ErrConflict   = errors.New("version_conflict")
	ErrStorage    = errors.New("storage_failure")

	// Validation sub-kinds. Each also matches ErrValidation.
	ErrNoExpenseLines = errors.New("no_expense_lines")
	ErrMissingField   = errors.New("missing_field")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidTaxRate = errors.New("invalid_tax_rate")
)

const (
	MsgUpdateViaCreate    = "Update not implemented via create path"
	MsgLastLine           = "invoice must retain at least one line"
	MsgDuplicateInvoiceNo = "invoice number already exists for service provider"
)

// ValidationError reports caller input that violates a documented rule.
// Kind is nil for a plain validation message.
type ValidationError struct {
	Kind      error
	Message   string
	Field     string
	LineIndex int
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Kind}
}

func Validation(message string) error {
	return &ValidationError{Message: message, LineIndex: -1}
}

func NoExpenseLines() error {
	return &ValidationError{Kind: ErrNoExpenseLines, Message: "invoice has no expense lines", LineIndex: -1}
}

func MissingField(name string) error {
	return &ValidationError{
		Kind:      ErrMissingField,
		Message:   fmt.Sprintf("missing required field %s", name),
		Field:     name,
		LineIndex: -1,
	}
}

func InvalidAmount(lineIndex int) error {
	return &ValidationError{
		Kind:      ErrInvalidAmount,
		Message:   fmt.Sprintf("line %d: amount_paise must be greater than zero and at most %d", lineIndex, calc.MaxAmountPaise),
		Field:     "amount_paise",
		LineIndex: lineIndex,
	}
}

// CombinedAmountOutOfRange reports a merge whose summed base would exceed
// the per-line maximum.
func CombinedAmountOutOfRange(expenseTypeID fmt.Stringer) error {
	return &ValidationError{
		Kind:      ErrInvalidAmount,
		Message:   fmt.Sprintf("combined amount for expense type %s exceeds %d paise", expenseTypeID, calc.MaxAmountPaise),
		Field:     "amount_paise",
		LineIndex: -1,
	}
}

// TotalsOutOfRange reports invoice totals that no longer fit in int64 paise.
func TotalsOutOfRange() error {
	return &ValidationError{
		Kind:      ErrInvalidAmount,
		Message:   "invoice totals exceed the supported amount range",
		Field:     "amount_paise",
		LineIndex: -1,
	}
}

func InvalidTaxRate(lineIndex int, field string) error {
	return &ValidationError{
		Kind:      ErrInvalidTaxRate,
		Message:   fmt.Sprintf("line %d: %s must be between 0 and 10000 basis points", lineIndex, field),
		Field:     field,
		LineIndex: lineIndex,
	}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError is an optimistic-lock mismatch. The caller re-fetches and
// retries.
type ConflictError struct {
	Expected int64
	Actual   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict: expected %d, actual %d", e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// StorageError wraps a store failure. The transaction it occurred in has
// been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// Storage wraps err as a StorageError unless it already carries a kind.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrStorage) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
