package domain

import "errors"

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("expense_type_not_found")
	ErrInvalidTaxRate   = errors.New("invalid_tax_rate")
	ErrDuplicateName    = errors.New("expense_type_exists")
	ErrExpenseTypeInUse = errors.New("expense_type_in_use")
)
