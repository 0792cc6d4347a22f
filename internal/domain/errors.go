package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")

	ErrCustomerRequired  = errors.New("invoice requires a customer")
	ErrEmptyItems        = errors.New("invoice requires at least one item")
	ErrStateRequired     = errors.New("supplier and customer state are required for GST")
	ErrInvalidQuantity   = errors.New("item quantity must be positive and rate non-negative")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidDate       = errors.New("date must be formatted as YYYY-MM-DD")
	ErrValidation        = errors.New("validation failed")
	ErrNoEmail           = errors.New("customer has no email address")
	ErrNoPhone           = errors.New("customer has no phone number")
	ErrInvalidImport     = errors.New("import file could not be parsed")
)
