// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// Domain sentinel errors. Services return these (possibly wrapped) and the
// handler layer maps them to HTTP statuses in one place.
var (
	// ErrNotFound indicates a referenced id is absent from the store.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock indicates a decrement would drive stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInsufficientPayment indicates the tendered amount is below the total.
	ErrInsufficientPayment = errors.New("insufficient payment")
	// ErrReferentialConflict indicates a delete is blocked by dependent rows.
	ErrReferentialConflict = errors.New("referential conflict")
	// ErrTierNotEligible indicates an explicitly selected discount tier does
	// not cover the customer's point balance.
	ErrTierNotEligible = errors.New("discount tier not eligible")
	// ErrInvalidState indicates a cart operation was attempted in the wrong
	// workflow state (e.g. adding a line before attaching a customer).
	ErrInvalidState = errors.New("invalid workflow state")
	// ErrDuplicate indicates a uniqueness violation (user name, supplier link).
	ErrDuplicate = errors.New("already exists")
)
