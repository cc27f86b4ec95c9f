package common

import (
	"errors"
	"net/http"
)

// Error codes. The HTTP layer maps these to status codes; nothing below the
// handler layer imports net/http for anything but the canonical status values.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeDuplicateVariant = "DUPLICATE_VARIANT"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeStockIntegrity   = "STOCK_INTEGRITY_FAULT"
	ErrCodeAuthorization    = "AUTHORIZATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// FieldError carries a field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the structured error propagated unmodified from usecases to the
// HTTP boundary.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"-"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code, message string, status int, fields []FieldError) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Fields:  fields,
	}
}

func NewValidationError(message string, fields ...FieldError) *Error {
	return NewError(ErrCodeValidation, message, http.StatusBadRequest, fields)
}

func NewDuplicateVariantError(message string) *Error {
	return NewError(ErrCodeDuplicateVariant, message, http.StatusConflict, nil)
}

func NewNotFoundError(message string) *Error {
	return NewError(ErrCodeNotFound, message, http.StatusNotFound, nil)
}

// NewStockIntegrityFault flags a derived stock below zero. Not recoverable by
// the caller; it points at a race or bug in the decrement path upstream.
func NewStockIntegrityFault(message string) *Error {
	return NewError(ErrCodeStockIntegrity, message, http.StatusInternalServerError, nil)
}

func NewAuthorizationError(message string) *Error {
	return NewError(ErrCodeAuthorization, message, http.StatusForbidden, nil)
}

// AsError unwraps err into *Error, wrapping unknown errors as internal so the
// HTTP layer always has a code and status to work with.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewError(ErrCodeInternal, "internal server error", http.StatusInternalServerError, nil)
}

func IsCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
