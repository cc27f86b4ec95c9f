package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorConstructorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        *Error
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidationError("bad input"), ErrCodeValidation, http.StatusBadRequest},
		{"duplicate variant", NewDuplicateVariantError("triple taken"), ErrCodeDuplicateVariant, http.StatusConflict},
		{"not found", NewNotFoundError("no such product"), ErrCodeNotFound, http.StatusNotFound},
		{"stock integrity", NewStockIntegrityFault("negative sum"), ErrCodeStockIntegrity, http.StatusInternalServerError},
		{"authorization", NewAuthorizationError("operator required"), ErrCodeAuthorization, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.wantCode {
				t.Fatalf("Code = %q, want %q", tc.err.Code, tc.wantCode)
			}
			if tc.err.Status != tc.wantStatus {
				t.Fatalf("Status = %d, want %d", tc.err.Status, tc.wantStatus)
			}
			if !IsCode(tc.err, tc.wantCode) {
				t.Fatalf("IsCode(%q) = false", tc.wantCode)
			}
		})
	}
}

func TestAsErrorPassesStructuredErrorsThrough(t *testing.T) {
	orig := NewNotFoundError("gone")
	if got := AsError(orig); got != orig {
		t.Fatalf("structured error was rewrapped: %+v", got)
	}

	wrapped := fmt.Errorf("listing products: %w", NewValidationError("bad page"))
	if got := AsError(wrapped); got.Code != ErrCodeValidation {
		t.Fatalf("wrapped error lost its code: %+v", got)
	}
	if !IsCode(wrapped, ErrCodeValidation) {
		t.Fatal("IsCode should see through wrapping")
	}
}

func TestAsErrorMasksUnknownErrors(t *testing.T) {
	got := AsError(errors.New("pq: connection refused"))
	if got.Code != ErrCodeInternal || got.Status != http.StatusInternalServerError {
		t.Fatalf("unknown error not masked as internal: %+v", got)
	}
	if got.Message != "internal server error" {
		t.Fatalf("driver detail leaked to the client: %q", got.Message)
	}
}
