package testutil

import (
	"errors"
	"math"
	"testing"

	apperrors "finpanel/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Fatalf("expected error code %q, got %q (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test immediately if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertFloatEquals compares floats with a small tolerance for accumulated
// rounding in aggregate queries.
func AssertFloatEquals(t *testing.T, expected, actual float64) {
	t.Helper()

	if math.Abs(expected-actual) > 1e-9 {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
