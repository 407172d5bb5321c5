package errors

import (
	stdErrors "errors"
	"testing"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidPayload, ErrNotValidated, ErrPDFNotReady, ErrPDFDisabled}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && stdErrors.Is(a, b) {
				t.Fatalf("sentinel errors %v and %v must be distinct", a, b)
			}
		}
	}
}

func TestUnsupportedCurrencyErrorMessage(t *testing.T) {
	err := UnsupportedCurrencyError{Code: "XYZ"}
	if err.Error() != "unsupported currency: XYZ" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	var target UnsupportedCurrencyError
	if !stdErrors.As(error(err), &target) {
		t.Fatal("expected errors.As to match UnsupportedCurrencyError")
	}
	if target.Code != "XYZ" {
		t.Fatalf("unexpected code: %s", target.Code)
	}
}
