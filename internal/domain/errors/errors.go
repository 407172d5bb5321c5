package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrNotValidated   = errors.New("invoice not validated")
	ErrPDFNotReady    = errors.New("pdf not generated")
	ErrPDFDisabled    = errors.New("pdf generation disabled")
)

// UnsupportedCurrencyError is a hard conversion failure: an amount in an
// unrecognized currency cannot be trusted downstream.
type UnsupportedCurrencyError struct {
	Code string
}

func (e UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s", e.Code)
}
