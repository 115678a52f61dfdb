// Package httperr maps ledger errors and request parsing failures onto Huma
// status errors.
package httperr

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/operator"
)

// Status returns the HTTP status for a ledger error.
func Status(err error) int {
	switch {
	case errors.Is(err, ledgererr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledgererr.ErrNotFound) && errors.Is(err, ledgererr.ErrConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledgererr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledgererr.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, ledgererr.ErrConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledgererr.ErrConflict),
		errors.Is(err, operator.ErrStopped),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// From wraps err in a Huma error. Client errors carry the ledger message;
// server errors use msg alone.
func From(msg string, err error) error {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		return huma.NewError(status, msg, err)
	}
	return huma.NewError(status, err.Error())
}

// Decimal parses a required decimal field.
func Decimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return d, nil
}

// OptionalDecimal parses a decimal field that may be empty.
func OptionalDecimal(field, value string) (*decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := Decimal(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// OptionalString turns an empty string into nil.
func OptionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
