/*
errors.go - Error types for the ROI engine

PURPOSE:
  All engine errors in one place. Callers match sentinels with errors.Is and
  pull details out of the structured types with errors.As.

ERROR CATEGORIES:
  1. Invalid parameter - an input outside its declared domain. No partial
     result is returned.
  2. Undefined ROI - inputs are individually valid but the total investment
     is zero. Every other projection field is still computed.

SEE ALSO:
  - projection.go: Validate and Compute return these errors
  - api/handlers.go: maps them to HTTP status codes
*/
package roi

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidParameter is returned when an input violates its domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUndefinedROI is returned when implementation cost plus five years of
	// maintenance is zero, making the ROI ratio undefined.
	ErrUndefinedROI = errors.New("roi undefined: total investment is zero")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidParameterError names the offending field and its value.
type InvalidParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%s: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// UndefinedROIError carries the cost inputs that produced a zero denominator.
type UndefinedROIError struct {
	ImplementationCost    decimal.Decimal
	AnnualMaintenanceCost decimal.Decimal
}

func (e *UndefinedROIError) Error() string {
	return fmt.Sprintf("roi undefined: implementation cost %s + %d × annual maintenance %s is zero",
		e.ImplementationCost, Horizon, e.AnnualMaintenanceCost)
}

func (e *UndefinedROIError) Unwrap() error {
	return ErrUndefinedROI
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to caller-supplied input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidParameter) || errors.Is(err, ErrUndefinedROI)
}
