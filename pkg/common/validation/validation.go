// Package validation provides common validation utilities for the activeflow library.
package validation

import (
	"time"

	afErrors "github.com/vnykmshr/activeflow/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return afErrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that an integer value is non-negative (>= 0).
func ValidateNonNegative(module, field string, value int) error {
	if value < 0 {
		return afErrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidateTimeout validates a timeout setting. Zero disables the timeout.
func ValidateTimeout(module, field string, value time.Duration) error {
	if value < 0 {
		return afErrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 to disable the timeout")
	}
	return nil
}

// ValidateRange validates a half-open [start, end) range.
func ValidateRange(module, field string, start, end int) error {
	if start > end {
		return afErrors.NewValidationError(module, field, [2]int{start, end}, "start exceeds end").
			WithHint("ranges are half-open: [start, end)")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return afErrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return afErrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
