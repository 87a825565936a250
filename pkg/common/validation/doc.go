// Package validation provides common validation utilities for configuration
// parameters across the activeflow library.
//
// Every helper returns a *errors.ValidationError, so callers can test for
// errors.ErrInvalidConfiguration with errors.Is.
package validation
