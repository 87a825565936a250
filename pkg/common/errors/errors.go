package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common error types used across the activeflow library

var (
	// ErrQueueClosed indicates that work was submitted to, or could no longer be
	// served by, a queue that has been shut down.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrTaskExecutionFailed indicates that a task's own logic returned an error
	// or panicked. The original cause is available through errors.Unwrap/As.
	ErrTaskExecutionFailed = errors.New("task execution failed")

	// ErrTaskTimeout indicates that a synchronous caller gave up waiting for
	// its result.
	ErrTaskTimeout = errors.New("task timed out")

	// ErrAggregationIncomplete indicates that at least one partition of an
	// aggregate run never reported a usable result.
	ErrAggregationIncomplete = errors.New("aggregation incomplete")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTaskTimeout) || errors.Is(err, ErrAggregationIncomplete)
}

// IsTemporary returns true if the error indicates a temporary condition.
// A closed queue never reopens, so ErrQueueClosed is permanent.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrTaskTimeout)
}

// ValidationError describes a rejected configuration or constructor argument.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ExecutionError wraps a fault raised by a task. It always matches
// ErrTaskExecutionFailed and, when the task returned an error, that error too.
type ExecutionError struct {
	TaskID uuid.UUID
	Cause  error

	// Panic holds the recovered value when the task panicked.
	Panic interface{}
	Stack []byte
}

// NewExecutionError wraps cause as the failure of task id.
func NewExecutionError(id uuid.UUID, cause error) *ExecutionError {
	return &ExecutionError{TaskID: id, Cause: cause}
}

// NewPanicError records a recovered panic as the failure of task id.
func NewPanicError(id uuid.UUID, recovered interface{}, stack []byte) *ExecutionError {
	return &ExecutionError{
		TaskID: id,
		Cause:  fmt.Errorf("task panicked: %v", recovered),
		Panic:  recovered,
		Stack:  stack,
	}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("task %s: %v: %v", e.TaskID, ErrTaskExecutionFailed, e.Cause)
}

func (e *ExecutionError) Unwrap() []error {
	return []error{ErrTaskExecutionFailed, e.Cause}
}

// Panicked reports whether the task panicked rather than returning an error.
func (e *ExecutionError) Panicked() bool {
	return e.Panic != nil
}

// Timeout wraps cause (usually a context error) so that it matches ErrTaskTimeout.
func Timeout(cause error) error {
	if cause == nil {
		return ErrTaskTimeout
	}
	return fmt.Errorf("%w: %w", ErrTaskTimeout, cause)
}

// Incomplete wraps cause so that it matches ErrAggregationIncomplete.
func Incomplete(pending int, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %d partition(s) outstanding", ErrAggregationIncomplete, pending)
	}
	return fmt.Errorf("%w: %d partition(s) outstanding: %w", ErrAggregationIncomplete, pending, cause)
}

// OperationError records which module operation failed and why.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
