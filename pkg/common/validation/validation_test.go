package validation

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"positive value 1", 1, false},
		{"zero value", 0, true},
		{"negative value", -1, true},
		{"large negative", -1000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("workerpool", "workers", tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 3, false},
		{"zero value", 0, false},
		{"negative value", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("partition", "size", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateNonNegative(%d) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name      string
		value     time.Duration
		wantError bool
	}{
		{"disabled", 0, false},
		{"positive", time.Second, false},
		{"negative", -time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeout("activeobject", "call_timeout", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateTimeout(%v) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("partition", "range", 1, 12); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateRange("partition", "range", 5, 5); err != nil {
		t.Errorf("empty range should be valid, got %v", err)
	}

	err := ValidateRange("partition", "range", 7, 3)
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
	if !strings.Contains(err.Error(), "start exceeds end") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidateNotNil(t *testing.T) {
	if err := ValidateNotNil("halfsync", "task", struct{}{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateNotNil("halfsync", "task", nil); err == nil {
		t.Error("expected error for nil value")
	}
}

func TestValidateNotEmpty(t *testing.T) {
	if err := ValidateNotEmpty("scheduler", "id", "tick"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateNotEmpty("scheduler", "id", "")
	if err == nil {
		t.Fatal("expected error for empty string")
	}
	if !strings.Contains(err.Error(), "provide a non-empty id") {
		t.Errorf("error should carry hint, got %q", err.Error())
	}
}

func TestValidationErrorWrapping(t *testing.T) {
	errs := []error{
		ValidatePositive("test", "field", -1),
		ValidateNonNegative("test", "field", -1),
		ValidateTimeout("test", "field", -1),
		ValidateRange("test", "field", 2, 1),
		ValidateNotNil("test", "field", nil),
		ValidateNotEmpty("test", "field", ""),
	}

	for _, err := range errs {
		if !stderrors.Is(err, errors.ErrInvalidConfiguration) {
			t.Errorf("%v should wrap ErrInvalidConfiguration", err)
		}
	}
}
