package validation

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "text", Message: "is required"}}, "validation error for field 'text': is required"},
		{"Multiple errors", []FieldError{
			{Field: "text", Message: "is required"},
			{Field: "day", Message: "out of range"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()

			if !strings.Contains(result, tt.expectError) {
				t.Errorf("ValidationError.Error() = %v, expected to contain %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_AddHelpers(t *testing.T) {
	ve := NewValidationError()
	if ve.HasErrors() {
		t.Fatalf("new ValidationError should have no errors")
	}

	ve.AddRequiredError("text")
	ve.AddInvalidFormatError("day", "x", "integer")
	ve.AddInvalidRangeError("day", 40, MinDay, MaxDay)
	ve.AddInvalidLengthError("text", "long", 3)

	if len(ve.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d", len(ve.Errors))
	}
	if got := len(ve.GetFieldErrors("day")); got != 2 {
		t.Errorf("expected 2 day errors, got %d", got)
	}
	if ve.Errors[2].Message != "day must be a number from 1 to 31" {
		t.Errorf("unexpected range message %q", ve.Errors[2].Message)
	}
	if ve.HasFieldError("id") {
		t.Errorf("HasFieldError should be false for untouched fields")
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	empty := NewValidationError()
	if got := empty.GetUserFriendlyMessage(); got != "Input validation failed" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}

	single := NewValidationError()
	single.AddRequiredError("text")
	if got := single.GetUserFriendlyMessage(); got != "text is required" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}

	multi := NewValidationError()
	multi.AddRequiredError("text")
	multi.AddRequiredError("day")
	got := multi.GetUserFriendlyMessage()
	if !strings.Contains(got, "- text is required") || !strings.Contains(got, "- day is required") {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}
}

func TestAsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("text")
	wrapped := fmt.Errorf("add task: %w", ve)

	got, ok := AsValidationError(wrapped)
	if !ok || got != ve {
		t.Errorf("AsValidationError should unwrap to the original error")
	}
	if IsValidationError(fmt.Errorf("plain")) {
		t.Errorf("IsValidationError should be false for plain errors")
	}

	merged := NewValidationError()
	merged.Merge(wrapped)
	merged.Merge(nil)
	if len(merged.Errors) != 1 {
		t.Errorf("Merge should copy field errors, got %d", len(merged.Errors))
	}
}
