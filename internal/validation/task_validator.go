package validation

import (
	"checklist/internal/config"
)

const (
	// MinDay and MaxDay bound the day-of-month tag of a task.
	MinDay = 1
	MaxDay = 31

	FieldDay  = "day"
	FieldText = "text"
)

// TaskValidator validates user input for new tasks
type TaskValidator struct {
	validator     *Validator
	maxTextLength int
}

// NewTaskValidator creates a task validator with no text length limit
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	tv := NewTaskValidator()
	if cfg != nil {
		tv.maxTextLength = cfg.Tasks.TextMaxLength
	}
	return tv
}

// ValidateDay parses raw as a day of the month in [1, 31].
// On failure no day value is returned and the caller should clear its pending input.
func (tv *TaskValidator) ValidateDay(raw string) (int, error) {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(raw) {
		validationError.AddError(FieldDay, ErrorTypeRequired, "please enter a day from 1 to 31", raw)
		return 0, validationError
	}

	day, ok := tv.validator.ParseInteger(raw)
	if !ok {
		validationError.AddError(FieldDay, ErrorTypeInvalidFormat, "please enter a number from 1 to 31", raw)
		return 0, validationError
	}

	if !tv.validator.IsInRange(day, MinDay, MaxDay) {
		validationError.AddError(FieldDay, ErrorTypeInvalidRange, "please enter a number from 1 to 31", raw)
		return 0, validationError
	}

	return day, nil
}

// ValidateText trims raw and rejects it when nothing is left
func (tv *TaskValidator) ValidateText(raw string) (string, error) {
	validationError := NewValidationError()

	text := tv.validator.TrimAndValidateString(raw)
	if text == "" {
		validationError.AddError(FieldText, ErrorTypeRequired, "please enter a valid task", raw)
		return "", validationError
	}

	if !tv.validator.IsWithinMaxLength(text, tv.maxTextLength) {
		validationError.AddInvalidLengthError(FieldText, text, tv.maxTextLength)
		return "", validationError
	}

	return text, nil
}

// ValidateNewTask runs both validators and reports every failing field at once
func (tv *TaskValidator) ValidateNewTask(rawText, rawDay string) (string, int, error) {
	validationError := NewValidationError()

	text, textErr := tv.ValidateText(rawText)
	validationError.Merge(textErr)

	day, dayErr := tv.ValidateDay(rawDay)
	validationError.Merge(dayErr)

	if validationError.HasErrors() {
		return "", 0, validationError
	}
	return text, day, nil
}

var defaultTaskValidator = NewTaskValidator()

// ValidateDay validates a day of the month with the default rules
func ValidateDay(raw string) (int, error) {
	return defaultTaskValidator.ValidateDay(raw)
}

// ValidateText validates task text with the default rules
func ValidateText(raw string) (string, error) {
	return defaultTaskValidator.ValidateText(raw)
}
