package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNoSession      = errors.New("no active session")
	ErrSessionLoading = errors.New("session is still loading")
)

// Правила валидации черновика
const (
	RuleTextRequired    = "text_required"
	RuleTextTooLong     = "text_too_long"
	RulePriorityInvalid = "priority_invalid"
)

// ValidationError называет нарушенное правило; errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
