package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a form, session, or report target does
	// not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConfiguration is returned for malformed form setups: an empty
	// question list handed to the flow engine, a rule referencing a
	// question id that does not exist, or a backward logic jump.
	ErrConfiguration = errors.New("invalid form configuration")

	// ErrSessionFinished is returned when navigation is attempted on a
	// session that has already submitted.
	ErrSessionFinished = errors.New("session already submitted")

	// ErrNotAtEnd is returned when submit is attempted from any question
	// other than the final one. Early completion only happens through an
	// end-form logic rule, never at the client's initiative.
	ErrNotAtEnd = errors.New("session is not on the final question")
)

// ConfigError wraps ErrConfiguration with detail about what is malformed.
func ConfigError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// ValidationResult reports a respondent-recoverable input problem. It is a
// value, not an error: a required field left empty re-presents the question,
// it never propagates as a failure.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func validationOK() ValidationResult {
	return ValidationResult{Valid: true}
}

func validationFailure(message string) ValidationResult {
	return ValidationResult{Valid: false, Message: message}
}
