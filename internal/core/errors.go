package core

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound is returned when a project id does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrRuleNotFound is returned when deleting a rule the project lacks.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidInput is wrapped by request validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrArtifactNotFound is returned when a project has not produced a
	// workbook yet.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ConfigurationError is a setting a run needs that is missing or invalid.
// It is detected before any request reaches the survey platform.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}
