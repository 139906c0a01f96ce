package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("configuration is not a valid yaml document: %v", e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("configuration is missing required property: %s", e.Property)
}

type InvalidLogLevelError struct {
	Value string
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf(
		"configuration property logLevel has invalid value '%s'. Supported levels are: DEBUG, INFO, WARNING, ERROR, CRITICAL",
		e.Value,
	)
}

// InvalidValidationSettingsError wraps an unknown engine or an unsupported
// defaultJsonSchemaVersion.
type InvalidValidationSettingsError struct {
	Wrapped error
}

func (e *InvalidValidationSettingsError) Error() string {
	return fmt.Sprintf("configuration has invalid validation settings: %v", e.Wrapped)
}

func (e *InvalidValidationSettingsError) Unwrap() error {
	return e.Wrapped
}
