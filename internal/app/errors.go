package app

import (
	"fmt"
)

// SchemasSkippedError reports that a check found schema files which could not be loaded.
type SchemasSkippedError struct {
	Count int
}

func (e *SchemasSkippedError) Error() string {
	if e.Count == 1 {
		return "1 schema file was skipped"
	}
	return fmt.Sprintf("%d schema files were skipped", e.Count)
}

type InvalidDocumentError struct {
	Wrapped error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("Received invalid JSON: %v", e.Wrapped)
}

func (e *InvalidDocumentError) Unwrap() error {
	return e.Wrapped
}

type DocumentReadError struct {
	Path    string
	Wrapped error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("Failed to load: %s: %v", e.Path, e.Wrapped)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Wrapped
}

// ConfigExistsError reports that init would overwrite an existing configuration file.
type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("configuration already exists: %s", e.Path)
}
