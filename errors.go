package modelgql

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for registration and lookup.
var (
	// ErrSchemaResolution is returned when a field type cannot be determined
	// while a type is being registered.
	ErrSchemaResolution = errors.New("modelgql: schema resolution failed")

	// ErrConfiguration is returned when the registry configuration is invalid
	// or incomplete for the requested operation.
	ErrConfiguration = errors.New("modelgql: invalid configuration")
)

// SchemaResolutionError reports a field whose type could not be resolved to a
// representable GraphQL type. It is fatal to the registration of Type.
type SchemaResolutionError struct {
	Type    string // Owning type name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("modelgql: cannot resolve")
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
		if e.Type != "" {
			b.WriteString(" on")
		}
	}
	if e.Type != "" {
		b.WriteString(" type ")
		b.WriteString(e.Type)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrSchemaResolution.
func (e *SchemaResolutionError) Is(target error) bool {
	return target == ErrSchemaResolution
}

// NewSchemaResolutionError returns a new SchemaResolutionError.
func NewSchemaResolutionError(typeName, fieldName, message string, cause error) *SchemaResolutionError {
	return &SchemaResolutionError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaResolutionError returns true if the error is a SchemaResolutionError.
func IsSchemaResolutionError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaResolutionError
	return errors.As(err, &e)
}

// ConfigurationError reports missing or conflicting configuration, such as
// hints requested in strict mode for a type that has none attached.
type ConfigurationError struct {
	Type    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("modelgql: configuration error for %s.%s: %s", e.Type, e.Field, e.Message)
	case e.Type != "":
		return fmt.Sprintf("modelgql: configuration error for %s: %s", e.Type, e.Message)
	default:
		return fmt.Sprintf("modelgql: configuration error: %s", e.Message)
	}
}

// Is reports whether the target matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError returns a new ConfigurationError.
func NewConfigurationError(typeName, fieldName, message string) *ConfigurationError {
	return &ConfigurationError{Type: typeName, Field: fieldName, Message: message}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e)
}
