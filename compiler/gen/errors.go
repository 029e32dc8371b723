package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/cardgraph/graph"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema document that cannot be compiled.
	ErrInvalidSchema = errors.New("cardgraph: invalid schema")
	// ErrInvalidConfig indicates a configuration error.
	ErrInvalidConfig = errors.New("cardgraph: invalid configuration")
	// ErrDuplicateType indicates two different types resolved to the same name.
	ErrDuplicateType = errors.New("cardgraph: duplicate type")
)

// SchemaError represents a schema document error.
type SchemaError struct {
	Type    string // Type name (if known)
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("cardgraph: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
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
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("cardgraph: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("cardgraph: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// DuplicateTypeError is returned when a name is registered twice in the
// type registry. It aborts the compilation run: other fragments may already
// hold a reference to the first type.
type DuplicateTypeError struct {
	Name     string
	Existing graph.Kind // zero when the existing slot is still pending
	Incoming graph.Kind
}

// Error implements the error interface.
func (e *DuplicateTypeError) Error() string {
	if e.Existing == 0 {
		return fmt.Sprintf("cardgraph: type %q is already registered", e.Name)
	}
	return fmt.Sprintf("cardgraph: type %q is already registered as %s (incoming %s)", e.Name, e.Existing, e.Incoming)
}

// Is reports whether the target matches ErrDuplicateType or ErrInvalidConfig.
func (e *DuplicateTypeError) Is(target error) bool {
	return target == ErrDuplicateType || target == ErrInvalidConfig
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDuplicateType reports whether the error is a DuplicateTypeError.
func IsDuplicateType(err error) bool {
	var dupErr *DuplicateTypeError
	return errors.As(err, &dupErr)
}
