package gen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedType indicates a field type without a column mapping.
	ErrUnsupportedType = errors.New("autocolumn: unsupported type")
	// ErrMissingAnnotation indicates a required annotation is absent.
	ErrMissingAnnotation = errors.New("autocolumn: missing required annotation")
	// ErrMalformedAnnotation indicates an annotation value of the wrong kind.
	ErrMalformedAnnotation = errors.New("autocolumn: malformed annotation")
	// ErrInvalidName indicates a record, field or package name that cannot
	// be used in generated Go code.
	ErrInvalidName = errors.New("autocolumn: invalid name")
	// ErrDuplicateColumn indicates two fields sharing a column identifier.
	ErrDuplicateColumn = errors.New("autocolumn: duplicate column")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("autocolumn: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("autocolumn: code generation failed")
)

// UnsupportedTypeError is returned for a field whose declared type is not
// in the inference table and that has no explicit type override.
type UnsupportedTypeError struct {
	Record string
	Field  string
	Type   string // Effective type, after unwrapping.
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	var b strings.Builder
	b.WriteString("autocolumn: unsupported type ")
	b.WriteString(strconv.Quote(e.Type))
	if e.Record != "" {
		b.WriteString(" on record ")
		b.WriteString(e.Record)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": add a type annotation, for example `autocolumn:\"type:String(255)\"`")
	return b.String()
}

// Is reports whether the target matches the sentinel error for UnsupportedTypeError.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// AnnotationError reports a missing or malformed annotation.
type AnnotationError struct {
	Record  string
	Field   string // Empty for record annotations.
	Key     string
	Missing bool
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AnnotationError) Error() string {
	var b strings.Builder
	if e.Missing {
		b.WriteString("autocolumn: missing annotation ")
	} else {
		b.WriteString("autocolumn: malformed annotation ")
	}
	b.WriteString(strconv.Quote(e.Key))
	if e.Record != "" {
		b.WriteString(" on record ")
		b.WriteString(e.Record)
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
func (e *AnnotationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for AnnotationError.
func (e *AnnotationError) Is(target error) bool {
	if e.Missing {
		return target == ErrMissingAnnotation
	}
	return target == ErrMalformedAnnotation
}

// DuplicateColumnError is returned when two fields produce the same column
// identifier.
type DuplicateColumnError struct {
	Record string
	Column string
	Fields [2]string
}

// Error implements the error interface.
func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("autocolumn: duplicate column %s on record %s: fields %s and %s", e.Column, e.Record, e.Fields[0], e.Fields[1])
}

// Is reports whether the target matches the sentinel error for DuplicateColumnError.
func (e *DuplicateColumnError) Is(target error) bool {
	return target == ErrDuplicateColumn
}

// NameError is returned for a record, field or package name that does not
// produce valid Go identifiers.
type NameError struct {
	Record string
	Field  string
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *NameError) Error() string {
	var b strings.Builder
	b.WriteString("autocolumn: ")
	if e.Field != "" {
		fmt.Fprintf(&b, "record %s field %s: ", e.Record, e.Field)
	} else {
		fmt.Fprintf(&b, "record %s: ", e.Record)
	}
	fmt.Fprintf(&b, "invalid name %q: %s", e.Name, e.Reason)
	return b.String()
}

// Is reports whether the target matches the sentinel error for NameError.
func (e *NameError) Is(target error) bool {
	return target == ErrInvalidName
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
		return fmt.Sprintf("autocolumn: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("autocolumn: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Record  string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("autocolumn: generation error")
	if e.Record != "" {
		b.WriteString(" for record ")
		b.WriteString(e.Record)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
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
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(record, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Record:  record,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsUnsupportedType reports whether the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var typeErr *UnsupportedTypeError
	return errors.As(err, &typeErr)
}

// IsAnnotationError reports whether the error is an AnnotationError.
func IsAnnotationError(err error) bool {
	var annErr *AnnotationError
	return errors.As(err, &annErr)
}

// IsDuplicateColumn reports whether the error is a DuplicateColumnError.
func IsDuplicateColumn(err error) bool {
	var dupErr *DuplicateColumnError
	return errors.As(err, &dupErr)
}

// IsNameError reports whether the error is a NameError.
func IsNameError(err error) bool {
	var nameErr *NameError
	return errors.As(err, &nameErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
