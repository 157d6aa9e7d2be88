package load

import (
	"errors"
	"strings"
)

// ErrInvalidModel is matched by every DefinitionError.
var ErrInvalidModel = errors.New("typexsd: invalid model")

// DefinitionError reports a malformed type definition in a model.
type DefinitionError struct {
	Type    string // Type name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	var b strings.Builder
	b.WriteString("typexsd: definition error")
	if e.Type != "" {
		b.WriteString(" in type ")
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
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidModel.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrInvalidModel
}

// NewDefinitionError creates a new DefinitionError.
func NewDefinitionError(typeName, field, message string, cause error) *DefinitionError {
	return &DefinitionError{Type: typeName, Field: field, Message: message, Cause: cause}
}

// IsDefinitionError reports whether the error is a DefinitionError.
func IsDefinitionError(err error) bool {
	var e *DefinitionError
	return errors.As(err, &e)
}
