package xsd

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedShape indicates a type graph construct XSD output cannot express.
	ErrUnsupportedShape = errors.New("typexsd: unsupported shape")
	// ErrStructure indicates a broken traversal invariant.
	ErrStructure = errors.New("typexsd: structural invariant violated")
	// ErrOutput indicates a failure writing a schema document.
	ErrOutput = errors.New("typexsd: output failed")
	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("typexsd: invalid configuration")
	// ErrInvalidValue indicates a property value that could not be rendered.
	ErrInvalidValue = errors.New("typexsd: invalid property value")
	// ErrSessionInUse is returned when a Marshaller that already holds a
	// schema is asked to marshal another root type.
	ErrSessionInUse = errors.New("typexsd: session already holds a schema")
)

// ShapeError reports a construct of the type graph that cannot be rendered,
// such as a member group that is not a choice.
type ShapeError struct {
	Type    string // Type name
	Member  string // Member name (if applicable)
	Message string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString("typexsd: unsupported shape")
	if e.Type != "" {
		b.WriteString(" in type ")
		b.WriteString(e.Type)
	}
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

// NewShapeError creates a new ShapeError.
func NewShapeError(typeName, member, message string) *ShapeError {
	return &ShapeError{Type: typeName, Member: member, Message: message}
}

// StructureError reports a node that is not where the traversal expects it,
// for example a node without an enclosing schema element.
type StructureError struct {
	Node      string
	Namespace string
	Message   string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	var b strings.Builder
	b.WriteString("typexsd: structural error")
	if e.Node != "" {
		b.WriteString(" at <")
		b.WriteString(e.Node)
		b.WriteString(">")
	}
	if e.Namespace != "" {
		fmt.Fprintf(&b, " for namespace %q", e.Namespace)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for StructureError.
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

// NewStructureError creates a new StructureError.
func NewStructureError(node, namespace, message string) *StructureError {
	return &StructureError{Node: node, Namespace: namespace, Message: message}
}

// OutputError reports a failure to obtain or write a document sink.
type OutputError struct {
	Namespace string // Namespace of the attachment; empty for the root document
	Root      bool
	Cause     error
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	var b strings.Builder
	b.WriteString("typexsd: output error")
	if e.Root {
		b.WriteString(" writing root schema")
	} else {
		fmt.Fprintf(&b, " writing attachment %q", e.Namespace)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *OutputError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for OutputError.
func (e *OutputError) Is(target error) bool {
	return target == ErrOutput
}

// NewOutputError creates a new OutputError for an attachment namespace.
func NewOutputError(namespace string, cause error) *OutputError {
	return &OutputError{Namespace: namespace, Cause: cause}
}

// NewRootOutputError creates a new OutputError for the root document.
func NewRootOutputError(cause error) *OutputError {
	return &OutputError{Root: true, Cause: cause}
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
		return fmt.Sprintf("typexsd: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("typexsd: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// ValueError reports a property value the Converter could not render.
type ValueError struct {
	Property string
	Value    any
	Cause    error
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	msg := fmt.Sprintf("typexsd: cannot render %s value %v", e.Property, e.Value)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ValueError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ValueError.
func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// NewValueError creates a new ValueError.
func NewValueError(property string, value any, cause error) *ValueError {
	return &ValueError{Property: property, Value: value, Cause: cause}
}

// IsShapeError reports whether the error is a ShapeError.
func IsShapeError(err error) bool {
	var e *ShapeError
	return errors.As(err, &e)
}

// IsStructureError reports whether the error is a StructureError.
func IsStructureError(err error) bool {
	var e *StructureError
	return errors.As(err, &e)
}

// IsOutputError reports whether the error is an OutputError.
func IsOutputError(err error) bool {
	var e *OutputError
	return errors.As(err, &e)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsValueError reports whether the error is a ValueError.
func IsValueError(err error) bool {
	var e *ValueError
	return errors.As(err, &e)
}
