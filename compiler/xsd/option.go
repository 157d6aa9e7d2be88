package xsd

import (
	"errors"
	"log/slog"

	"github.com/syssam/typexsd/schema"
)

// Config holds the settings of a marshalling session.
type Config struct {
	// ElementQualified overrides the elementFormDefault requested by the
	// root type. Unset falls through to the type, then to false.
	ElementQualified schema.Tristate
	// AttributeQualified overrides the attributeFormDefault requested by
	// the root type.
	AttributeQualified schema.Tristate
	// ForceAnonymousComplexTypes inlines named complex types of the
	// referencing document's namespace instead of defining them globally.
	ForceAnonymousComplexTypes bool
	// UseExtension renders super types with complexContent/extension
	// instead of flattening inherited members.
	UseExtension bool
	// HidePrivate drops privately scoped members.
	HidePrivate bool
	// IncludeSchemaLocation adds schemaLocation to imports.
	IncludeSchemaLocation bool
	// RootLocation is the schemaLocation attachments use to import the
	// root namespace. Empty omits it.
	RootLocation string
	// Attachments receives the secondary documents. Without a provider
	// attachments are kept in memory only.
	Attachments AttachmentProvider
	// Converter renders property values to text.
	Converter Converter
	// Logger receives session diagnostics.
	Logger *slog.Logger
	// Indent is the number of spaces per level; 0 writes compact documents.
	Indent int
}

// Option configures a marshalling session.
type Option func(*Config) error

// WithElementQualified sets elementFormDefault.
func WithElementQualified(q schema.Tristate) Option {
	return func(c *Config) error {
		if q != schema.Unset && !q.IsSet() {
			return NewConfigError("ElementQualified", q, "invalid tristate")
		}
		c.ElementQualified = q
		return nil
	}
}

// WithAttributeQualified sets attributeFormDefault.
func WithAttributeQualified(q schema.Tristate) Option {
	return func(c *Config) error {
		if q != schema.Unset && !q.IsSet() {
			return NewConfigError("AttributeQualified", q, "invalid tristate")
		}
		c.AttributeQualified = q
		return nil
	}
}

// WithForceAnonymousComplexTypes inlines same-namespace complex types.
func WithForceAnonymousComplexTypes(b bool) Option {
	return func(c *Config) error {
		c.ForceAnonymousComplexTypes = b
		return nil
	}
}

// WithExtension renders super types through complexContent/extension.
func WithExtension(b bool) Option {
	return func(c *Config) error {
		c.UseExtension = b
		return nil
	}
}

// WithHidePrivate hides privately scoped members.
func WithHidePrivate(b bool) Option {
	return func(c *Config) error {
		c.HidePrivate = b
		return nil
	}
}

// WithSchemaLocation controls whether imports carry a schemaLocation.
func WithSchemaLocation(b bool) Option {
	return func(c *Config) error {
		c.IncludeSchemaLocation = b
		return nil
	}
}

// WithRootLocation sets the location of the root schema as seen from its
// attachments.
func WithRootLocation(loc string) Option {
	return func(c *Config) error {
		c.RootLocation = loc
		return nil
	}
}

// WithAttachmentProvider sets where attachment documents are written and
// how they are located.
func WithAttachmentProvider(p AttachmentProvider) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Attachments", nil, "provider cannot be nil")
		}
		c.Attachments = p
		return nil
	}
}

// WithConverter sets the value-to-text converter used for facets and
// structural attributes.
func WithConverter(conv Converter) Option {
	return func(c *Config) error {
		if conv == nil {
			return NewConfigError("Converter", nil, "converter cannot be nil")
		}
		c.Converter = conv
		return nil
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithIndent sets the output indentation width.
func WithIndent(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Indent", n, "indent cannot be negative")
		}
		c.Indent = n
		return nil
	}
}

// Apply applies the options, collecting every failure.
func (c *Config) Apply(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		IncludeSchemaLocation: true,
		Converter:             CastConverter{},
		Logger:                slog.Default(),
		Indent:                2,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
