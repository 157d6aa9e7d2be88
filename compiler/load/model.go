package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Model is the file representation of a type graph.
type Model struct {
	// Namespace is the default namespace of types that do not declare one.
	Namespace          string     `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	ElementQualified   *bool      `yaml:"elementQualified,omitempty" json:"elementQualified,omitempty"`
	AttributeQualified *bool      `yaml:"attributeQualified,omitempty" json:"attributeQualified,omitempty"`
	Roots              []string   `yaml:"roots,omitempty" json:"roots,omitempty"`
	Types              []*TypeDef `yaml:"types" json:"types"`
}

// Kinds of type definitions.
const (
	KindComplex = "complex"
	KindSimple  = "simple"
)

// TypeDef defines a named type, or an anonymous one when used inline.
type TypeDef struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	ID        string `yaml:"id,omitempty" json:"id,omitempty"`
	// Kind is "complex" or "simple". Empty means simple when the definition
	// carries facets or a base and no fields, complex otherwise.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
	// Base is the super type: extended by complex types, restricted by
	// simple types.
	Base string `yaml:"base,omitempty" json:"base,omitempty"`

	// Complex types.
	Value              string      `yaml:"value,omitempty" json:"value,omitempty"`
	Fields             []*FieldDef `yaml:"fields,omitempty" json:"fields,omitempty"`
	Choices            [][]string  `yaml:"choices,omitempty" json:"choices,omitempty"`
	ElementQualified   *bool       `yaml:"elementQualified,omitempty" json:"elementQualified,omitempty"`
	AttributeQualified *bool       `yaml:"attributeQualified,omitempty" json:"attributeQualified,omitempty"`

	// Simple type facets.
	Pattern      string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Length       *int   `yaml:"length,omitempty" json:"length,omitempty"`
	MinLength    *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength    *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinInclusive any    `yaml:"minInclusive,omitempty" json:"minInclusive,omitempty"`
	MinExclusive any    `yaml:"minExclusive,omitempty" json:"minExclusive,omitempty"`
	MaxInclusive any    `yaml:"maxInclusive,omitempty" json:"maxInclusive,omitempty"`
	MaxExclusive any    `yaml:"maxExclusive,omitempty" json:"maxExclusive,omitempty"`
	Enum         []any  `yaml:"enum,omitempty" json:"enum,omitempty"`
}

// FieldDef defines a member of a complex type.
type FieldDef struct {
	Name string `yaml:"name" json:"name"`
	// Type references a named type; Inline defines an anonymous one.
	Type      string   `yaml:"type,omitempty" json:"type,omitempty"`
	Inline    *TypeDef `yaml:"inline,omitempty" json:"inline,omitempty"`
	Attribute bool     `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	MinOccurs *int     `yaml:"minOccurs,omitempty" json:"minOccurs,omitempty"`
	// MaxOccurs is a number or "unbounded".
	MaxOccurs any   `yaml:"maxOccurs,omitempty" json:"maxOccurs,omitempty"`
	Nillable  *bool `yaml:"nillable,omitempty" json:"nillable,omitempty"`
	Private   bool  `yaml:"private,omitempty" json:"private,omitempty"`
}

// kind returns the effective kind of the definition.
func (d *TypeDef) kind() string {
	if d.Kind != "" {
		return d.Kind
	}
	if len(d.Fields) == 0 && d.Value == "" && (d.Base != "" || d.hasFacets()) {
		return KindSimple
	}
	return KindComplex
}

func (d *TypeDef) hasFacets() bool {
	return d.Pattern != "" || d.Length != nil || d.MinLength != nil || d.MaxLength != nil ||
		d.MinInclusive != nil || d.MinExclusive != nil || d.MaxInclusive != nil ||
		d.MaxExclusive != nil || len(d.Enum) > 0
}

// ParseYAML decodes a YAML model. Unknown keys are rejected.
func ParseYAML(b []byte) (*Model, error) {
	m := &Model{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, NewDefinitionError("", "", "decode yaml", err)
	}
	return m, nil
}

// ParseJSON decodes a JSON model. Unknown keys are rejected.
func ParseJSON(b []byte) (*Model, error) {
	m := &Model{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		return nil, NewDefinitionError("", "", "decode json", err)
	}
	return m, nil
}

// EncodeJSON encodes the model as indented JSON.
func (m *Model) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// EncodeYAML encodes the model as YAML.
func (m *Model) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// LoadFile reads a model file. The format follows the extension: .yaml,
// .yml or .json.
func LoadFile(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(b)
	case ".json":
		return ParseJSON(b)
	default:
		return nil, NewDefinitionError("", "", fmt.Sprintf("unsupported model format %q", ext), nil)
	}
}

// Load reads and resolves a model file.
func Load(path string) (*Graph, error) {
	m, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return m.Build()
}
