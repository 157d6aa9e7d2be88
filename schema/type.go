package schema

import "slices"

// Type is a node in the type graph.
type Type interface {
	// Name returns the local name, empty for anonymous types.
	Name() string
	// Namespace returns the namespace, empty to inherit the referencing schema's.
	Namespace() string
	// SuperType returns the type this one derives from, or nil.
	SuperType() Type
	// Properties returns the type level property bag.
	Properties() *Properties
}

// Identified is implemented by types that expose a globally unique
// identifier. The identifier is used as the XSD type name in place of the
// "<Name>Type" naming convention.
type Identified interface {
	ID() string
}

// IsAnonymous reports whether t has no name.
func IsAnonymous(t Type) bool { return t == nil || t.Name() == "" }

// IsBuiltin reports whether t lives in the XSD namespace.
func IsBuiltin(t Type) bool { return t != nil && t.Namespace() == XMLSchemaNamespace }

// SimpleType is a scalar type restricted by facets.
type SimpleType struct {
	name      string
	namespace string
	id        string
	super     Type
	props     Properties
}

// NewSimpleType returns a simple type. An empty name makes it anonymous.
func NewSimpleType(name, namespace string) *SimpleType {
	return &SimpleType{name: name, namespace: namespace}
}

func (t *SimpleType) Name() string            { return t.name }
func (t *SimpleType) Namespace() string       { return t.namespace }
func (t *SimpleType) SuperType() Type         { return t.super }
func (t *SimpleType) Properties() *Properties { return &t.props }
func (t *SimpleType) ID() string              { return t.id }

// Restrict sets the base type the facets restrict.
func (t *SimpleType) Restrict(base Type) *SimpleType {
	t.super = base
	return t
}

// WithID sets the global identifier of the type.
func (t *SimpleType) WithID(id string) *SimpleType {
	t.id = id
	return t
}

// Set stores an arbitrary property.
func (t *SimpleType) Set(p Property, v any) *SimpleType {
	t.props.Set(p, v)
	return t
}

// Pattern sets the pattern facet.
func (t *SimpleType) Pattern(re string) *SimpleType { return t.Set(PropPattern, re) }

// Length sets the exact length facet.
func (t *SimpleType) Length(n int) *SimpleType { return t.Set(PropLength, n) }

// MinLength sets the minLength facet.
func (t *SimpleType) MinLength(n int) *SimpleType { return t.Set(PropMinLength, n) }

// MaxLength sets the maxLength facet.
func (t *SimpleType) MaxLength(n int) *SimpleType { return t.Set(PropMaxLength, n) }

// MinInclusive sets the minInclusive facet.
func (t *SimpleType) MinInclusive(v any) *SimpleType { return t.Set(PropMinInclusive, v) }

// MinExclusive sets the minExclusive facet.
func (t *SimpleType) MinExclusive(v any) *SimpleType { return t.Set(PropMinExclusive, v) }

// MaxInclusive sets the maxInclusive facet.
func (t *SimpleType) MaxInclusive(v any) *SimpleType { return t.Set(PropMaxInclusive, v) }

// MaxExclusive sets the maxExclusive facet.
func (t *SimpleType) MaxExclusive(v any) *SimpleType { return t.Set(PropMaxExclusive, v) }

// Enum appends values to the enumeration facet.
func (t *SimpleType) Enum(values ...any) *SimpleType {
	if v, ok := t.props.Get(PropEnumeration); ok {
		if prev, ok := v.([]any); ok {
			values = append(slices.Clone(prev), values...)
		}
	}
	return t.Set(PropEnumeration, values)
}

// ComplexType is a record type with ordered element and attribute members.
type ComplexType struct {
	name      string
	namespace string
	id        string
	super     Type
	children  []*Element
	groups    []*Group
	value     *Element
	props     Properties

	elementQualified   Tristate
	attributeQualified Tristate
}

// ValueName is the member name of the simple content value of a complex type.
const ValueName = "$value"

// NewComplexType returns a complex type. An empty name makes it anonymous.
func NewComplexType(name, namespace string) *ComplexType {
	return &ComplexType{name: name, namespace: namespace}
}

func (t *ComplexType) Name() string            { return t.name }
func (t *ComplexType) Namespace() string       { return t.namespace }
func (t *ComplexType) SuperType() Type         { return t.super }
func (t *ComplexType) Properties() *Properties { return &t.props }
func (t *ComplexType) ID() string              { return t.id }

// WithID sets the global identifier of the type.
func (t *ComplexType) WithID(id string) *ComplexType {
	t.id = id
	return t
}

// Extends sets the super type. Members of the super type are part of the
// effective children of t.
func (t *ComplexType) Extends(super *ComplexType) *ComplexType {
	if super == nil {
		t.super = nil
		return t
	}
	t.super = super
	return t
}

// Set stores an arbitrary type level property.
func (t *ComplexType) Set(p Property, v any) *ComplexType {
	t.props.Set(p, v)
	return t
}

// Qualified sets the element and attribute qualification defaults the type
// requests for the schema it is the root of.
func (t *ComplexType) Qualified(elements, attributes Tristate) *ComplexType {
	t.elementQualified = elements
	t.attributeQualified = attributes
	return t
}

// ElementQualified returns the requested elementFormDefault.
func (t *ComplexType) ElementQualified() Tristate { return t.elementQualified }

// AttributeQualified returns the requested attributeFormDefault.
func (t *ComplexType) AttributeQualified() Tristate { return t.attributeQualified }

// Add appends declared members.
func (t *ComplexType) Add(members ...*Element) *ComplexType {
	for _, m := range members {
		if m != nil && !slices.Contains(t.children, m) {
			t.children = append(t.children, m)
		}
	}
	return t
}

// Choice declares members as mutually exclusive. Members not yet declared
// on t are appended.
func (t *ComplexType) Choice(members ...*Element) *Group {
	return t.Group(ChoiceGroup, members...)
}

// Group declares a member group of the given kind.
func (t *ComplexType) Group(kind GroupKind, members ...*Element) *Group {
	t.Add(members...)
	g := &Group{Kind: kind, Members: slices.Clone(members)}
	t.groups = append(t.groups, g)
	return g
}

// WithValue turns t into a simple content type wrapping v. The remaining
// members of t are expected to be attributes.
func (t *ComplexType) WithValue(v *SimpleType) *ComplexType {
	if t.value != nil {
		t.children = slices.DeleteFunc(t.children, func(e *Element) bool { return e == t.value })
	}
	t.value = Elem(ValueName, v)
	t.children = append([]*Element{t.value}, t.children...)
	return t
}

// ValueMember returns the simple content value member declared on t, or nil.
func (t *ComplexType) ValueMember() *Element { return t.value }

// SimpleContent returns the effective simple content value member: the one
// declared on t, else the nearest one of its super type chain, or nil.
func (t *ComplexType) SimpleContent() *Element {
	seen := make(map[*ComplexType]bool)
	for c := t; c != nil && !seen[c]; {
		seen[c] = true
		if c.value != nil {
			return c.value
		}
		next, _ := c.super.(*ComplexType)
		c = next
	}
	return nil
}

// IsValueMember reports whether m is the value member of t or of one of its
// super types.
func (t *ComplexType) IsValueMember(m *Element) bool {
	seen := make(map[*ComplexType]bool)
	for c := t; c != nil && !seen[c]; {
		seen[c] = true
		if m != nil && c.value == m {
			return true
		}
		next, _ := c.super.(*ComplexType)
		c = next
	}
	return false
}

// ValueType returns the type of the effective simple content value, or nil.
func (t *ComplexType) ValueType() *SimpleType {
	v := t.SimpleContent()
	if v == nil {
		return nil
	}
	st, _ := v.Type().(*SimpleType)
	return st
}

// Children returns the members declared on t itself.
func (t *ComplexType) Children() []*Element { return slices.Clone(t.children) }

// Groups returns the groups declared on t itself.
func (t *ComplexType) Groups() []*Group { return slices.Clone(t.groups) }

// AllChildren returns the effective members of t: those of the super type
// chain first, then the declared ones.
func (t *ComplexType) AllChildren() []*Element {
	var chain []*ComplexType
	seen := make(map[*ComplexType]bool)
	for c := t; c != nil && !seen[c]; {
		seen[c] = true
		chain = append(chain, c)
		next, _ := c.super.(*ComplexType)
		c = next
	}
	var all []*Element
	for i := len(chain) - 1; i >= 0; i-- {
		all = append(all, chain[i].children...)
	}
	return all
}

// GroupOf returns the group that m belongs to, searching t and its super
// types, or nil when m is not grouped.
func (t *ComplexType) GroupOf(m *Element) *Group {
	seen := make(map[*ComplexType]bool)
	for c := t; c != nil && !seen[c]; {
		seen[c] = true
		for _, g := range c.groups {
			if slices.Contains(g.Members, m) {
				return g
			}
		}
		next, _ := c.super.(*ComplexType)
		c = next
	}
	return nil
}
