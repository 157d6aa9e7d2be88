package schema

import "strings"

// AttributeMarker prefixes member names that are rendered as attributes.
const AttributeMarker = "@"

// Element is a member of a complex type: a child element or an attribute.
type Element struct {
	name      string
	typ       Type
	attribute bool
	namespace string
	props     Properties
}

// Elem declares a child element of type t.
func Elem(name string, t Type) *Element {
	return &Element{name: name, typ: t}
}

// Attr declares an attribute of type t.
func Attr(name string, t Type) *Element {
	return &Element{name: name, typ: t, attribute: true}
}

// Name returns the declared member name, including any attribute marker.
func (e *Element) Name() string { return e.name }

// Type returns the member type.
func (e *Element) Type() Type { return e.typ }

// Namespace returns the namespace of a top-level element declaration.
// Empty means the namespace of the element's type.
func (e *Element) Namespace() string { return e.namespace }

// InNamespace sets the namespace used when the element is defined at the
// top level of a schema.
func (e *Element) InNamespace(ns string) *Element {
	e.namespace = ns
	return e
}

// Properties returns the member property bag.
func (e *Element) Properties() *Properties { return &e.props }

// IsAttribute reports whether the member is rendered as an attribute.
func (e *Element) IsAttribute() bool {
	return e.attribute || strings.HasPrefix(e.name, AttributeMarker)
}

// LocalName returns the member name without the attribute marker.
func (e *Element) LocalName() string {
	return strings.TrimPrefix(e.name, AttributeMarker)
}

// Set stores an arbitrary property.
func (e *Element) Set(p Property, v any) *Element {
	e.props.Set(p, v)
	return e
}

// MinOccurs sets minOccurs.
func (e *Element) MinOccurs(n int) *Element { return e.Set(PropMinOccurs, n) }

// MaxOccurs sets maxOccurs; use [Unbounded] for no limit.
func (e *Element) MaxOccurs(n int) *Element { return e.Set(PropMaxOccurs, n) }

// Optional is MinOccurs(0).
func (e *Element) Optional() *Element { return e.MinOccurs(0) }

// Many is MaxOccurs(Unbounded).
func (e *Element) Many() *Element { return e.MaxOccurs(Unbounded) }

// Nillable states explicitly whether the member accepts nil.
func (e *Element) Nillable(b bool) *Element { return e.Set(PropNillable, b) }

// Private marks the member as privately scoped.
func (e *Element) Private() *Element { return e.Set(PropScope, Private) }

// GroupKind is the compositor of a member group.
type GroupKind int

const (
	// ChoiceGroup members are mutually exclusive.
	ChoiceGroup GroupKind = iota
	// SequenceGroup members appear in order.
	SequenceGroup
	// AllGroup members appear in any order.
	AllGroup
)

// String implements fmt.Stringer.
func (k GroupKind) String() string {
	switch k {
	case ChoiceGroup:
		return "choice"
	case SequenceGroup:
		return "sequence"
	case AllGroup:
		return "all"
	default:
		return "unknown"
	}
}

// Group is a set of sibling members sharing a compositor.
type Group struct {
	Kind    GroupKind
	Members []*Element
	props   Properties
}

// Properties returns the group property bag.
func (g *Group) Properties() *Properties { return &g.props }

// MinOccurs sets minOccurs of the group.
func (g *Group) MinOccurs(n int) *Group {
	g.props.Set(PropMinOccurs, n)
	return g
}

// MaxOccurs sets maxOccurs of the group.
func (g *Group) MaxOccurs(n int) *Group {
	g.props.Set(PropMaxOccurs, n)
	return g
}
