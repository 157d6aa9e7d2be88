package schema

import "slices"

// Property names a value in a [Properties] bag. The names of structural
// properties and restriction facets match the XSD attribute and facet
// element they are rendered to.
type Property string

// Structural properties.
const (
	PropName      Property = "name"
	PropMinOccurs Property = "minOccurs"
	PropMaxOccurs Property = "maxOccurs"
	PropNillable  Property = "nillable"
	PropScope     Property = "scope"
)

// Restriction facets.
const (
	PropMinLength    Property = "minLength"
	PropMaxLength    Property = "maxLength"
	PropMinInclusive Property = "minInclusive"
	PropMinExclusive Property = "minExclusive"
	PropMaxInclusive Property = "maxInclusive"
	PropMaxExclusive Property = "maxExclusive"
	PropPattern      Property = "pattern"
	PropLength       Property = "length"
	PropEnumeration  Property = "enumeration"
)

// Unbounded is the maxOccurs value of a member that may repeat without limit.
const Unbounded = -1

// Tristate is a boolean that may be left unset so the decision falls
// through to the next source (configuration, then type model, then default).
type Tristate int8

const (
	// Unset defers the decision.
	Unset Tristate = iota
	// False is an explicit false.
	False
	// True is an explicit true.
	True
)

// TristateOf converts b to an explicit Tristate.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// IsSet reports whether t holds an explicit value.
func (t Tristate) IsSet() bool { return t == False || t == True }

// Bool returns the explicit value of t, or dflt when t is unset.
func (t Tristate) Bool(dflt bool) bool {
	switch t {
	case True:
		return true
	case False:
		return false
	default:
		return dflt
	}
}

// Or returns t when set, otherwise other.
func (t Tristate) Or(other Tristate) Tristate {
	if t.IsSet() {
		return t
	}
	return other
}

// String implements fmt.Stringer.
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unset"
	}
}

// Scope is the visibility of a member.
type Scope int

const (
	// Public members are always emitted.
	Public Scope = iota
	// Private members can be hidden from the generated schema.
	Private
)

// String implements fmt.Stringer.
func (s Scope) String() string {
	if s == Private {
		return "private"
	}
	return "public"
}

// Properties is an insertion-ordered property bag. The zero value is ready
// to use.
type Properties struct {
	keys   []Property
	values map[Property]any
}

// Set stores v under p. Setting an existing property keeps its position.
func (p *Properties) Set(key Property, v any) {
	if p.values == nil {
		p.values = make(map[Property]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// Get returns the value stored under key.
func (p *Properties) Get(key Property) (any, bool) {
	if p == nil || p.values == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p *Properties) Has(key Property) bool {
	_, ok := p.Get(key)
	return ok
}

// Delete removes key from the bag.
func (p *Properties) Delete(key Property) {
	if p == nil || p.values == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k Property) bool { return k == key })
}

// Keys returns the present properties in insertion order.
func (p *Properties) Keys() []Property {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Int returns the integer value of key, or dflt when it is absent or not
// an integer.
func (p *Properties) Int(key Property, dflt int) int {
	v, ok := p.Get(key)
	if !ok {
		return dflt
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	default:
		return dflt
	}
}

// Bool returns the boolean value of key as a Tristate.
func (p *Properties) Bool(key Property) Tristate {
	v, ok := p.Get(key)
	if !ok {
		return Unset
	}
	switch b := v.(type) {
	case bool:
		return TristateOf(b)
	case Tristate:
		return b
	default:
		return Unset
	}
}

// Scope returns the scope of the entity, Public when absent.
func (p *Properties) Scope() Scope {
	v, ok := p.Get(PropScope)
	if !ok {
		return Public
	}
	if s, ok := v.(Scope); ok {
		return s
	}
	return Public
}
