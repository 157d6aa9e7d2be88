package load

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/syssam/typexsd/schema"
)

// Graph is a resolved model: named types keyed by namespace and name, and
// the root types to marshal.
type Graph struct {
	// Namespace is the default namespace of the model.
	Namespace string

	types map[qname]schema.Type
	order []qname
	roots []*schema.ComplexType
}

type qname struct {
	ns, name string
}

func (q qname) String() string {
	if q.ns == "" {
		return q.name
	}
	return "{" + q.ns + "}" + q.name
}

// Roots returns the root types in declaration order.
func (g *Graph) Roots() []*schema.ComplexType { return slices.Clone(g.roots) }

// Types returns the named types in declaration order.
func (g *Graph) Types() []schema.Type {
	out := make([]schema.Type, 0, len(g.order))
	for _, q := range g.order {
		out = append(out, g.types[q])
	}
	return out
}

// Lookup resolves a type reference: "xs:name" for builtins, "{ns}name" for
// a qualified name, or a bare name looked up in the default namespace, then
// across namespaces, then among builtins.
func (g *Graph) Lookup(ref string) (schema.Type, error) {
	return g.resolve(ref)
}

// ComplexType resolves ref to a complex type.
func (g *Graph) ComplexType(ref string) (*schema.ComplexType, error) {
	t, err := g.resolve(ref)
	if err != nil {
		return nil, err
	}
	ct, ok := t.(*schema.ComplexType)
	if !ok {
		return nil, NewDefinitionError(ref, "", "not a complex type", nil)
	}
	return ct, nil
}

// Build resolves the model. Named types are declared first and filled in a
// second pass, so types may reference each other in any order and cycles
// are allowed.
func (m *Model) Build() (*Graph, error) {
	g := &Graph{Namespace: m.Namespace, types: make(map[qname]schema.Type)}
	for i, d := range m.Types {
		if d == nil || strings.TrimSpace(d.Name) == "" {
			return nil, NewDefinitionError("", "", fmt.Sprintf("type #%d has no name", i), nil)
		}
		q := qname{ns: m.namespaceOf(d), name: d.Name}
		if _, ok := g.types[q]; ok {
			return nil, NewDefinitionError(q.String(), "", "duplicate type", nil)
		}
		switch d.kind() {
		case KindSimple:
			g.types[q] = schema.NewSimpleType(q.name, q.ns).WithID(d.ID)
		case KindComplex:
			g.types[q] = schema.NewComplexType(q.name, q.ns).WithID(d.ID)
		default:
			return nil, NewDefinitionError(q.String(), "", fmt.Sprintf("unknown kind %q", d.Kind), nil)
		}
		g.order = append(g.order, q)
	}
	for _, d := range m.Types {
		if err := g.fill(d, g.types[qname{ns: m.namespaceOf(d), name: d.Name}]); err != nil {
			return nil, err
		}
	}
	for _, ref := range m.Roots {
		root, err := g.ComplexType(ref)
		if err != nil {
			return nil, err
		}
		eq, aq := root.ElementQualified(), root.AttributeQualified()
		if eq == schema.Unset {
			eq = tristate(m.ElementQualified)
		}
		if aq == schema.Unset {
			aq = tristate(m.AttributeQualified)
		}
		g.roots = append(g.roots, root.Qualified(eq, aq))
	}
	return g, nil
}

func (m *Model) namespaceOf(d *TypeDef) string {
	if d.Namespace != "" {
		return d.Namespace
	}
	return m.Namespace
}

func (g *Graph) fill(d *TypeDef, t schema.Type) error {
	switch tt := t.(type) {
	case *schema.SimpleType:
		return g.fillSimple(d, tt)
	case *schema.ComplexType:
		return g.fillComplex(d, tt)
	default:
		return NewDefinitionError(d.Name, "", fmt.Sprintf("unexpected type %T", t), nil)
	}
}

func (g *Graph) fillSimple(d *TypeDef, t *schema.SimpleType) error {
	if len(d.Fields) > 0 || d.Value != "" || len(d.Choices) > 0 {
		return NewDefinitionError(d.Name, "", "simple types cannot declare fields, values or choices", nil)
	}
	if d.Base != "" {
		base, err := g.resolve(d.Base)
		if err != nil {
			return NewDefinitionError(d.Name, "", "base", err)
		}
		if _, ok := base.(*schema.SimpleType); !ok {
			return NewDefinitionError(d.Name, "", "simple types can only restrict simple types", nil)
		}
		t.Restrict(base)
	}
	if d.Pattern != "" {
		t.Pattern(d.Pattern)
	}
	for p, v := range map[schema.Property]*int{
		schema.PropLength:    d.Length,
		schema.PropMinLength: d.MinLength,
		schema.PropMaxLength: d.MaxLength,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return NewDefinitionError(d.Name, "", fmt.Sprintf("%s cannot be negative", p), nil)
		}
		t.Set(p, *v)
	}
	for p, v := range map[schema.Property]any{
		schema.PropMinInclusive: d.MinInclusive,
		schema.PropMinExclusive: d.MinExclusive,
		schema.PropMaxInclusive: d.MaxInclusive,
		schema.PropMaxExclusive: d.MaxExclusive,
	} {
		if v != nil {
			t.Set(p, v)
		}
	}
	if len(d.Enum) > 0 {
		t.Enum(d.Enum...)
	}
	return nil
}

func (g *Graph) fillComplex(d *TypeDef, t *schema.ComplexType) error {
	name := d.Name
	if name == "" {
		name = "<inline>"
	}
	if d.hasFacets() {
		return NewDefinitionError(name, "", "complex types cannot declare facets", nil)
	}
	if d.Base != "" {
		base, err := g.resolve(d.Base)
		if err != nil {
			return NewDefinitionError(name, "", "base", err)
		}
		super, ok := base.(*schema.ComplexType)
		if !ok {
			return NewDefinitionError(name, "", "complex types can only extend complex types", nil)
		}
		t.Extends(super)
	}
	if d.Value != "" {
		v, err := g.resolve(d.Value)
		if err != nil {
			return NewDefinitionError(name, schema.ValueName, "value", err)
		}
		st, ok := v.(*schema.SimpleType)
		if !ok {
			return NewDefinitionError(name, schema.ValueName, "value must be a simple type", nil)
		}
		t.WithValue(st)
	}
	members := make(map[string]*schema.Element, len(d.Fields))
	for _, f := range d.Fields {
		if f == nil || f.Name == "" {
			return NewDefinitionError(name, "", "field has no name", nil)
		}
		if _, ok := members[f.Name]; ok {
			return NewDefinitionError(name, f.Name, "duplicate field", nil)
		}
		el, err := g.element(name, f)
		if err != nil {
			return err
		}
		members[f.Name] = el
		t.Add(el)
	}
	for _, choice := range d.Choices {
		group := make([]*schema.Element, 0, len(choice))
		for _, ref := range choice {
			el, ok := members[ref]
			if !ok {
				return NewDefinitionError(name, ref, "choice references an unknown field", nil)
			}
			group = append(group, el)
		}
		t.Choice(group...)
	}
	t.Qualified(tristate(d.ElementQualified), tristate(d.AttributeQualified))
	return nil
}

func (g *Graph) element(typeName string, f *FieldDef) (*schema.Element, error) {
	var (
		typ schema.Type
		err error
	)
	switch {
	case f.Inline != nil && f.Type != "":
		return nil, NewDefinitionError(typeName, f.Name, "type and inline are exclusive", nil)
	case f.Inline != nil:
		typ, err = g.anonymous(f.Inline)
	case f.Type != "":
		typ, err = g.resolve(f.Type)
	default:
		return nil, NewDefinitionError(typeName, f.Name, "field has no type", nil)
	}
	if err != nil {
		if IsDefinitionError(err) {
			return nil, err
		}
		return nil, NewDefinitionError(typeName, f.Name, "type", err)
	}

	el := schema.Elem(f.Name, typ)
	if f.Attribute {
		el = schema.Attr(f.Name, typ)
	}
	if f.MinOccurs != nil {
		if *f.MinOccurs < 0 {
			return nil, NewDefinitionError(typeName, f.Name, "minOccurs cannot be negative", nil)
		}
		el.MinOccurs(*f.MinOccurs)
	}
	if f.MaxOccurs != nil {
		n, err := maxOccurs(f.MaxOccurs)
		if err != nil {
			return nil, NewDefinitionError(typeName, f.Name, "maxOccurs", err)
		}
		el.MaxOccurs(n)
	}
	if f.Nillable != nil {
		el.Nillable(*f.Nillable)
	}
	if f.Private {
		el.Private()
	}
	return el, nil
}

// anonymous builds an inline type definition.
func (g *Graph) anonymous(d *TypeDef) (schema.Type, error) {
	if d.Name != "" {
		return nil, NewDefinitionError(d.Name, "", "inline types cannot be named", nil)
	}
	switch d.kind() {
	case KindSimple:
		t := schema.NewSimpleType("", "")
		return t, g.fillSimple(d, t)
	case KindComplex:
		t := schema.NewComplexType("", "")
		return t, g.fillComplex(d, t)
	default:
		return nil, NewDefinitionError("<inline>", "", fmt.Sprintf("unknown kind %q", d.Kind), nil)
	}
}

func (g *Graph) resolve(ref string) (schema.Type, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, NewDefinitionError("", "", "empty type reference", nil)
	case strings.HasPrefix(ref, "xs:"), strings.HasPrefix(ref, "xsd:"):
		_, local, _ := strings.Cut(ref, ":")
		if t := schema.Builtin(local); t != nil {
			return t, nil
		}
		return nil, NewDefinitionError(ref, "", "unknown builtin type", nil)
	case strings.HasPrefix(ref, "{"):
		ns, local, ok := strings.Cut(ref[1:], "}")
		if !ok || local == "" {
			return nil, NewDefinitionError(ref, "", "malformed qualified name", nil)
		}
		if ns == schema.XMLSchemaNamespace {
			if t := schema.Builtin(local); t != nil {
				return t, nil
			}
		}
		if t, ok := g.types[qname{ns: ns, name: local}]; ok {
			return t, nil
		}
		return nil, NewDefinitionError(ref, "", "unknown type", nil)
	}
	if t, ok := g.types[qname{ns: g.Namespace, name: ref}]; ok {
		return t, nil
	}
	var found []qname
	for _, q := range g.order {
		if q.name == ref {
			found = append(found, q)
		}
	}
	switch len(found) {
	case 1:
		return g.types[found[0]], nil
	case 0:
		if t := schema.Builtin(ref); t != nil {
			return t, nil
		}
		return nil, NewDefinitionError(ref, "", "unknown type", nil)
	default:
		names := make([]string, len(found))
		for i, q := range found {
			names[i] = q.String()
		}
		return nil, NewDefinitionError(ref, "", "ambiguous reference, use one of "+strings.Join(names, ", "), nil)
	}
}

// maxOccurs parses a number or "unbounded".
func maxOccurs(v any) (int, error) {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "unbounded") {
		return schema.Unbounded, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

func tristate(b *bool) schema.Tristate {
	if b == nil {
		return schema.Unset
	}
	return schema.TristateOf(*b)
}
