package xsd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/beevik/etree"

	"github.com/syssam/typexsd/schema"
)

var (
	// occursProps are copied onto element and choice nodes.
	occursProps = []schema.Property{schema.PropMinOccurs, schema.PropMaxOccurs}

	// complexProps are copied onto complexType nodes.
	complexProps = []schema.Property{schema.PropMinOccurs, schema.PropMaxOccurs, schema.PropNillable}

	// facetProps are rendered as restriction facets, in this order.
	facetProps = []schema.Property{
		schema.PropMinLength,
		schema.PropMaxLength,
		schema.PropMinInclusive,
		schema.PropMinExclusive,
		schema.PropMaxInclusive,
		schema.PropMaxExclusive,
		schema.PropPattern,
		schema.PropLength,
		schema.PropEnumeration,
	}
)

// define writes the definition of t. Named types are written once, in the
// schema of their namespace; anonymous types are written inline under
// parent. Builtin types are never written.
func (s *session) define(parent *etree.Element, t schema.Type) error {
	if t == nil || schema.IsBuiltin(t) {
		return nil
	}
	switch tt := t.(type) {
	case *schema.SimpleType:
		if schema.IsAnonymous(tt) {
			return s.writeSimpleType(parent, tt)
		}
		return s.defineOnce(parent, kindSimpleType, s.namespaceOf(tt), s.typeName(tt), func(target *etree.Element) error {
			return s.writeSimpleType(target, tt)
		})
	case *schema.ComplexType:
		if schema.IsAnonymous(tt) {
			return s.writeComplexType(parent, tt)
		}
		return s.defineOnce(parent, kindComplexType, s.namespaceOf(tt), s.typeName(tt), func(target *etree.Element) error {
			return s.writeComplexType(target, tt)
		})
	default:
		return NewShapeError(t.Name(), "", fmt.Sprintf("unsupported type implementation %T", t))
	}
}

// defineOnce resolves the target schema and writes the body only if the
// name was not claimed before. The name is claimed before the body is
// written, so self references terminate.
func (s *session) defineOnce(parent *etree.Element, kind defKind, namespace, name string, write func(*etree.Element) error) error {
	target, err := s.targetSchema(parent, namespace)
	if err != nil {
		return err
	}
	if !s.registry.claim(kind, namespace, name) {
		return nil
	}
	s.log.Debug("defining", "kind", kind, "namespace", namespace, "name", name)
	return write(target)
}

// reference defines the named type t if needed and returns its qualified
// name as seen from node.
func (s *session) reference(node *etree.Element, t schema.Type) (string, error) {
	if err := s.define(node, t); err != nil {
		return "", err
	}
	return s.qualifiedName(node, t)
}

// defineElement writes a top-level element declaration once.
func (s *session) defineElement(parent *etree.Element, e *schema.Element, namespace string) error {
	if namespace == schema.XMLSchemaNamespace {
		return nil
	}
	if strings.TrimSpace(namespace) == "" {
		namespace = s.namespace
	}
	return s.defineOnce(parent, kindElement, namespace, e.LocalName(), func(target *etree.Element) error {
		return s.writeMember(target, target, e)
	})
}

func (s *session) writeComplexType(parent *etree.Element, t *schema.ComplexType) error {
	node := parent.CreateElement("complexType")
	if isSchema(parent) {
		node.CreateAttr("name", s.typeName(t))
	}
	if err := s.writeProperties(node, t.Properties(), complexProps); err != nil {
		return err
	}

	// container receives elements, attrHost receives attributes. Simple
	// content has no container.
	var container, attrHost *etree.Element
	children := t.AllChildren()
	switch super := namedSuper(t); {
	case t.SimpleContent() != nil:
		ext := node.CreateElement("simpleContent").CreateElement("extension")
		var (
			base string
			err  error
		)
		if s.cfg.UseExtension && super != nil && t.ValueMember() == nil {
			// The value is inherited: extend the simple content super type.
			base, err = s.reference(ext, super)
			children = t.Children()
		} else {
			base, err = s.valueBase(ext, t)
		}
		if err != nil {
			return err
		}
		ext.CreateAttr("base", base)
		attrHost = ext
	case s.cfg.UseExtension && super != nil:
		ext := node.CreateElement("complexContent").CreateElement("extension")
		base, err := s.reference(ext, super)
		if err != nil {
			return err
		}
		ext.CreateAttr("base", base)
		container = ext.CreateElement("sequence")
		attrHost = ext
		children = t.Children()
	default:
		container = node.CreateElement("sequence")
		attrHost = node
	}

	processed := make(map[*schema.Element]bool)
	for _, child := range children {
		if processed[child] || t.IsValueMember(child) || s.hidden(child) {
			continue
		}
		g := t.GroupOf(child)
		if g == nil {
			if err := s.writeChild(t, container, attrHost, child); err != nil {
				return err
			}
			continue
		}
		if g.Kind != schema.ChoiceGroup {
			return NewShapeError(t.Name(), child.Name(), "only choice groups are supported, got "+g.Kind.String())
		}
		if container == nil {
			return NewShapeError(t.Name(), child.Name(), "simple content types cannot declare choices")
		}
		choice := container.CreateElement("choice")
		if err := s.writeProperties(choice, g.Properties(), occursProps); err != nil {
			return err
		}
		members := append([]*schema.Element{child}, g.Members...)
		for _, m := range members {
			if processed[m] || s.hidden(m) {
				continue
			}
			processed[m] = true
			if err := s.writeChild(t, choice, attrHost, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// valueBase defines the simple content value type of t and returns its
// qualified name. An anonymous value type cannot be an extension base, so it
// is promoted to a global simple type named after t.
func (s *session) valueBase(ext *etree.Element, t *schema.ComplexType) (string, error) {
	vt := t.ValueType()
	if vt == nil {
		return "", NewShapeError(t.Name(), schema.ValueName, "simple content value must be a simple type")
	}
	if schema.IsBuiltin(vt) || !schema.IsAnonymous(vt) {
		return s.reference(ext, vt)
	}
	named, ok := s.values[vt]
	if !ok {
		if schema.IsAnonymous(t) {
			return "", NewShapeError("", schema.ValueName, "an anonymous simple content type needs a named value type")
		}
		named = schema.NewSimpleType(t.Name()+"Value", t.Namespace())
		if super := vt.SuperType(); super != nil {
			named.Restrict(super)
		}
		for _, k := range vt.Properties().Keys() {
			v, _ := vt.Properties().Get(k)
			named.Set(k, v)
		}
		s.values[vt] = named
	}
	return s.reference(ext, named)
}

// writeChild writes one member of t, rejecting elements where only
// attributes are allowed.
func (s *session) writeChild(t *schema.ComplexType, container, attrHost *etree.Element, e *schema.Element) error {
	if container == nil && !e.IsAttribute() {
		return NewShapeError(t.Name(), e.Name(), "simple content types can only declare attributes")
	}
	return s.writeMember(container, attrHost, e)
}

func (s *session) hidden(e *schema.Element) bool {
	return s.cfg.HidePrivate && e.Properties().Scope() == schema.Private
}

// namedSuper returns the super type of t when it can be referenced as an
// extension base.
func namedSuper(t *schema.ComplexType) *schema.ComplexType {
	super, ok := t.SuperType().(*schema.ComplexType)
	if !ok || super == nil || schema.IsAnonymous(super) {
		return nil
	}
	return super
}

// writeMember writes an element node into container, or an attribute node
// into attrHost, and then its type.
func (s *session) writeMember(container, attrHost *etree.Element, e *schema.Element) error {
	t := e.Type()
	if t == nil {
		return NewShapeError("", e.Name(), "member has no type")
	}
	name := e.LocalName()
	if name == "" {
		name = strings.TrimPrefix(t.Name(), schema.AttributeMarker)
	}
	var node *etree.Element
	if e.IsAttribute() {
		node = attrHost.CreateElement("attribute")
		node.CreateAttr("name", name)
		if e.Properties().Int(schema.PropMinOccurs, 1) == 0 {
			node.CreateAttr("use", "optional")
		}
	} else {
		node = container.CreateElement("element")
		node.CreateAttr("name", name)
		if !isSchema(container) {
			if err := s.writeProperties(node, e.Properties(), occursProps); err != nil {
				return err
			}
		}
		// Elements are nillable unless stated otherwise.
		if e.Properties().Bool(schema.PropNillable) != schema.False {
			node.CreateAttr("nillable", "true")
		}
	}
	return s.writeMemberType(node, t)
}

// writeMemberType references the named type t from node, or writes it
// inline when it is anonymous or anonymous complex types are forced.
func (s *session) writeMemberType(node *etree.Element, t schema.Type) error {
	if schema.IsAnonymous(t) {
		return s.define(node, t)
	}
	if ct, ok := t.(*schema.ComplexType); ok && s.inlineable(node, ct) {
		s.inlining[ct] = true
		defer delete(s.inlining, ct)
		return s.writeComplexType(node, ct)
	}
	ref, err := s.reference(node, t)
	if err != nil {
		return err
	}
	node.CreateAttr("type", ref)
	return nil
}

// inlineable reports whether the named complex type ct is inlined at node.
// A type already being inlined on the current path is referenced instead,
// which ends recursive structures.
func (s *session) inlineable(node *etree.Element, ct *schema.ComplexType) bool {
	if !s.cfg.ForceAnonymousComplexTypes || schema.IsBuiltin(ct) || s.inlining[ct] {
		return false
	}
	return s.namespaceOf(ct) == documentNamespace(node)
}

func (s *session) writeSimpleType(parent *etree.Element, t *schema.SimpleType) error {
	node := parent.CreateElement("simpleType")
	if isSchema(parent) {
		node.CreateAttr("name", s.typeName(t))
	}
	restriction := node.CreateElement("restriction")
	switch super := t.SuperType(); {
	case super == nil:
		restriction.CreateAttr("base", schema.String.Name())
	case schema.IsAnonymous(super):
		if _, ok := super.(*schema.SimpleType); !ok {
			return NewShapeError(t.Name(), "", "simple types can only restrict simple types")
		}
		if err := s.define(restriction, super); err != nil {
			return err
		}
	default:
		if _, ok := super.(*schema.SimpleType); !ok {
			return NewShapeError(t.Name(), "", "simple types can only restrict simple types")
		}
		base, err := s.reference(restriction, super)
		if err != nil {
			return err
		}
		restriction.CreateAttr("base", base)
	}
	for _, p := range facetProps {
		v, ok := t.Properties().Get(p)
		if !ok {
			continue
		}
		values := []any{v}
		if p == schema.PropEnumeration {
			values = listOf(v)
		}
		for _, item := range values {
			text, err := s.convert(p, item)
			if err != nil {
				return err
			}
			restriction.CreateElement(string(p)).CreateAttr("value", text)
		}
	}
	return nil
}

// writeProperties copies the whitelisted properties present in props onto
// node as attributes.
func (s *session) writeProperties(node *etree.Element, props *schema.Properties, keys []schema.Property) error {
	for _, k := range keys {
		v, ok := props.Get(k)
		if !ok {
			continue
		}
		if k == schema.PropMaxOccurs && props.Int(k, 0) < 0 {
			node.CreateAttr(string(k), "unbounded")
			continue
		}
		text, err := s.convert(k, v)
		if err != nil {
			return err
		}
		node.CreateAttr(string(k), text)
	}
	return nil
}

func (s *session) convert(p schema.Property, v any) (string, error) {
	text, err := s.cfg.Converter.Convert(v)
	if err != nil {
		return "", NewValueError(string(p), v, err)
	}
	return text, nil
}

// listOf spreads slices and arrays into their elements.
func listOf(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
