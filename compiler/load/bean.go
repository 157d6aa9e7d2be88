package load

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
	"github.com/spf13/cast"

	"github.com/syssam/typexsd/schema"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	bytesType    = reflect.TypeOf([]byte(nil))
	xmlNameType  = reflect.TypeOf(xml.Name{})
)

// FromStruct derives a complex type from the struct type of v.
//
// Struct fields map to members: exported fields become elements named in
// lower camel case, or as given by their xml tag. The xml tag options attr,
// chardata and omitempty make attributes, the simple content value and
// optional members. Pointers are optional, slices repeat without bound,
// nested structs become named complex types and an embedded struct becomes
// the super type. An XMLName field with a namespace sets the namespace of
// its struct type; other types use namespace.
//
// The xsd tag adds facets and occurrence constraints, separated by
// semicolons:
//
//	Code string `xsd:"pattern=[A-Z]{2,3};minOccurs=0"`
//	Tags []string `xsd:"maxOccurs=5;enum=a|b|c"`
//	Note string `xsd:"private;nillable=false"`
func FromStruct(v any, namespace string) (*schema.ComplexType, error) {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return nil, NewDefinitionError("", "", "nil value", nil)
	}
	rt = indirect(rt)
	if rt.Kind() != reflect.Struct {
		return nil, NewDefinitionError(rt.String(), "", "not a struct", nil)
	}
	b := &beanBuilder{namespace: namespace, types: make(map[reflect.Type]*schema.ComplexType)}
	return b.complexType(rt)
}

type beanBuilder struct {
	namespace string
	types     map[reflect.Type]*schema.ComplexType
}

func (b *beanBuilder) complexType(rt reflect.Type) (*schema.ComplexType, error) {
	if t, ok := b.types[rt]; ok {
		return t, nil
	}
	ns := b.namespace
	if f, ok := rt.FieldByName("XMLName"); ok && f.Type == xmlNameType {
		if space, _ := splitXMLName(f.Tag.Get("xml")); space != "" {
			ns = space
		}
	}
	t := schema.NewComplexType(rt.Name(), ns)
	b.types[rt] = t
	for i := range rt.NumField() {
		f := rt.Field(i)
		if f.Type == xmlNameType {
			continue
		}
		if f.Anonymous {
			if err := b.embed(t, f); err != nil {
				return nil, err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if err := b.field(t, f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// embed turns an embedded struct into the super type of t.
func (b *beanBuilder) embed(t *schema.ComplexType, f reflect.StructField) error {
	ft := indirect(f.Type)
	if ft.Kind() != reflect.Struct {
		return NewDefinitionError(t.Name(), f.Name, "only structs can be embedded", nil)
	}
	if t.SuperType() != nil {
		return NewDefinitionError(t.Name(), f.Name, "at most one struct can be embedded", nil)
	}
	super, err := b.complexType(ft)
	if err != nil {
		return err
	}
	t.Extends(super)
	return nil
}

func (b *beanBuilder) field(t *schema.ComplexType, f reflect.StructField) error {
	tag := f.Tag.Get("xml")
	if tag == "-" {
		return nil
	}
	name, opts := parseXMLTag(tag)
	if name == "" {
		name = inflect.CamelizeDownFirst(f.Name)
	}

	ft := f.Type
	optional, many := false, false
	if ft.Kind() == reflect.Pointer {
		optional, ft = true, ft.Elem()
	}
	if ft.Kind() == reflect.Slice && ft != bytesType {
		many, ft = true, indirect(ft.Elem())
	}
	typ, err := b.typeOf(ft)
	if err != nil {
		return NewDefinitionError(t.Name(), f.Name, "", err)
	}

	constraints, err := parseXSDTag(f.Tag.Get("xsd"))
	if err != nil {
		return NewDefinitionError(t.Name(), f.Name, "xsd tag", err)
	}
	if facets := constraints.facets; len(facets) > 0 {
		base, ok := typ.(*schema.SimpleType)
		if !ok {
			return NewDefinitionError(t.Name(), f.Name, "facets apply to simple types only", nil)
		}
		restricted := schema.NewSimpleType("", "").Restrict(base)
		for _, fv := range facets {
			if fv.key == schema.PropEnumeration {
				restricted.Enum(fv.values...)
				continue
			}
			restricted.Set(fv.key, fv.values[0])
		}
		typ = restricted
	}

	if opts["chardata"] {
		st, ok := typ.(*schema.SimpleType)
		if !ok {
			return NewDefinitionError(t.Name(), f.Name, "chardata must be a simple type", nil)
		}
		t.WithValue(st)
		return nil
	}

	el := schema.Elem(name, typ)
	if opts["attr"] {
		el = schema.Attr(name, typ)
	}
	if optional || opts["omitempty"] {
		el.Optional()
	}
	if many {
		el.Many()
	}
	for _, p := range constraints.props {
		el.Set(p.key, p.values[0])
	}
	if constraints.private {
		el.Private()
	}
	t.Add(el)
	return nil
}

func (b *beanBuilder) typeOf(rt reflect.Type) (schema.Type, error) {
	switch rt {
	case timeType:
		return schema.DateTime, nil
	case durationType:
		return schema.Duration, nil
	case bytesType:
		return schema.Base64Binary, nil
	}
	switch rt.Kind() {
	case reflect.String:
		return schema.String, nil
	case reflect.Bool:
		return schema.Boolean, nil
	case reflect.Int, reflect.Int64:
		return schema.Long, nil
	case reflect.Int32:
		return schema.Int, nil
	case reflect.Int16:
		return schema.Short, nil
	case reflect.Int8:
		return schema.Byte, nil
	case reflect.Uint, reflect.Uint64:
		return schema.UnsignedLong, nil
	case reflect.Uint32:
		return schema.UnsignedInt, nil
	case reflect.Uint16:
		return schema.UnsignedShort, nil
	case reflect.Uint8:
		return schema.UnsignedByte, nil
	case reflect.Float32:
		return schema.Float, nil
	case reflect.Float64:
		return schema.Double, nil
	case reflect.Struct:
		return b.complexType(rt)
	default:
		return nil, fmt.Errorf("unsupported kind %s", rt.Kind())
	}
}

// parseXMLTag splits an encoding/xml field tag into the local name and its
// options.
func parseXMLTag(tag string) (string, map[string]bool) {
	name, rest, _ := strings.Cut(tag, ",")
	opts := make(map[string]bool)
	for _, o := range strings.Split(rest, ",") {
		if o != "" {
			opts[o] = true
		}
	}
	if _, local, ok := strings.Cut(name, " "); ok {
		name = local
	}
	return name, opts
}

// splitXMLName returns the namespace and local name of an XMLName tag.
func splitXMLName(tag string) (string, string) {
	name, _, _ := strings.Cut(tag, ",")
	if space, local, ok := strings.Cut(name, " "); ok {
		return space, local
	}
	return "", name
}

type tagValue struct {
	key    schema.Property
	values []any
}

type xsdTag struct {
	facets  []tagValue
	props   []tagValue
	private bool
}

var (
	intFacets = map[string]schema.Property{
		"length":    schema.PropLength,
		"minLength": schema.PropMinLength,
		"maxLength": schema.PropMaxLength,
	}
	valueFacets = map[string]schema.Property{
		"pattern":      schema.PropPattern,
		"minInclusive": schema.PropMinInclusive,
		"minExclusive": schema.PropMinExclusive,
		"maxInclusive": schema.PropMaxInclusive,
		"maxExclusive": schema.PropMaxExclusive,
	}
)

func parseXSDTag(tag string) (xsdTag, error) {
	var out xsdTag
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		switch {
		case key == "private" && !hasValue:
			out.private = true
		case key == "enum":
			var values []any
			for _, v := range strings.Split(value, "|") {
				values = append(values, v)
			}
			out.facets = append(out.facets, tagValue{schema.PropEnumeration, values})
		case intFacets[key] != "":
			n, err := cast.ToIntE(value)
			if err != nil || n < 0 {
				return out, fmt.Errorf("%s: invalid length %q", key, value)
			}
			out.facets = append(out.facets, tagValue{intFacets[key], []any{n}})
		case valueFacets[key] != "":
			out.facets = append(out.facets, tagValue{valueFacets[key], []any{value}})
		case key == "minOccurs":
			n, err := cast.ToIntE(value)
			if err != nil || n < 0 {
				return out, fmt.Errorf("minOccurs: invalid value %q", value)
			}
			out.props = append(out.props, tagValue{schema.PropMinOccurs, []any{n}})
		case key == "maxOccurs":
			n, err := maxOccurs(value)
			if err != nil {
				return out, fmt.Errorf("maxOccurs: %w", err)
			}
			out.props = append(out.props, tagValue{schema.PropMaxOccurs, []any{n}})
		case key == "nillable":
			b, err := cast.ToBoolE(value)
			if err != nil {
				return out, fmt.Errorf("nillable: %w", err)
			}
			out.props = append(out.props, tagValue{schema.PropNillable, []any{b}})
		default:
			return out, fmt.Errorf("unknown key %q", key)
		}
	}
	return out, nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
