package xsd

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typexsd/schema"
)

const (
	rootNS  = "urn:example:root"
	otherNS = "urn:example:other"
	thirdNS = "urn:example:third"
)

func quiet() Option { return WithLogger(slog.New(slog.DiscardHandler)) }

// newTestSession returns a started session without any traversal.
func newTestSession(t *testing.T, ns string, opts ...Option) *session {
	t.Helper()
	cfg, err := NewConfig(append([]Option{quiet()}, opts...)...)
	require.NoError(t, err)
	s := newSession(cfg)
	s.start(ns, schema.Unset, schema.Unset)
	return s
}

func imports(root *etree.Element) []*etree.Element {
	return root.SelectElements(tagImport)
}

func TestRegistry(t *testing.T) {
	t.Run("claim once", func(t *testing.T) {
		r := newRegistry()
		assert.True(t, r.claim(kindComplexType, rootNS, "AType"))
		assert.False(t, r.claim(kindComplexType, rootNS, "AType"))
		assert.True(t, r.isRegistered(kindComplexType, rootNS, "AType"))
		assert.Equal(t, 1, r.len())
	})

	t.Run("symbol spaces are separate", func(t *testing.T) {
		r := newRegistry()
		assert.True(t, r.claim(kindComplexType, rootNS, "A"))
		assert.True(t, r.claim(kindSimpleType, rootNS, "A"))
		assert.True(t, r.claim(kindElement, rootNS, "A"))
		assert.True(t, r.claim(kindElement, otherNS, "A"))
		assert.Equal(t, 4, r.len())
	})

	t.Run("register is idempotent", func(t *testing.T) {
		r := newRegistry()
		r.register(kindElement, "", "root")
		r.register(kindElement, "", "root")
		assert.Equal(t, 1, r.len())
		assert.False(t, r.claim(kindElement, "", "root"))
	})
}

func TestSessionStart(t *testing.T) {
	t.Run("root schema attributes", func(t *testing.T) {
		s := newTestSession(t, rootNS, WithElementQualified(schema.True))
		root := s.rootSchema()
		require.NotNil(t, root)
		assert.Equal(t, schema.XMLSchemaNamespace, root.SelectAttrValue("xmlns", ""))
		assert.Equal(t, "qualified", root.SelectAttrValue("elementFormDefault", ""))
		assert.Nil(t, root.SelectAttr("attributeFormDefault"))
		assert.Equal(t, rootNS, root.SelectAttrValue("targetNamespace", ""))
		assert.Equal(t, rootNS, root.SelectAttrValue("xmlns:tns", ""))
	})

	t.Run("no namespace", func(t *testing.T) {
		s := newTestSession(t, "")
		root := s.rootSchema()
		assert.Nil(t, root.SelectAttr("targetNamespace"))
		assert.Nil(t, root.SelectAttr("xmlns:tns"))
	})

	t.Run("qualification precedence", func(t *testing.T) {
		cfg, err := NewConfig(quiet(), WithElementQualified(schema.False))
		require.NoError(t, err)
		s := newSession(cfg)
		s.start(rootNS, schema.True, schema.True)
		assert.False(t, s.elementQualified)
		assert.True(t, s.attributeQualified)
	})

	t.Run("empty namespace inherits root", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		assert.Equal(t, rootNS, s.namespaceOf(schema.NewComplexType("A", "")))
		assert.Equal(t, otherNS, s.namespaceOf(schema.NewComplexType("A", otherNS)))
	})

	t.Run("type names", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		assert.Equal(t, "int", s.typeName(schema.Int))
		assert.Equal(t, "CompanyType", s.typeName(schema.NewComplexType("Company", rootNS)))
		assert.Equal(t, "company", s.typeName(schema.NewComplexType("Company", rootNS).WithID("company")))
		assert.Equal(t, "zip", s.typeName(schema.NewSimpleType("Zip", rootNS).WithID("zip")))
	})
}

func TestPrefixFor(t *testing.T) {
	t.Run("builtin namespace is unprefixed", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		p, err := s.prefixFor(s.rootSchema(), schema.XMLSchemaNamespace)
		require.NoError(t, err)
		assert.Empty(t, p)
	})

	t.Run("root namespace", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		p, err := s.prefixFor(s.rootSchema(), rootNS)
		require.NoError(t, err)
		assert.Equal(t, "tns", p)
	})

	t.Run("both namespaces empty", func(t *testing.T) {
		s := newTestSession(t, "")
		p, err := s.prefixFor(etree.NewElement("element"), "")
		require.NoError(t, err)
		assert.Equal(t, "tns", p)
	})

	t.Run("allocation is idempotent and increasing", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		seq := s.rootSchema().CreateElement("complexType").CreateElement("sequence")

		p0, err := s.prefixFor(seq, otherNS)
		require.NoError(t, err)
		p1, err := s.prefixFor(s.rootSchema(), thirdNS)
		require.NoError(t, err)
		again, err := s.prefixFor(seq, otherNS)
		require.NoError(t, err)

		assert.Equal(t, "tns0", p0)
		assert.Equal(t, "tns1", p1)
		assert.Equal(t, p0, again)
		assert.Equal(t, otherNS, s.rootSchema().SelectAttrValue("xmlns:tns0", ""))
		assert.Equal(t, thirdNS, s.rootSchema().SelectAttrValue("xmlns:tns1", ""))
	})

	t.Run("continues after highest binding", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		s.rootSchema().CreateAttr("xmlns:tns4", "urn:example:preset")
		p, err := s.prefixFor(s.rootSchema(), otherNS)
		require.NoError(t, err)
		assert.Equal(t, "tns5", p)
	})

	t.Run("prefixes are per document", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		att, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)

		p, err := s.prefixFor(att, thirdNS)
		require.NoError(t, err)
		assert.Equal(t, "tns0", p)
		assert.Equal(t, thirdNS, att.SelectAttrValue("xmlns:tns0", ""))
		assert.Nil(t, s.rootSchema().SelectAttr("xmlns:tns1"))
	})

	t.Run("attachment binds root namespace", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		att, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)

		own, err := s.prefixFor(att, otherNS)
		require.NoError(t, err)
		assert.Equal(t, "tns", own)

		back, err := s.prefixFor(att, rootNS)
		require.NoError(t, err)
		assert.Equal(t, "tns0", back)
	})

	t.Run("detached node", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		_, err := s.prefixFor(etree.NewElement("element"), otherNS)
		require.Error(t, err)
		assert.True(t, IsStructureError(err))
		assert.True(t, errors.Is(err, ErrStructure))
	})
}

func TestTargetSchema(t *testing.T) {
	t.Run("root namespace", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		target, err := s.targetSchema(s.rootSchema(), rootNS)
		require.NoError(t, err)
		assert.Same(t, s.rootSchema(), target)
		assert.Empty(t, s.order)
		assert.Empty(t, imports(s.rootSchema()))
	})

	t.Run("builtin namespace", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		_, err := s.targetSchema(s.rootSchema(), schema.XMLSchemaNamespace)
		assert.True(t, IsStructureError(err))
	})

	t.Run("foreign namespace creates and imports once", func(t *testing.T) {
		s := newTestSession(t, rootNS, WithElementQualified(schema.True))
		s.rootSchema().CreateElement("complexType")

		first, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)
		second, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, []string{otherNS}, s.order)
		assert.Equal(t, otherNS, first.SelectAttrValue("targetNamespace", ""))
		assert.Equal(t, "qualified", first.SelectAttrValue("elementFormDefault", ""))

		imps := imports(s.rootSchema())
		require.Len(t, imps, 1)
		assert.Equal(t, otherNS, imps[0].SelectAttrValue("namespace", ""))
		assert.Equal(t, "attachments:/"+otherNS, imps[0].SelectAttrValue("schemaLocation", ""))
		assert.Equal(t, tagImport, s.rootSchema().ChildElements()[0].Tag)
	})

	t.Run("imports precede other children", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		s.rootSchema().CreateElement("element")
		_, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)
		_, err = s.targetSchema(s.rootSchema(), thirdNS)
		require.NoError(t, err)

		children := s.rootSchema().ChildElements()
		require.Len(t, children, 3)
		assert.Equal(t, tagImport, children[0].Tag)
		assert.Equal(t, tagImport, children[1].Tag)
		assert.Equal(t, "element", children[2].Tag)
	})

	t.Run("nested attachment imports into both documents", func(t *testing.T) {
		s := newTestSession(t, rootNS)
		other, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)
		third, err := s.targetSchema(other.CreateElement("complexType"), thirdNS)
		require.NoError(t, err)

		assert.Equal(t, thirdNS, third.SelectAttrValue("targetNamespace", ""))
		assert.Len(t, imports(s.rootSchema()), 2)
		require.Len(t, imports(other), 1)
		assert.Equal(t, thirdNS, imports(other)[0].SelectAttrValue("namespace", ""))
		assert.Empty(t, imports(third))
	})

	t.Run("attachment imports root namespace", func(t *testing.T) {
		s := newTestSession(t, rootNS, WithRootLocation("root.xsd"))
		other, err := s.targetSchema(s.rootSchema(), otherNS)
		require.NoError(t, err)

		target, err := s.targetSchema(other, rootNS)
		require.NoError(t, err)
		assert.Same(t, s.rootSchema(), target)
		require.Len(t, imports(other), 1)
		assert.Equal(t, rootNS, imports(other)[0].SelectAttrValue("namespace", ""))
		assert.Equal(t, "root.xsd", imports(other)[0].SelectAttrValue("schemaLocation", ""))
	})

	t.Run("schema location", func(t *testing.T) {
		tests := []struct {
			name string
			opts []Option
			want *string
		}{
			{name: "default", want: ptr("attachments:/" + otherNS)},
			{name: "omitted", opts: []Option{WithSchemaLocation(false)}},
			{
				name: "provider",
				opts: []Option{WithAttachmentProvider(DirProvider{Prefix: "p."})},
				want: ptr("p.urn_example_other.xsd"),
			},
			{
				name: "provider without location",
				opts: []Option{WithAttachmentProvider(&MemoryProvider{Location: func(string) string { return "" }})},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newTestSession(t, rootNS, tt.opts...)
				_, err := s.targetSchema(s.rootSchema(), otherNS)
				require.NoError(t, err)
				imp := imports(s.rootSchema())[0]
				if tt.want == nil {
					assert.Nil(t, imp.SelectAttr("schemaLocation"))
					return
				}
				assert.Equal(t, *tt.want, imp.SelectAttrValue("schemaLocation", ""))
			})
		}
	})
}

func ptr[T any](v T) *T { return &v }
