package xsd

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/syssam/typexsd/schema"
)

// Tags of the schema vocabulary. Documents declare the XSD namespace as the
// default namespace, so tags are unprefixed.
const (
	tagSchema = "schema"
	tagImport = "import"
)

// session is the mutable state of one marshalling run. It owns every
// document it creates and is threaded through the whole traversal.
type session struct {
	cfg *Config
	log *slog.Logger

	// namespace is the target namespace of the root schema.
	namespace string
	schema    *etree.Document

	// attachments maps secondary namespaces to their documents; order keeps
	// creation order for deterministic output.
	attachments map[string]*etree.Document
	order       []string

	registry *registry

	elementQualified   bool
	attributeQualified bool

	// inlining holds the complex types currently being inlined on the
	// traversal path when anonymous complex types are forced.
	inlining map[*schema.ComplexType]bool

	// values maps anonymous simple content value types to the named types
	// they are promoted to.
	values map[*schema.SimpleType]*schema.SimpleType
}

func newSession(cfg *Config) *session {
	return &session{
		cfg:         cfg,
		log:         cfg.Logger.With("session", uuid.NewString()),
		attachments: make(map[string]*etree.Document),
		registry:    newRegistry(),
		inlining:    make(map[*schema.ComplexType]bool),
		values:      make(map[*schema.SimpleType]*schema.SimpleType),
	}
}

func (s *session) started() bool { return s.schema != nil }

// start creates the root schema. Qualification defaults resolve here, once:
// configuration first, then what the root type requests, then false.
func (s *session) start(namespace string, elementQualified, attributeQualified schema.Tristate) {
	s.elementQualified = s.cfg.ElementQualified.Or(elementQualified).Bool(false)
	s.attributeQualified = s.cfg.AttributeQualified.Or(attributeQualified).Bool(false)
	s.namespace = namespace
	s.schema = s.newDocument(namespace)
	s.log.Debug("root schema created",
		"namespace", namespace,
		"elementQualified", s.elementQualified,
		"attributeQualified", s.attributeQualified,
	)
}

// ensureStarted starts the session with namespace unless a root schema
// already exists.
func (s *session) ensureStarted(namespace string) {
	if !s.started() {
		s.start(namespace, schema.Unset, schema.Unset)
	}
}

func (s *session) rootSchema() *etree.Element { return s.schema.Root() }

func (s *session) newDocument(namespace string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(tagSchema)
	root.CreateAttr("xmlns", schema.XMLSchemaNamespace)
	if s.elementQualified {
		root.CreateAttr("elementFormDefault", "qualified")
	}
	if s.attributeQualified {
		root.CreateAttr("attributeFormDefault", "qualified")
	}
	if namespace != "" {
		root.CreateAttr("targetNamespace", namespace)
		root.CreateAttr("xmlns:"+rootPrefix, namespace)
	}
	return doc
}

// namespaceOf resolves the namespace of t. Types without one belong to the
// root schema.
func (s *session) namespaceOf(t schema.Type) string {
	if ns := t.Namespace(); strings.TrimSpace(ns) != "" {
		return ns
	}
	return s.namespace
}

// typeName returns the XSD name of a named type: the builtin name, the
// global identifier, or the name with a "Type" suffix.
func (s *session) typeName(t schema.Type) string {
	if schema.IsBuiltin(t) {
		return t.Name()
	}
	if id, ok := t.(schema.Identified); ok && id.ID() != "" {
		return id.ID()
	}
	return t.Name() + "Type"
}

// schemaOf returns the schema element enclosing node, or nil.
func schemaOf(node *etree.Element) *etree.Element {
	for n := node; n != nil; n = n.Parent() {
		if isSchema(n) {
			return n
		}
	}
	return nil
}

func isSchema(node *etree.Element) bool {
	return node != nil && node.Space == "" && node.Tag == tagSchema
}

// documentNamespace returns the target namespace of the document holding node.
func documentNamespace(node *etree.Element) string {
	if root := schemaOf(node); root != nil {
		return root.SelectAttrValue("targetNamespace", "")
	}
	return ""
}
