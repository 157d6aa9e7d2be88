package xsd

import (
	"io"

	"github.com/beevik/etree"

	"github.com/syssam/typexsd/schema"
)

// Marshaller turns a type graph into a root schema and its attachments.
// A Marshaller holds one session and is not safe for concurrent use.
type Marshaller struct {
	cfg *Config
	s   *session
}

// Attachment is a secondary schema document holding the definitions of
// one namespace.
type Attachment struct {
	Namespace string
	Document  *etree.Document
}

// New returns a Marshaller configured with opts.
func New(opts ...Option) (*Marshaller, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Marshaller{cfg: cfg, s: newSession(cfg)}, nil
}

// Marshal writes the schema of t to w using a new Marshaller configured
// with opts. Attachments go to the configured provider.
func Marshal(w io.Writer, t *schema.ComplexType, opts ...Option) error {
	m, err := New(opts...)
	if err != nil {
		return err
	}
	return m.Marshal(w, t)
}

// Marshal declares a root element for t, defines everything reachable from
// it and writes the documents: attachments to the provider, the root
// schema to w.
func (m *Marshaller) Marshal(w io.Writer, t *schema.ComplexType) error {
	if t == nil || schema.IsAnonymous(t) {
		return NewShapeError("", "", "root type must be a named complex type")
	}
	if m.s.started() {
		return ErrSessionInUse
	}
	m.s.start(t.Namespace(), t.ElementQualified(), t.AttributeQualified())
	root := m.s.rootSchema()
	m.s.registry.register(kindElement, m.s.namespace, t.Name())
	if err := m.s.writeMember(root, root, schema.Elem(t.Name(), t)); err != nil {
		return err
	}
	return m.Write(w)
}

// DefineElement adds a top-level element declaration. Elements without a
// name are ignored. The first definition starts the session in the
// element's namespace.
func (m *Marshaller) DefineElement(e *schema.Element) error {
	if e == nil || e.LocalName() == "" {
		return nil
	}
	ns := e.Namespace()
	if ns == "" && e.Type() != nil && !schema.IsBuiltin(e.Type()) {
		ns = e.Type().Namespace()
	}
	m.s.ensureStarted(ns)
	return m.s.defineElement(m.s.rootSchema(), e, ns)
}

// DefineSimpleType adds a global simple type definition. Anonymous and
// builtin types are ignored.
func (m *Marshaller) DefineSimpleType(t *schema.SimpleType) error {
	return m.defineType(t)
}

// DefineComplexType adds a global complex type definition. Anonymous types
// are ignored.
func (m *Marshaller) DefineComplexType(t *schema.ComplexType) error {
	return m.defineType(t)
}

func (m *Marshaller) defineType(t schema.Type) error {
	if schema.IsAnonymous(t) || schema.IsBuiltin(t) {
		return nil
	}
	m.s.ensureStarted(t.Namespace())
	return m.s.define(m.s.rootSchema(), t)
}

// Namespace returns the target namespace of the root schema.
func (m *Marshaller) Namespace() string { return m.s.namespace }

// Schema returns the root schema document, or nil before anything was
// defined.
func (m *Marshaller) Schema() *etree.Document { return m.s.schema }

// Attachments returns the attachment documents in creation order.
func (m *Marshaller) Attachments() []Attachment {
	out := make([]Attachment, 0, len(m.s.order))
	for _, ns := range m.s.order {
		out = append(out, Attachment{Namespace: ns, Document: m.s.attachments[ns]})
	}
	return out
}

// Attachment returns the attachment document of namespace, or nil.
func (m *Marshaller) Attachment(namespace string) *etree.Document {
	return m.s.attachments[namespace]
}

// Write writes every attachment to the configured provider, then the root
// schema to w. Each attachment output is closed before the next one is
// opened.
func (m *Marshaller) Write(w io.Writer) error {
	s := m.s
	if !s.started() {
		return NewStructureError("", "", "nothing was defined")
	}
	if p := s.cfg.Attachments; p != nil {
		for _, ns := range s.order {
			if err := s.writeAttachment(p, ns); err != nil {
				return err
			}
		}
	}
	if err := s.writeDocument(s.schema, w); err != nil {
		return NewRootOutputError(err)
	}
	s.log.Info("schema written",
		"namespace", s.namespace,
		"attachments", len(s.order),
		"definitions", s.registry.len(),
	)
	return nil
}

func (s *session) writeAttachment(p AttachmentProvider, namespace string) (err error) {
	out, err := p.Output(namespace)
	if err != nil {
		return NewOutputError(namespace, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = NewOutputError(namespace, cerr)
		}
	}()
	if werr := s.writeDocument(s.attachments[namespace], out); werr != nil {
		return NewOutputError(namespace, werr)
	}
	s.log.Debug("attachment written", "namespace", namespace)
	return nil
}

func (s *session) writeDocument(doc *etree.Document, w io.Writer) error {
	if s.cfg.Indent > 0 {
		doc.Indent(s.cfg.Indent)
	}
	_, err := doc.WriteTo(w)
	return err
}
