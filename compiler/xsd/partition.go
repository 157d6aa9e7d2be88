package xsd

import (
	"github.com/beevik/etree"

	"github.com/syssam/typexsd/schema"
)

// defaultLocationScheme prefixes schemaLocation values when no attachment
// provider decides them.
const defaultLocationScheme = "attachments:/"

// targetSchema returns the schema element where a definition of namespace
// belongs. Definitions of the root namespace go to the root schema; others
// go to the attachment of their namespace, which is created and imported
// on first use.
func (s *session) targetSchema(parent *etree.Element, namespace string) (*etree.Element, error) {
	if namespace == schema.XMLSchemaNamespace {
		return nil, NewStructureError(nodeName(parent), namespace, "builtin types are never defined")
	}
	if namespace == s.namespace {
		if owner := schemaOf(parent); namespace != "" && owner != nil && owner != s.rootSchema() {
			if _, err := s.prefixFor(parent, namespace); err != nil {
				return nil, err
			}
			s.importSchema(owner, namespace)
		}
		return s.rootSchema(), nil
	}
	if _, err := s.prefixFor(parent, namespace); err != nil {
		return nil, err
	}
	doc, ok := s.attachments[namespace]
	if !ok {
		doc = s.newDocument(namespace)
		s.attachments[namespace] = doc
		s.order = append(s.order, namespace)
		s.log.Debug("attachment created", "namespace", namespace)
	}
	s.importSchema(s.rootSchema(), namespace)
	if owner := schemaOf(parent); owner != nil && owner != s.rootSchema() && owner != doc.Root() {
		s.importSchema(owner, namespace)
	}
	return doc.Root(), nil
}

// importSchema adds an import of namespace to root unless one exists.
// Imports precede every other child of a schema.
func (s *session) importSchema(root *etree.Element, namespace string) {
	for _, child := range root.ChildElements() {
		if child.Tag == tagImport && child.SelectAttrValue("namespace", "") == namespace {
			return
		}
	}
	imp := etree.NewElement(tagImport)
	imp.CreateAttr("namespace", namespace)
	if loc, ok := s.schemaLocation(namespace); ok {
		imp.CreateAttr("schemaLocation", loc)
	}
	root.InsertChildAt(0, imp)
}

func (s *session) schemaLocation(namespace string) (string, bool) {
	if !s.cfg.IncludeSchemaLocation {
		return "", false
	}
	if namespace == s.namespace {
		return s.cfg.RootLocation, s.cfg.RootLocation != ""
	}
	if s.cfg.Attachments == nil {
		return defaultLocationScheme + namespace, true
	}
	loc := s.cfg.Attachments.URI(namespace)
	return loc, loc != ""
}
