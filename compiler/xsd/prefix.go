package xsd

import (
	"regexp"
	"strconv"

	"github.com/beevik/etree"

	"github.com/syssam/typexsd/schema"
)

// rootPrefix is bound to the target namespace of every document.
const rootPrefix = "tns"

var generatedPrefix = regexp.MustCompile(`^` + rootPrefix + `([0-9]+)$`)

// prefixFor returns the prefix that designates namespace in the document
// holding node, binding a fresh one on its schema element when needed.
// The XSD namespace is the default namespace and has the empty prefix.
func (s *session) prefixFor(node *etree.Element, namespace string) (string, error) {
	if namespace == schema.XMLSchemaNamespace {
		return "", nil
	}
	root := schemaOf(node)
	// Inside an attachment tns designates the attachment's own namespace,
	// so a non-empty root namespace is bound like any other.
	if namespace == s.namespace && (namespace == "" || root == nil || root == s.rootSchema()) {
		return rootPrefix, nil
	}
	if root == nil {
		return "", NewStructureError(nodeName(node), namespace, "node is not inside a schema element")
	}
	highest := -1
	for _, a := range root.Attr {
		if a.Space != "xmlns" {
			continue
		}
		if a.Value == namespace {
			return a.Key, nil
		}
		if m := generatedPrefix.FindStringSubmatch(a.Key); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
				highest = n
			}
		}
	}
	prefix := rootPrefix + strconv.Itoa(highest+1)
	root.CreateAttr("xmlns:"+prefix, namespace)
	s.log.Debug("prefix bound", "prefix", prefix, "namespace", namespace,
		"document", root.SelectAttrValue("targetNamespace", ""))
	return prefix, nil
}

// qualifiedName returns the prefixed name of the named type t as seen from
// the document holding node.
func (s *session) qualifiedName(node *etree.Element, t schema.Type) (string, error) {
	prefix, err := s.prefixFor(node, s.namespaceOf(t))
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return s.typeName(t), nil
	}
	return prefix + ":" + s.typeName(t), nil
}

func nodeName(node *etree.Element) string {
	if node == nil {
		return "<nil>"
	}
	return node.FullTag()
}
