// Package xsd compiles a type graph into XML Schema documents.
//
// A [Marshaller] walks the graph reachable from a root [schema.ComplexType]
// and produces one root schema plus one attachment per foreign namespace.
// Definitions land in the schema of their own namespace; every document
// that references a foreign namespace imports it and binds a prefix for it.
//
// # Pipeline
//
//	root type
//	    ↓
//	root element (named after the type, nillable)
//	    ↓
//	definitions, written once per (kind, namespace, name)
//	    ↓
//	root schema + attachments (etree documents)
//	    ↓
//	attachments → AttachmentProvider, root schema → io.Writer
//
// # Quick Start
//
//	var buf bytes.Buffer
//	err := xsd.Marshal(&buf, company,
//	    xsd.WithElementQualified(schema.True),
//	    xsd.WithAttachmentProvider(xsd.DirProvider{Dir: "out"}),
//	)
//
// For several roots at once, [DirWriter] runs one session per root in
// parallel:
//
//	w := xsd.NewDirWriter("out", xsd.WithExtension(true)).WithWorkers(4)
//	if err := w.Generate(ctx, company, invoice); err != nil {
//	    return err
//	}
//
// # Naming
//
// Builtin types keep their XSD name. A type with a global identifier is
// named after it. Other named types get a "Type" suffix, so a type Company
// is defined as CompanyType. The root namespace is bound to prefix "tns";
// foreign namespaces get tns0, tns1 and so on, per document.
//
// # Error Handling
//
//   - ShapeError: the graph uses a construct XSD output cannot express
//   - StructureError: a traversal invariant was broken
//   - OutputError: an attachment or the root schema could not be written
//   - ConfigError: an option got an invalid value
//   - ValueError: a property value could not be converted to text
//
// Example error handling:
//
//	if err := m.Marshal(w, root); err != nil {
//	    if xsd.IsShapeError(err) {
//	        // fix the model
//	    }
//	    if errors.Is(err, xsd.ErrOutput) {
//	        // check the destination
//	    }
//	}
package xsd
