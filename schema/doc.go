// Package schema provides the type model consumed by the XSD compiler.
//
// A model is a graph of [Type] values: scalar [SimpleType]s carrying
// restriction facets and record-like [ComplexType]s holding ordered
// [Element] members. Members may be grouped into mutually exclusive
// [Group]s of kind [ChoiceGroup]. Every entity and member carries a
// [Properties] bag whose keys double as XSD attribute and facet names.
//
// # Quick Start
//
//	employee := schema.NewComplexType("Employee", "urn:example:hr").
//	    Add(
//	        schema.Attr("id", schema.String),
//	        schema.Elem("firstName", schema.String),
//	        schema.Elem("age", schema.Int).Optional(),
//	    )
//
//	company := schema.NewComplexType("Company", "urn:example:company").
//	    Add(
//	        schema.Attr("name", schema.String),
//	        schema.Elem("address", schema.NewSimpleType("", "").Pattern(".+")),
//	        schema.Elem("employees", employee).Optional().Many(),
//	    )
//
// # Types
//
// Types without a name are anonymous and are always inlined at the point of
// use. Named types are emitted once per schema document set. A type with an
// empty namespace belongs to the namespace of the schema that references it.
//
// Builtin XSD types live in [XMLSchemaNamespace] and are referenced by their
// bare name:
//
//	schema.String   // xs:string
//	schema.Int      // xs:int
//	schema.DateTime // xs:dateTime
//	schema.Builtin("gYear")
//
// # Members
//
// [Elem] declares a child element and [Attr] an attribute. A member whose
// name starts with "@" is treated as an attribute as well.
//
//	schema.Elem("items", item).Optional().Many()  // minOccurs=0 maxOccurs=unbounded
//	schema.Elem("note", schema.String).Nillable(false)
//	schema.Elem("secret", schema.String).Private()
//
// # Choice Groups
//
//	payment := schema.NewComplexType("Payment", ns)
//	payment.Choice(
//	    schema.Elem("card", card),
//	    schema.Elem("transfer", transfer),
//	    schema.Elem("cash", schema.Decimal),
//	)
package schema
