// Package load builds type graphs for the XSD compiler from model files
// and from Go struct types.
//
// A model file lists named types. References between them use a bare name,
// a qualified name "{namespace}name" or, for builtin XSD types, "xs:name":
//
//	namespace: urn:example:company
//	roots: [Company]
//	types:
//	  - name: Company
//	    fields:
//	      - {name: name, type: xs:string, attribute: true}
//	      - {name: employees, type: "{urn:example:hr}Employee", maxOccurs: unbounded}
//	  - name: Employee
//	    namespace: urn:example:hr
//	    fields:
//	      - {name: firstName, type: string}
//
// Types are declared before they are filled, so definitions may appear in
// any order and may reference each other recursively.
package load
