package xsd

// defKind separates the symbol spaces of XSD: types and elements may share
// a name within one namespace.
type defKind uint8

const (
	kindComplexType defKind = iota
	kindSimpleType
	kindElement
)

func (k defKind) String() string {
	switch k {
	case kindComplexType:
		return "complexType"
	case kindSimpleType:
		return "simpleType"
	default:
		return "element"
	}
}

type defKey struct {
	kind      defKind
	namespace string
	name      string
}

// registry records the named definitions already emitted in a session.
type registry struct {
	defs  map[defKey]struct{}
	order []defKey
}

func newRegistry() *registry {
	return &registry{defs: make(map[defKey]struct{})}
}

func (r *registry) isRegistered(kind defKind, namespace, name string) bool {
	_, ok := r.defs[defKey{kind, namespace, name}]
	return ok
}

func (r *registry) register(kind defKind, namespace, name string) {
	k := defKey{kind, namespace, name}
	if _, ok := r.defs[k]; ok {
		return
	}
	r.defs[k] = struct{}{}
	r.order = append(r.order, k)
}

// claim registers the name and reports whether the caller now owns writing
// its body. It is the only path through which definitions are written.
func (r *registry) claim(kind defKind, namespace, name string) bool {
	if r.isRegistered(kind, namespace, name) {
		return false
	}
	r.register(kind, namespace, name)
	return true
}

func (r *registry) len() int { return len(r.order) }
