package schema

// XMLSchemaNamespace is the namespace of XML Schema itself and of its
// builtin types.
const XMLSchemaNamespace = "http://www.w3.org/2001/XMLSchema"

// Builtin XSD simple types.
var (
	String             = builtin("string")
	NormalizedString   = builtin("normalizedString")
	Token              = builtin("token")
	Boolean            = builtin("boolean")
	Decimal            = builtin("decimal")
	Integer            = builtin("integer")
	Long               = builtin("long")
	Int                = builtin("int")
	Short              = builtin("short")
	Byte               = builtin("byte")
	NonNegativeInteger = builtin("nonNegativeInteger")
	PositiveInteger    = builtin("positiveInteger")
	UnsignedLong       = builtin("unsignedLong")
	UnsignedInt        = builtin("unsignedInt")
	UnsignedShort      = builtin("unsignedShort")
	UnsignedByte       = builtin("unsignedByte")
	Float              = builtin("float")
	Double             = builtin("double")
	Duration           = builtin("duration")
	DateTime           = builtin("dateTime")
	Date               = builtin("date")
	Time               = builtin("time")
	GYear              = builtin("gYear")
	HexBinary          = builtin("hexBinary")
	Base64Binary       = builtin("base64Binary")
	AnyURI             = builtin("anyURI")
	QName              = builtin("QName")
	Language           = builtin("language")
	ID                 = builtin("ID")
	IDRef              = builtin("IDREF")
	AnySimpleType      = builtin("anySimpleType")
)

// AnyType is the XSD ur-type.
var AnyType Type = &ComplexType{name: "anyType", namespace: XMLSchemaNamespace}

var builtins = func() map[string]Type {
	m := map[string]Type{AnyType.Name(): AnyType}
	for _, t := range []*SimpleType{
		String, NormalizedString, Token, Boolean, Decimal, Integer, Long, Int,
		Short, Byte, NonNegativeInteger, PositiveInteger, UnsignedLong,
		UnsignedInt, UnsignedShort, UnsignedByte, Float, Double, Duration,
		DateTime, Date, Time, GYear, HexBinary, Base64Binary, AnyURI, QName,
		Language, ID, IDRef, AnySimpleType,
	} {
		m[t.name] = t
	}
	return m
}()

func builtin(name string) *SimpleType {
	return &SimpleType{name: name, namespace: XMLSchemaNamespace}
}

// Builtin returns the builtin XSD type with the given local name, or nil.
func Builtin(name string) Type {
	return builtins[name]
}
