package xsd

import (
	"time"

	"github.com/spf13/cast"
)

// Converter renders scalar property values as schema text.
type Converter interface {
	Convert(v any) (string, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(v any) (string, error)

// Convert calls f(v).
func (f ConverterFunc) Convert(v any) (string, error) { return f(v) }

// CastConverter is the default Converter. Timestamps are rendered in the
// lexical form of xs:dateTime; everything else goes through cast.ToStringE.
type CastConverter struct{}

// Convert implements Converter.
func (CastConverter) Convert(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.Format(time.RFC3339Nano), nil
	}
	return cast.ToStringE(v)
}
