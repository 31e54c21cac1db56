// Package codec centralizes the JSON encoding of reports and run summaries.
//
// Two codecs exist: GoJSON (github.com/goccy/go-json, the default) and the
// standard library JSON codec. Both produce the same bytes for the report
// types in this module, so the choice only affects speed.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Indenter is implemented by codecs that can pretty-print.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Pretty encodes v with two-space indentation when c supports it and falls
// back to the compact form otherwise. A trailing newline is always added.
func Pretty(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}

	var (
		b   []byte
		err error
	)
	if in, ok := c.(Indenter); ok {
		b, err = in.MarshalIndent(v, "", "  ")
	} else {
		b, err = c.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return append(b, '\n'), nil
}
