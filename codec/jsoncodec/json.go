// Package jsoncodec provides a JSON serializer stage.
package jsoncodec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time checks against the stage contracts.
var (
	_ codec.StreamSerializer       = (*Codec)(nil)
	_ codec.ConfigurableSerializer = (*Codec)(nil)
)

// Codec implements JSON serialization. Its output is text.
type Codec struct {
	prefix string
	indent string
}

// New returns a new JSON codec with compact output.
func New() *Codec {
	return &Codec{}
}

// Name returns "json".
func (c *Codec) Name() string { return "json" }

// Extension returns "json".
func (c *Codec) Extension() string { return "json" }

// Binary returns false; JSON output is text.
func (c *Codec) Binary() bool { return false }

// Marshal serializes v as JSON.
func (c *Codec) Marshal(v any) ([]byte, error) {
	if c.indent != "" || c.prefix != "" {
		return json.MarshalIndent(v, c.prefix, c.indent)
	}
	return json.Marshal(v)
}

// Unmarshal deserializes JSON data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// MarshalTo serializes v as JSON directly to w.
func (c *Codec) MarshalTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent(c.prefix, c.indent)
	return enc.Encode(v)
}

// UnmarshalFrom deserializes a JSON value from r into v.
func (c *Codec) UnmarshalFrom(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// Configure returns a codec with dump options applied. Supported dump
// options: "indent" (string), "prefix" (string). Load options are not
// supported.
func (c *Codec) Configure(dumpOpts, loadOpts map[string]any) (codec.Serializer, error) {
	out := *c
	for k, v := range dumpOpts {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: json dump option %q must be a string", codec.ErrConfiguration, k)
		}
		switch k {
		case "indent":
			out.indent = s
		case "prefix":
			out.prefix = s
		default:
			return nil, fmt.Errorf("%w: unknown json dump option %q", codec.ErrConfiguration, k)
		}
	}
	for k := range loadOpts {
		return nil, fmt.Errorf("%w: unknown json load option %q", codec.ErrConfiguration, k)
	}
	return &out, nil
}
