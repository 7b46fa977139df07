// Package gobcodec provides a gob serializer stage, Go's native binary
// object serialization.
package gobcodec

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.StreamSerializer = (*Codec)(nil)

// Codec implements gob serialization.
type Codec struct{}

// New returns a new gob codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "gob".
func (c *Codec) Name() string { return "gob" }

// Extension returns "gob".
func (c *Codec) Extension() string { return "gob" }

// Binary returns true.
func (c *Codec) Binary() bool { return true }

// Marshal serializes v with gob.
func (c *Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes gob data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// MarshalTo serializes v with gob directly to w.
func (c *Codec) MarshalTo(w io.Writer, v any) error {
	return gob.NewEncoder(w).Encode(v)
}

// UnmarshalFrom deserializes a gob value from r into v.
func (c *Codec) UnmarshalFrom(r io.Reader, v any) error {
	return gob.NewDecoder(r).Decode(v)
}
