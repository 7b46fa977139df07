// Package cborcodec provides a CBOR serializer stage.
package cborcodec

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.StreamSerializer = (*Codec)(nil)

// Codec implements CBOR serialization.
type Codec struct{}

// New returns a new CBOR codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "cbor".
func (c *Codec) Name() string { return "cbor" }

// Extension returns "cbor".
func (c *Codec) Extension() string { return "cbor" }

// Binary returns true.
func (c *Codec) Binary() bool { return true }

// Marshal serializes v as CBOR.
func (c *Codec) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

// Unmarshal deserializes CBOR data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// MarshalTo serializes v as CBOR directly to w.
func (c *Codec) MarshalTo(w io.Writer, v any) error {
	return cbor.NewEncoder(w).Encode(v)
}

// UnmarshalFrom deserializes a CBOR value from r into v.
func (c *Codec) UnmarshalFrom(r io.Reader, v any) error {
	return cbor.NewDecoder(r).Decode(v)
}
