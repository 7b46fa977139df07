// Package msgpackcodec provides a MessagePack serializer stage.
package msgpackcodec

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.StreamSerializer = (*Codec)(nil)

// Codec implements MessagePack serialization.
type Codec struct{}

// New returns a new MessagePack codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "msgpack".
func (c *Codec) Name() string { return "msgpack" }

// Extension returns "msgpack".
func (c *Codec) Extension() string { return "msgpack" }

// Binary returns true.
func (c *Codec) Binary() bool { return true }

// Marshal serializes v as MessagePack.
func (c *Codec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal deserializes MessagePack data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// MarshalTo serializes v as MessagePack directly to w.
func (c *Codec) MarshalTo(w io.Writer, v any) error {
	return msgpack.NewEncoder(w).Encode(v)
}

// UnmarshalFrom deserializes a MessagePack value from r into v.
func (c *Codec) UnmarshalFrom(r io.Reader, v any) error {
	return msgpack.NewDecoder(r).Decode(v)
}
