// Package codec defines the stage contracts for persistence pipelines and the
// registry that binds named stages to file extensions.
//
// A pipeline is assembled from up to three kinds of stages: a Serializer
// (value to bytes), an optional Compressor (bytes to bytes), and an optional
// TextEncoder (bytes to printable text). Each stage declares a name, used to
// select it when building a pipeline, and a file extension, used to recover
// the pipeline from a filename.
package codec

import "io"

// Kind identifies the pipeline role a stage fills.
type Kind int

const (
	KindSerializer Kind = iota
	KindCompressor
	KindTextEncoder
)

// String returns the lowercase role name.
func (k Kind) String() string {
	switch k {
	case KindSerializer:
		return "serializer"
	case KindCompressor:
		return "compressor"
	case KindTextEncoder:
		return "text encoder"
	default:
		return "unknown"
	}
}

// Serializer converts values to and from a byte representation.
type Serializer interface {
	// Name returns the identifier the stage is registered under.
	Name() string
	// Extension returns the file extension without dot (e.g., "json").
	Extension() string
	// Binary reports whether Marshal produces raw bytes rather than text.
	Binary() bool
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
}

// StreamSerializer is implemented by serializers that can write to and read
// from streams directly, without materializing the whole representation.
type StreamSerializer interface {
	Serializer
	// MarshalTo serializes v directly to w.
	MarshalTo(w io.Writer, v any) error
	// UnmarshalFrom deserializes a value from r into v.
	UnmarshalFrom(r io.Reader, v any) error
}

// Compressor converts byte representations to and from a compressed form.
type Compressor interface {
	// Name returns the identifier the stage is registered under.
	Name() string
	// Extension returns the file extension without dot (e.g., "gzip").
	Extension() string
	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)
	// Decompress inverts Compress.
	Decompress(data []byte) ([]byte, error)
}

// TextEncoder converts raw bytes to and from a text armoring such as base64.
type TextEncoder interface {
	// Name returns the identifier the stage is registered under.
	Name() string
	// Extension returns the file extension without dot (e.g., "base64").
	Extension() string
	// Binary reports whether Encode yields raw bytes that still need the
	// registry's character encoding applied to become text. Encoders that
	// produce text directly return false.
	Binary() bool
	// Encode returns the text armoring of data.
	Encode(data []byte) ([]byte, error)
	// Decode inverts Encode.
	Decode(data []byte) ([]byte, error)
}

// ConfigurableSerializer is implemented by serializers whose behavior can be
// tuned per pipeline. Configure returns a new serializer with the dump and
// load options applied; the receiver is left unchanged. Options are bound
// once, when a pipeline is compiled.
type ConfigurableSerializer interface {
	Serializer
	Configure(dumpOpts, loadOpts map[string]any) (Serializer, error)
}

// ConfigurableCompressor is the compressor counterpart of
// ConfigurableSerializer.
type ConfigurableCompressor interface {
	Compressor
	Configure(compressOpts, decompressOpts map[string]any) (Compressor, error)
}
