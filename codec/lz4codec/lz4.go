// Package lz4codec provides an lz4 compressor stage using the lz4 frame
// format.
package lz4codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.Compressor = (*Codec)(nil)

// Codec implements lz4 compression.
type Codec struct{}

// New returns a new lz4 codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "lz4".
func (c *Codec) Name() string { return "lz4" }

// Extension returns "lz4".
func (c *Codec) Extension() string { return "lz4" }

// Compress returns data as an lz4 frame.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inverts Compress.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return out, nil
}
