// Package lzmacodec provides an lzma compressor stage.
package lzmacodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.Compressor = (*Codec)(nil)

// Codec implements lzma compression.
type Codec struct{}

// New returns a new lzma codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "lzma".
func (c *Codec) Name() string { return "lzma" }

// Extension returns "lzma".
func (c *Codec) Extension() string { return "lzma" }

// Compress returns data in lzma format.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating lzma writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lzma compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzma compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inverts Compress.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("lzma decompress: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lzma decompress: %w", err)
	}
	return out, nil
}
