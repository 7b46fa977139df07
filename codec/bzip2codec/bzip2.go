// Package bzip2codec provides a bzip2 compressor stage.
package bzip2codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.Compressor = (*Codec)(nil)

// Codec implements bzip2 compression.
type Codec struct{}

// New returns a new bzip2 codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "bz2".
func (c *Codec) Name() string { return "bz2" }

// Extension returns "bz2".
func (c *Codec) Extension() string { return "bz2" }

// Compress returns data in bzip2 format.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inverts Compress.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("bzip2 decompress: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bzip2 decompress: %w", err)
	}
	return out, nil
}
