// Package gzipcodec provides a gzip compressor stage.
package gzipcodec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time checks against the stage contracts.
var (
	_ codec.Compressor             = (*Codec)(nil)
	_ codec.ConfigurableCompressor = (*Codec)(nil)
)

// Codec implements gzip compression.
type Codec struct {
	level int
}

// New returns a new gzip codec at the default compression level.
func New() *Codec {
	return &Codec{level: gzip.DefaultCompression}
}

// Name returns "gzip".
func (c *Codec) Name() string { return "gzip" }

// Extension returns "gzip".
func (c *Codec) Extension() string { return "gzip" }

// Compress returns data in gzip format.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inverts Compress.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return out, nil
}

// Configure returns a codec with compress options applied. Supported
// compress options: "level" (int, per compress/gzip). Decompress options are
// not supported.
func (c *Codec) Configure(compressOpts, decompressOpts map[string]any) (codec.Compressor, error) {
	out := *c
	for k, v := range compressOpts {
		switch k {
		case "level":
			level, ok := v.(int)
			if !ok || level < gzip.HuffmanOnly || level > gzip.BestCompression {
				return nil, fmt.Errorf("%w: invalid gzip level %v", codec.ErrConfiguration, v)
			}
			out.level = level
		default:
			return nil, fmt.Errorf("%w: unknown gzip compress option %q", codec.ErrConfiguration, k)
		}
	}
	for k := range decompressOpts {
		return nil, fmt.Errorf("%w: unknown gzip decompress option %q", codec.ErrConfiguration, k)
	}
	return &out, nil
}
