// Package zstdcodec provides a zstd compressor stage.
package zstdcodec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time checks against the stage contracts.
var (
	_ codec.Compressor             = (*Codec)(nil)
	_ codec.ConfigurableCompressor = (*Codec)(nil)
)

// Codec implements zstd compression. The underlying encoder and decoder are
// shared and safe for concurrent EncodeAll/DecodeAll use.
type Codec struct {
	level zstd.EncoderLevel
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// New returns a new zstd codec at the default compression level.
func New() *Codec {
	c, err := newLevel(zstd.SpeedDefault)
	if err != nil {
		// Default options never fail.
		panic(err)
	}
	return c
}

func newLevel(level zstd.EncoderLevel) (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Codec{level: level, enc: enc, dec: dec}, nil
}

// Name returns "zstd".
func (c *Codec) Name() string { return "zstd" }

// Extension returns "zst".
func (c *Codec) Extension() string { return "zst" }

// Compress returns data in zstd format.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	return c.enc.EncodeAll(data, nil), nil
}

// Decompress inverts Compress.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}

// Configure returns a codec with compress options applied. Supported
// compress options: "level" (int, 1-4 mapping to zstd speed levels).
// Decompress options are not supported.
func (c *Codec) Configure(compressOpts, decompressOpts map[string]any) (codec.Compressor, error) {
	level := c.level
	for k, v := range compressOpts {
		switch k {
		case "level":
			n, ok := v.(int)
			if !ok || n < int(zstd.SpeedFastest) || n > int(zstd.SpeedBestCompression) {
				return nil, fmt.Errorf("%w: invalid zstd level %v", codec.ErrConfiguration, v)
			}
			level = zstd.EncoderLevel(n)
		default:
			return nil, fmt.Errorf("%w: unknown zstd compress option %q", codec.ErrConfiguration, k)
		}
	}
	for k := range decompressOpts {
		return nil, fmt.Errorf("%w: unknown zstd decompress option %q", codec.ErrConfiguration, k)
	}
	return newLevel(level)
}
