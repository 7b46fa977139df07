package gzipcodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bourbaki-go/flexpersist/codec"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "gzip" {
		t.Errorf("Extension() = %q, want %q", got, "gzip")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := []byte("Hello, World! This is test data for gzip compression.")

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Errorf("round-trip failed: got %q, want %q", decompressed, original)
	}
}

func TestCodec_DecompressGarbage(t *testing.T) {
	c := New()
	if _, err := c.Decompress([]byte("not gzip data")); err == nil {
		t.Error("Decompress() of garbage should return an error")
	}
}

func TestCodec_ConfigureLevel(t *testing.T) {
	c := New()
	configured, err := c.Configure(map[string]any{"level": 9}, nil)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	data := bytes.Repeat([]byte("abcdef"), 1000)
	compressed, err := configured.Compress(data)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	decompressed, err := configured.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("round-trip failed at level 9")
	}
}

func TestCodec_ConfigureUnknownOption(t *testing.T) {
	c := New()
	if _, err := c.Configure(map[string]any{"nope": 1}, nil); !errors.Is(err, codec.ErrConfiguration) {
		t.Errorf("Configure() error = %v, want ErrConfiguration", err)
	}
	if _, err := c.Configure(map[string]any{"level": "high"}, nil); !errors.Is(err, codec.ErrConfiguration) {
		t.Errorf("Configure() with bad level error = %v, want ErrConfiguration", err)
	}
}
