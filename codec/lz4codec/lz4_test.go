package lz4codec

import (
	"bytes"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte("lz4 test data "), 100)

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Error("round-trip failed")
	}
}

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "lz4" {
		t.Errorf("Extension() = %q, want %q", got, "lz4")
	}
}
