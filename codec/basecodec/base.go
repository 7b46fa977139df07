// Package basecodec provides the base16, base32, base64, and base85 text
// encoder stages.
package basecodec

import (
	"bytes"
	"encoding/ascii85"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Compile-time check against the stage contract.
var _ codec.TextEncoder = (*Encoding)(nil)

// Encoding implements a text encoder over an encode/decode function pair.
type Encoding struct {
	name   string
	ext    string
	encode func([]byte) ([]byte, error)
	decode func([]byte) ([]byte, error)
}

// Name returns the encoding's registered name.
func (e *Encoding) Name() string { return e.name }

// Extension returns the encoding's file extension without dot.
func (e *Encoding) Extension() string { return e.ext }

// Binary returns true; the encoders produce raw ASCII bytes that pass
// through the registry's character encoding to become text.
func (e *Encoding) Binary() bool { return true }

// Encode returns the text armoring of data.
func (e *Encoding) Encode(data []byte) ([]byte, error) { return e.encode(data) }

// Decode inverts Encode.
func (e *Encoding) Decode(data []byte) ([]byte, error) { return e.decode(data) }

// Base16 returns the hexadecimal encoder; its name and extension are
// both "base16".
func Base16() *Encoding {
	return &Encoding{
		name: "base16",
		ext:  "base16",
		encode: func(data []byte) ([]byte, error) {
			out := make([]byte, hex.EncodedLen(len(data)))
			hex.Encode(out, data)
			return bytes.ToUpper(out), nil
		},
		decode: func(data []byte) ([]byte, error) {
			out := make([]byte, hex.DecodedLen(len(data)))
			n, err := hex.Decode(out, bytes.ToLower(data))
			if err != nil {
				return nil, fmt.Errorf("base16 decode: %w", err)
			}
			return out[:n], nil
		},
	}
}

// Base32 returns the base32 encoder.
func Base32() *Encoding {
	return stdEncoding("base32", "base32",
		base32.StdEncoding.EncodeToString,
		base32.StdEncoding.DecodeString,
	)
}

// Base64 returns the base64 encoder.
func Base64() *Encoding {
	return stdEncoding("base64", "base64",
		base64.StdEncoding.EncodeToString,
		base64.StdEncoding.DecodeString,
	)
}

// Base85 returns the ascii85 encoder.
func Base85() *Encoding {
	return &Encoding{
		name: "base85",
		ext:  "base85",
		encode: func(data []byte) ([]byte, error) {
			out := make([]byte, ascii85.MaxEncodedLen(len(data)))
			n := ascii85.Encode(out, data)
			return out[:n], nil
		},
		decode: func(data []byte) ([]byte, error) {
			out, err := io.ReadAll(ascii85.NewDecoder(bytes.NewReader(data)))
			if err != nil {
				return nil, fmt.Errorf("base85 decode: %w", err)
			}
			return out, nil
		},
	}
}

func stdEncoding(name, ext string, enc func([]byte) string, dec func(string) ([]byte, error)) *Encoding {
	return &Encoding{
		name:   name,
		ext:    ext,
		encode: func(data []byte) ([]byte, error) { return []byte(enc(data)), nil },
		decode: func(data []byte) ([]byte, error) {
			out, err := dec(string(data))
			if err != nil {
				return nil, fmt.Errorf("%s decode: %w", name, err)
			}
			return out, nil
		},
	}
}
