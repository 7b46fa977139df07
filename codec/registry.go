package codec

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharEncoding is the character encoding a new registry bridges text
// and bytes with unless told otherwise.
const DefaultCharEncoding = "utf-8"

// Registry holds named stages per kind, with reverse extension lookup and a
// default character encoding used to bridge text and byte stages.
//
// A registry may be layered on a parent: lookups consult the child first and
// fall back to the parent, so a child can shadow parent entries without
// mutating them. Registration is expected to happen during initialization;
// it is not safe to race registration against lookups.
type Registry struct {
	parent *Registry

	charEncName string
	charEnc     encoding.Encoding

	serializers map[string]Serializer
	compressors map[string]Compressor
	encoders    map[string]TextEncoder

	// Reverse indexes, extension (without dot) to name.
	serializerExts map[string]string
	compressorExts map[string]string
	encoderExts    map[string]string
}

// New creates an empty root registry with the default character encoding.
func New() *Registry {
	return &Registry{
		charEncName:    DefaultCharEncoding,
		charEnc:        unicode.UTF8,
		serializers:    make(map[string]Serializer),
		compressors:    make(map[string]Compressor),
		encoders:       make(map[string]TextEncoder),
		serializerExts: make(map[string]string),
		compressorExts: make(map[string]string),
		encoderExts:    make(map[string]string),
	}
}

// Child creates an empty registry layered on r. The child inherits r's
// entries and character encoding; entries registered on the child shadow
// same-name entries in r for lookups through the child only.
func (r *Registry) Child() *Registry {
	c := New()
	c.parent = r
	c.charEncName = r.charEncName
	c.charEnc = r.charEnc
	return c
}

// SetCharEncoding sets the character encoding used to bridge text and byte
// stages. The name must be a registered IANA charset name.
func (r *Registry) SetCharEncoding(name string) error {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return fmt.Errorf("%w: unsupported character encoding %q", ErrConfiguration, name)
	}
	r.charEncName = name
	r.charEnc = enc
	return nil
}

// CharEncoding returns the name of the registry's character encoding.
func (r *Registry) CharEncoding() string {
	return r.charEncName
}

// EncodeText converts text (UTF-8) into bytes in the registry's character
// encoding. This is the bridge inserted before a byte-oriented stage when the
// preceding stage produced text.
func (r *Registry) EncodeText(text []byte) ([]byte, error) {
	return r.charEnc.NewEncoder().Bytes(text)
}

// DecodeText inverts EncodeText.
func (r *Registry) DecodeText(data []byte) ([]byte, error) {
	return r.charEnc.NewDecoder().Bytes(data)
}

// RegisterSerializer adds s under its declared name and extension.
// It fails with ErrDuplicateName if either is already registered for this
// kind in this registry (inherited parent entries may be shadowed), or with
// ErrInvalidPlugin if s is nil or declares an empty name or extension.
func (r *Registry) RegisterSerializer(s Serializer) error {
	if s == nil {
		return fmt.Errorf("%w: nil serializer", ErrInvalidPlugin)
	}
	name, ext, err := r.checkStage(KindSerializer, s.Name(), s.Extension())
	if err != nil {
		return err
	}
	r.serializers[name] = s
	r.serializerExts[ext] = name
	return nil
}

// RegisterCompressor adds c under its declared name and extension.
func (r *Registry) RegisterCompressor(c Compressor) error {
	if c == nil {
		return fmt.Errorf("%w: nil compressor", ErrInvalidPlugin)
	}
	name, ext, err := r.checkStage(KindCompressor, c.Name(), c.Extension())
	if err != nil {
		return err
	}
	r.compressors[name] = c
	r.compressorExts[ext] = name
	return nil
}

// RegisterTextEncoder adds e under its declared name and extension.
func (r *Registry) RegisterTextEncoder(e TextEncoder) error {
	if e == nil {
		return fmt.Errorf("%w: nil text encoder", ErrInvalidPlugin)
	}
	name, ext, err := r.checkStage(KindTextEncoder, e.Name(), e.Extension())
	if err != nil {
		return err
	}
	r.encoders[name] = e
	r.encoderExts[ext] = name
	return nil
}

// Serializer returns the serializer registered under name, consulting this
// registry before its parents. It fails with ErrUnknownCodec if absent.
func (r *Registry) Serializer(name string) (Serializer, error) {
	for reg := r; reg != nil; reg = reg.parent {
		if s, ok := reg.serializers[name]; ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: no serializer named %q", ErrUnknownCodec, name)
}

// Compressor returns the compressor registered under name.
func (r *Registry) Compressor(name string) (Compressor, error) {
	for reg := r; reg != nil; reg = reg.parent {
		if c, ok := reg.compressors[name]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: no compressor named %q", ErrUnknownCodec, name)
}

// TextEncoder returns the text encoder registered under name.
func (r *Registry) TextEncoder(name string) (TextEncoder, error) {
	for reg := r; reg != nil; reg = reg.parent {
		if e, ok := reg.encoders[name]; ok {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no text encoder named %q", ErrUnknownCodec, name)
}

// SerializerByExtension returns the serializer whose declared extension
// matches ext (with or without leading dot). It fails with
// ErrUnknownExtension if absent in this registry and all parents.
func (r *Registry) SerializerByExtension(ext string) (Serializer, error) {
	ext = strings.TrimPrefix(ext, ".")
	for reg := r; reg != nil; reg = reg.parent {
		if name, ok := reg.serializerExts[ext]; ok {
			return reg.serializers[name], nil
		}
	}
	return nil, fmt.Errorf("%w: no serializer for extension %q", ErrUnknownExtension, ext)
}

// CompressorByExtension returns the compressor declared for ext.
func (r *Registry) CompressorByExtension(ext string) (Compressor, error) {
	ext = strings.TrimPrefix(ext, ".")
	for reg := r; reg != nil; reg = reg.parent {
		if name, ok := reg.compressorExts[ext]; ok {
			return reg.compressors[name], nil
		}
	}
	return nil, fmt.Errorf("%w: no compressor for extension %q", ErrUnknownExtension, ext)
}

// TextEncoderByExtension returns the text encoder declared for ext.
func (r *Registry) TextEncoderByExtension(ext string) (TextEncoder, error) {
	ext = strings.TrimPrefix(ext, ".")
	for reg := r; reg != nil; reg = reg.parent {
		if name, ok := reg.encoderExts[ext]; ok {
			return reg.encoders[name], nil
		}
	}
	return nil, fmt.Errorf("%w: no text encoder for extension %q", ErrUnknownExtension, ext)
}

// checkStage validates a stage's declared name and extension against the
// entries already present in this registry (parents are not consulted, so
// shadowing a parent entry is allowed).
func (r *Registry) checkStage(kind Kind, name, ext string) (string, string, error) {
	if name == "" {
		return "", "", fmt.Errorf("%w: %s with empty name", ErrInvalidPlugin, kind)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", "", fmt.Errorf("%w: %s %q declares no extension", ErrInvalidPlugin, kind, name)
	}

	var taken bool
	var exts map[string]string
	switch kind {
	case KindSerializer:
		_, taken = r.serializers[name]
		exts = r.serializerExts
	case KindCompressor:
		_, taken = r.compressors[name]
		exts = r.compressorExts
	case KindTextEncoder:
		_, taken = r.encoders[name]
		exts = r.encoderExts
	}

	if taken {
		return "", "", fmt.Errorf("%w: %s %q is already registered", ErrDuplicateName, kind, name)
	}
	if owner, ok := exts[ext]; ok {
		return "", "", fmt.Errorf("%w: extension %q is already registered for %s %q",
			ErrDuplicateName, ext, kind, owner)
	}
	return name, ext, nil
}
