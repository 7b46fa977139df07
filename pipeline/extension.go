package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Resolve infers a pipeline spec from a dotted extension string such as
// ".json", ".json.gzip", or ".json.gzip.base64". The leading dot is optional.
//
// One segment names a serializer. With two segments the second is tried as a
// compression extension first and as a text encoding second; if it is valid
// as both, compression wins. Three segments are resolved positionally as
// serializer, compression, and text encoding. More than three segments fail
// with ErrTooManySegments.
func Resolve(reg *codec.Registry, ext string) (Spec, error) {
	trimmed := strings.TrimPrefix(ext, ".")
	if trimmed == "" {
		return Spec{}, fmt.Errorf("%w: empty extension", codec.ErrUnknownExtension)
	}
	parts := strings.Split(trimmed, ".")

	var serExt, compExt, textExt, compOrTextExt string
	switch len(parts) {
	case 1:
		serExt = parts[0]
	case 2:
		serExt, compOrTextExt = parts[0], parts[1]
	case 3:
		serExt, compExt, textExt = parts[0], parts[1], parts[2]
	default:
		return Spec{}, fmt.Errorf("%w: %q has %d segments, at most 3 allowed",
			codec.ErrTooManySegments, ext, len(parts))
	}

	ser, err := reg.SerializerByExtension(serExt)
	if err != nil {
		return Spec{}, err
	}
	spec := Spec{Serialization: ser.Name()}

	if compExt != "" {
		comp, err := reg.CompressorByExtension(compExt)
		if err != nil {
			return Spec{}, err
		}
		spec.Compression = comp.Name()
	}
	if textExt != "" {
		enc, err := reg.TextEncoderByExtension(textExt)
		if err != nil {
			return Spec{}, err
		}
		spec.TextEncoding = enc.Name()
	}

	if compOrTextExt != "" {
		if comp, err := reg.CompressorByExtension(compOrTextExt); err == nil {
			spec.Compression = comp.Name()
		} else if enc, err := reg.TextEncoderByExtension(compOrTextExt); err == nil {
			spec.TextEncoding = enc.Name()
		} else {
			return Spec{}, fmt.Errorf("%w: %q is neither a compression nor a text encoding",
				codec.ErrAmbiguousExtension, compOrTextExt)
		}
	}

	return spec, nil
}

// canonicalExtension builds the dotted extension for a spec, in the fixed
// serializer-compression-encoding order Resolve inverts.
func canonicalExtension(reg *codec.Registry, spec Spec) (string, error) {
	ser, err := reg.Serializer(spec.Serialization)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('.')
	b.WriteString(ser.Extension())

	if spec.Compression != "" {
		comp, err := reg.Compressor(spec.Compression)
		if err != nil {
			return "", err
		}
		b.WriteByte('.')
		b.WriteString(comp.Extension())
	}
	if spec.TextEncoding != "" {
		enc, err := reg.TextEncoder(spec.TextEncoding)
		if err != nil {
			return "", err
		}
		b.WriteByte('.')
		b.WriteString(enc.Extension())
	}
	return b.String(), nil
}

// IsConfigurationError reports whether err stems from registry or pipeline
// configuration rather than from data transformation.
func IsConfigurationError(err error) bool {
	return errors.Is(err, codec.ErrConfiguration)
}
