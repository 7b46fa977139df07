package codec

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the base error for all registration, lookup, and
// pipeline-compilation failures. Every configuration failure matches it via
// errors.Is, alongside the more specific sentinel below.
var ErrConfiguration = errors.New("flexpersist: configuration error")

// Sentinel errors for well-defined configuration failures.
var (
	// ErrDuplicateName indicates a stage name or extension is already
	// registered for that kind in this registry.
	ErrDuplicateName = fmt.Errorf("%w: duplicate name", ErrConfiguration)

	// ErrInvalidPlugin indicates a nil or incomplete stage was registered.
	ErrInvalidPlugin = fmt.Errorf("%w: invalid plugin", ErrConfiguration)

	// ErrUnknownCodec indicates a stage name was not found in the registry
	// or any of its parents.
	ErrUnknownCodec = fmt.Errorf("%w: unknown codec", ErrConfiguration)

	// ErrUnknownExtension indicates a file extension segment was not found
	// in the registry or any of its parents.
	ErrUnknownExtension = fmt.Errorf("%w: unknown extension", ErrConfiguration)

	// ErrAmbiguousExtension indicates a two-segment extension whose second
	// segment names neither a compression nor a text encoding.
	ErrAmbiguousExtension = fmt.Errorf("%w: ambiguous or unknown extension", ErrConfiguration)

	// ErrTooManySegments indicates an extension with more than three dotted
	// segments.
	ErrTooManySegments = fmt.Errorf("%w: too many extension segments", ErrConfiguration)
)
