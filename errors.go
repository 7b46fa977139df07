package flexpersist

import "errors"

// Sentinel errors for well-defined error conditions. Configuration errors
// (unknown codecs, bad extensions, duplicate registrations) are defined in
// the codec package and surface unchanged.
var (
	// ErrNotSupported indicates a text-only operation was invoked on a
	// persister whose pipeline has no text-capable leaf stage.
	ErrNotSupported = errors.New("flexpersist: pipeline does not support text operations")

	// ErrResource indicates a filesystem-level failure such as a missing
	// directory or a target that exists as the wrong type.
	ErrResource = errors.New("flexpersist: resource error")
)
