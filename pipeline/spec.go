// Package pipeline builds bidirectional transform chains from a three-part
// specification: a serializer, an optional compressor, and an optional text
// encoder, all looked up in a codec registry. Compiled pipelines are memoized
// per specification.
package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// Options holds per-stage keyword options bound once at compile time.
type Options map[string]any

// Spec identifies a pipeline: which stages to compose and the options each
// stage is configured with. Two specs with the same field values compile to
// interchangeable pipelines, so Key is used as the compiler's memoization
// key.
type Spec struct {
	// Serialization names the serializer stage. Required.
	Serialization string

	// Compression names the compressor stage, or is empty for none.
	Compression string

	// TextEncoding names the text encoder stage, or is empty for none.
	TextEncoding string

	// Stage options, applied through the Configurable capability of the
	// named stages at compile time.
	DumpOpts       Options
	LoadOpts       Options
	CompressOpts   Options
	DecompressOpts Options
}

// WithoutTextEncoding returns a copy of s with the text-encoding stage
// removed.
func (s Spec) WithoutTextEncoding() Spec {
	s.TextEncoding = ""
	return s
}

// Key returns a canonical string covering every field of s, suitable as a
// cache key.
func (s Spec) Key() string {
	var b strings.Builder
	b.WriteString(s.Serialization)
	b.WriteByte('|')
	b.WriteString(s.Compression)
	b.WriteByte('|')
	b.WriteString(s.TextEncoding)
	for _, opts := range []Options{s.DumpOpts, s.LoadOpts, s.CompressOpts, s.DecompressOpts} {
		b.WriteByte('|')
		writeOpts(&b, opts)
	}
	return b.String()
}

func writeOpts(b *strings.Builder, opts Options) {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%s=%v", k, opts[k])
	}
}
