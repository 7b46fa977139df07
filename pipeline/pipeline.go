package pipeline

import (
	"fmt"
	"io"

	"github.com/bourbaki-go/flexpersist/codec"
)

// Mode indicates whether a pipeline's storable representation is raw bytes
// or text.
type Mode int

const (
	ModeBinary Mode = iota
	ModeText
)

// String returns "binary" or "text".
func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "binary"
}

// stage is one byte-to-byte transform of a compiled pipeline, with its
// inverse.
type stage struct {
	forward func([]byte) ([]byte, error)
	inverse func([]byte) ([]byte, error)
}

// Pipeline is a compiled, bidirectional transform chain. Marshal runs the
// serializer and then each byte stage in order; Unmarshal runs the exact
// reverse chain. A Pipeline is immutable and safe for concurrent use as long
// as its constituent stages are.
type Pipeline struct {
	spec       Spec
	mode       Mode
	ext        string
	serializer codec.Serializer
	stages     []stage

	// streamable is true only when the serializer can write to and read
	// from streams directly and no byte stage follows it. Compression and
	// text encoding require the whole representation, so they force
	// buffered streaming.
	streamable bool
}

// Spec returns the specification the pipeline was compiled from.
func (p *Pipeline) Spec() Spec { return p.spec }

// Mode returns whether the pipeline's output is binary or text.
func (p *Pipeline) Mode() Mode { return p.mode }

// Extension returns the canonical dotted extension for the pipeline, e.g.
// ".json.gzip.base64". Resolving it yields the pipeline's spec back.
func (p *Pipeline) Extension() string { return p.ext }

// TextCapable reports whether the pipeline's output is text, making it
// usable for line-oriented storage.
func (p *Pipeline) TextCapable() bool { return p.mode == ModeText }

// Marshal transforms v into its storable representation.
func (p *Pipeline) Marshal(v any) ([]byte, error) {
	data, err := p.serializer.Marshal(v)
	if err != nil {
		return nil, err
	}
	for _, st := range p.stages {
		if data, err = st.forward(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Unmarshal inverts Marshal, deserializing into v (must be a pointer).
func (p *Pipeline) Unmarshal(data []byte, v any) error {
	var err error
	for i := len(p.stages) - 1; i >= 0; i-- {
		if data, err = p.stages[i].inverse(data); err != nil {
			return err
		}
	}
	return p.serializer.Unmarshal(data, v)
}

// MarshalTo writes the storable representation of v to w. When the
// serializer streams and no compression or text-encoding stage is present,
// the value is written incrementally; otherwise the whole representation is
// materialized first.
func (p *Pipeline) MarshalTo(w io.Writer, v any) error {
	if p.streamable {
		return p.serializer.(codec.StreamSerializer).MarshalTo(w, v)
	}
	data, err := p.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing pipeline output: %w", err)
	}
	return nil
}

// UnmarshalFrom reads one value from r into v, inverting MarshalTo.
func (p *Pipeline) UnmarshalFrom(r io.Reader, v any) error {
	if p.streamable {
		return p.serializer.(codec.StreamSerializer).UnmarshalFrom(r, v)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading pipeline input: %w", err)
	}
	return p.Unmarshal(data, v)
}
