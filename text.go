package flexpersist

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/bourbaki-go/flexpersist/pipeline"
)

// defaultKeySeparator separates keys from encoded values in keyed line
// files.
const defaultKeySeparator = "\t"

// TextIO exposes the line-oriented text operations of a Persister: one
// encoded record per newline-terminated line. It is available only when the
// persister's pipeline can produce text, either because the serializer
// output is text and uncompressed, or because a text encoding was
// configured.
//
// Encoded records must not contain a literal line terminator; the library
// does not validate this and round-tripping such records is undefined.
type TextIO struct {
	p    *Persister
	pipe *pipeline.Pipeline
}

// Text returns the line-oriented text operations, or ErrNotSupported when
// the pipeline has no text-capable leaf stage.
func (p *Persister) Text() (*TextIO, error) {
	if p.line == nil {
		return nil, fmt.Errorf("%w: %s pipeline with no text encoding", ErrNotSupported, p.Mode())
	}
	return &TextIO{p: p, pipe: p.line}, nil
}

// Extension returns the canonical dotted extension of the text pipeline,
// including the text-encoding segment when one is configured.
func (t *TextIO) Extension() string {
	return t.pipe.Extension()
}

// Marshal transforms v into one encoded record.
func (t *TextIO) Marshal(v any) ([]byte, error) {
	return t.pipe.Marshal(v)
}

// Unmarshal inverts Marshal, deserializing a record into v.
func (t *TextIO) Unmarshal(data []byte, v any) error {
	return t.pipe.Unmarshal(data, v)
}

// KeyedOption configures the keyed line-file operations.
type KeyedOption func(*keyedConfig)

type keyedConfig struct {
	sep       string
	codedKeys bool
}

// WithSeparator sets the key/value separator. Default is a tab.
func WithSeparator(sep string) KeyedOption {
	return func(c *keyedConfig) { c.sep = sep }
}

// WithEncodedKeys passes keys through the encoder as well: dumps encode each
// key like a value, loads decode the key field back into a value.
func WithEncodedKeys() KeyedOption {
	return func(c *keyedConfig) { c.codedKeys = true }
}

func newKeyedConfig(opts []KeyedOption) keyedConfig {
	cfg := keyedConfig{sep: defaultKeySeparator}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DumpStreamToFile writes one encoded record per line to the file at path,
// applying the text extension when auto-extension is enabled and path has
// none.
func (t *TextIO) DumpStreamToFile(seq iter.Seq[any], path string) error {
	return t.p.withCreated(path, t.Extension(), func(w io.Writer) error {
		return t.DumpStreamTo(w, seq)
	})
}

// DumpStreamTo writes one encoded record per line to w. The writer is never
// closed.
func (t *TextIO) DumpStreamTo(w io.Writer, seq iter.Seq[any]) error {
	bw := bufio.NewWriter(w)
	for v := range seq {
		rec, err := t.pipe.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := bw.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	return bw.Flush()
}

// LoadStreamFromFile lazily reads the records written by DumpStreamToFile.
// The sequence is restartable; each range reopens the file.
func (t *TextIO) LoadStreamFromFile(path string) iter.Seq2[any, error] {
	if t.p.autoExt {
		path = maybeAddExtension(path, t.Extension())
	}
	return func(yield func(any, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("%w: opening %s: %w", ErrResource, path, err))
			return
		}
		defer f.Close()

		for v, err := range t.LoadStreamFrom(f) {
			if !yield(v, err) {
				return
			}
		}
	}
}

// LoadStreamFrom reads one record per line from r. The sequence is
// single-use; it consumes r. The reader is never closed.
func (t *TextIO) LoadStreamFrom(r io.Reader) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		sc := newLineScanner(r)
		for sc.Scan() {
			var v any
			err := t.pipe.Unmarshal(sc.Bytes(), &v)
			if !yield(v, err) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, fmt.Errorf("reading records: %w", err))
		}
	}
}

// DumpKeyedStreamToFile writes one key<sep>record line per element to the
// file at path.
func (t *TextIO) DumpKeyedStreamToFile(seq iter.Seq2[string, any], path string, opts ...KeyedOption) error {
	return t.p.withCreated(path, t.Extension(), func(w io.Writer) error {
		return t.DumpKeyedStreamTo(w, seq, opts...)
	})
}

// DumpKeyedStreamTo writes one key<sep>record line per element to w.
func (t *TextIO) DumpKeyedStreamTo(w io.Writer, seq iter.Seq2[string, any], opts ...KeyedOption) error {
	cfg := newKeyedConfig(opts)
	bw := bufio.NewWriter(w)
	for k, v := range seq {
		key := []byte(k)
		if cfg.codedKeys {
			var err error
			if key, err = t.pipe.Marshal(k); err != nil {
				return err
			}
		}
		rec, err := t.pipe.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", key, cfg.sep, rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	return bw.Flush()
}

// LoadKeyedStreamFromFile lazily reads the entries written by
// DumpKeyedStreamToFile. Each range reopens the file.
func (t *TextIO) LoadKeyedStreamFromFile(path string, opts ...KeyedOption) iter.Seq2[Entry, error] {
	if t.p.autoExt {
		path = maybeAddExtension(path, t.Extension())
	}
	return func(yield func(Entry, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Entry{}, fmt.Errorf("%w: opening %s: %w", ErrResource, path, err))
			return
		}
		defer f.Close()

		for e, err := range t.LoadKeyedStreamFrom(f, opts...) {
			if !yield(e, err) {
				return
			}
		}
	}
}

// LoadKeyedStreamFrom reads key<sep>record lines from r. The sequence is
// single-use; it consumes r.
func (t *TextIO) LoadKeyedStreamFrom(r io.Reader, opts ...KeyedOption) iter.Seq2[Entry, error] {
	cfg := newKeyedConfig(opts)
	return func(yield func(Entry, error) bool) {
		sc := newLineScanner(r)
		for sc.Scan() {
			line := sc.Text()
			ix := strings.Index(line, cfg.sep)
			if ix < 0 {
				if !yield(Entry{}, fmt.Errorf("record %q has no separator %q", line, cfg.sep)) {
					return
				}
				continue
			}
			rawKey, rawVal := line[:ix], line[ix+len(cfg.sep):]

			var key any = rawKey
			if cfg.codedKeys {
				var decoded any
				if err := t.pipe.Unmarshal([]byte(rawKey), &decoded); err != nil {
					if !yield(Entry{}, err) {
						return
					}
					continue
				}
				key = decoded
			}
			var v any
			err := t.pipe.Unmarshal([]byte(rawVal), &v)
			if !yield(Entry{Key: key, Value: v}, err) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("reading records: %w", err))
		}
	}
}

// withCreated opens path for writing (honoring auto-extension with ext),
// runs fn, and closes the file on every exit path.
func (p *Persister) withCreated(path, ext string, fn func(io.Writer) error) error {
	if p.autoExt {
		path = maybeAddExtension(path, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrResource, path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrResource, path, err)
	}
	return nil
}

// newLineScanner builds a scanner tolerant of long records.
func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return sc
}
