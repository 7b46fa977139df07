// Package flexpersist persists arbitrary Go values under a pluggable
// combination of serialization format, compression, and text encoding,
// chosen explicitly or inferred from a filename extension.
//
// Example usage:
//
//	p, err := flexpersist.New("json", flexpersist.WithCompression("gzip"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Dump(value, "/path/to/data"); err != nil { // writes data.json.gzip
//	    log.Fatal(err)
//	}
//
//	var out map[string]any
//	if err := p.Load(&out, "/path/to/data"); err != nil {
//	    log.Fatal(err)
//	}
//
// The same pipeline can be recovered from the file it produced:
//
//	p, err := flexpersist.FromExtension(".json.gzip")
package flexpersist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bourbaki-go/flexpersist/codec"
	"github.com/bourbaki-go/flexpersist/internal/chunkio"
	"github.com/bourbaki-go/flexpersist/pipeline"
	"github.com/bourbaki-go/flexpersist/stats"
)

// Persister binds a compiled pipeline to path- and stream-oriented
// persistence operations. A Persister is immutable after construction and
// safe for concurrent use.
type Persister struct {
	compiler *pipeline.Compiler
	pipe     *pipeline.Pipeline
	// line is the text-encoded pipeline backing the line-oriented text
	// operations, or nil when the persister cannot produce text.
	line *pipeline.Pipeline

	spec     pipeline.Spec
	autoExt  bool
	padWidth int
	stats    stats.Collector
	logger   *zap.Logger
}

// New creates a Persister for the named serialization, with optional
// compression and text encoding. The pipeline is compiled eagerly; any
// unknown stage name fails here, before I/O is attempted.
func New(serialization string, opts ...Option) (*Persister, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	spec := pipeline.Spec{
		Serialization:  serialization,
		Compression:    cfg.compression,
		TextEncoding:   cfg.textEncoding,
		DumpOpts:       cfg.dumpOpts,
		LoadOpts:       cfg.loadOpts,
		CompressOpts:   cfg.compressOpts,
		DecompressOpts: cfg.decompressOpts,
	}
	return newPersister(spec, cfg)
}

// FromExtension creates a Persister whose pipeline is inferred from a dotted
// extension string such as ".json.gzip.base64". A persister built from an
// extension containing a text-encoding segment always materializes through
// that encoding, never through raw bytes.
func FromExtension(ext string, opts ...Option) (*Persister, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	compiler := cfg.effectiveCompiler()
	spec, err := pipeline.Resolve(compiler.Registry(), ext)
	if err != nil {
		return nil, err
	}
	spec.DumpOpts = cfg.dumpOpts
	spec.LoadOpts = cfg.loadOpts
	spec.CompressOpts = cfg.compressOpts
	spec.DecompressOpts = cfg.decompressOpts

	cfg.alwaysText = spec.TextEncoding != ""
	return newPersister(spec, cfg)
}

// effectiveCompiler picks the compiler implied by the options: an explicit
// compiler wins, then a compiler over an explicit registry, then the
// process-wide default.
func (o *options) effectiveCompiler() *pipeline.Compiler {
	if o.compiler != nil {
		return o.compiler
	}
	if o.registry != nil {
		return pipeline.NewCompiler(o.registry,
			pipeline.WithStats(o.stats),
			pipeline.WithLogger(o.logger),
		)
	}
	return DefaultCompiler()
}

func newPersister(spec pipeline.Spec, cfg options) (*Persister, error) {
	compiler := cfg.effectiveCompiler()

	p := &Persister{
		compiler: compiler,
		spec:     spec,
		autoExt:  cfg.autoExtension,
		padWidth: cfg.padWidth,
		stats:    cfg.stats,
		logger:   cfg.logger,
	}

	if cfg.alwaysText {
		if spec.TextEncoding == "" {
			return nil, fmt.Errorf("%w: WithAlwaysTextEncoding requires a text encoding",
				codec.ErrConfiguration)
		}
		pipe, err := compiler.Compile(spec)
		if err != nil {
			return nil, err
		}
		p.pipe = pipe
		p.line = pipe
		return p, nil
	}

	pipe, err := compiler.Compile(spec.WithoutTextEncoding())
	if err != nil {
		return nil, err
	}
	p.pipe = pipe

	switch {
	case spec.TextEncoding != "":
		line, err := compiler.Compile(spec)
		if err != nil {
			return nil, err
		}
		p.line = line
	case pipe.TextCapable():
		p.line = pipe
	}
	return p, nil
}

// Extension returns the canonical dotted extension of the storage pipeline,
// e.g. ".json.gzip". Resolving it yields the pipeline's stages back.
func (p *Persister) Extension() string {
	return p.pipe.Extension()
}

// Mode returns whether stored representations are binary or text.
func (p *Persister) Mode() pipeline.Mode {
	return p.pipe.Mode()
}

// Spec returns the full specification the persister was built from,
// including any text encoding used only by the text operations.
func (p *Persister) Spec() pipeline.Spec {
	return p.spec
}

// Marshal transforms v into its storable representation.
func (p *Persister) Marshal(v any) ([]byte, error) {
	return p.pipe.Marshal(v)
}

// Unmarshal inverts Marshal, deserializing into v (must be a pointer).
func (p *Persister) Unmarshal(data []byte, v any) error {
	return p.pipe.Unmarshal(data, v)
}

// Dump persists v to the file at path, which is created or truncated. When
// auto-extension is enabled (the default) and path has no extension, the
// canonical extension is appended.
func (p *Persister) Dump(v any, path string) error {
	if p.autoExt {
		path = maybeAddExtension(path, p.Extension())
	}
	return p.dumpPath(v, path)
}

// DumpTo writes the storable representation of v to w. The writer is never
// closed; ownership stays with the caller.
func (p *Persister) DumpTo(w io.Writer, v any) error {
	cw := &countingWriter{w: chunkio.NewWriter(w)}
	if err := p.pipe.MarshalTo(cw, v); err != nil {
		return err
	}
	p.stats.IncCounter(stats.MetricDumps, 1)
	p.stats.ObserveHistogram(stats.MetricDumpBytes, float64(cw.n))
	return nil
}

// Load reads the value persisted at path into v (must be a pointer). The
// same auto-extension rule as Dump applies.
func (p *Persister) Load(v any, path string) error {
	if p.autoExt {
		path = maybeAddExtension(path, p.Extension())
	}
	return p.loadPath(v, path)
}

// LoadFrom reads one value from r into v. The reader is never closed.
func (p *Persister) LoadFrom(r io.Reader, v any) error {
	cr := &countingReader{r: chunkio.NewReader(r)}
	if err := p.pipe.UnmarshalFrom(cr, v); err != nil {
		return err
	}
	p.stats.IncCounter(stats.MetricLoads, 1)
	p.stats.ObserveHistogram(stats.MetricLoadBytes, float64(cr.n))
	return nil
}

// dumpPath writes v to path as-is, without the auto-extension rule.
func (p *Persister) dumpPath(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrResource, path, err)
	}

	if err := p.DumpTo(f, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrResource, path, err)
	}
	p.logger.Debug("dumped value",
		zap.String("path", path),
		zap.String("extension", p.Extension()),
	)
	return nil
}

// loadPath reads path into v as-is, without the auto-extension rule.
func (p *Persister) loadPath(v any, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrResource, path, err)
	}
	defer f.Close()

	if err := p.LoadFrom(f, v); err != nil {
		return err
	}
	p.logger.Debug("loaded value", zap.String("path", path))
	return nil
}

// maybeAddExtension appends ext to path only when path has no extension.
func maybeAddExtension(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + ext
	}
	return path
}

// ensureDir materializes dir, failing with ErrResource when it exists as a
// non-directory.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: %s exists but is not a directory", ErrResource, dir)
		}
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %w", ErrResource, dir, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: stat %s: %w", ErrResource, dir, err)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
