package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bourbaki-go/flexpersist/codec"
	"github.com/bourbaki-go/flexpersist/stats"
)

// Compiler builds pipelines from specs, looking up stages in a registry and
// memoizing the result. Compilation failures are never cached.
type Compiler struct {
	registry *codec.Registry
	cache    Cache
	stats    stats.Collector
	logger   *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCache sets the pipeline cache. Defaults to an unbounded cache.
func WithCache(c Cache) Option {
	return func(cp *Compiler) { cp.cache = c }
}

// WithStats sets the stats collector. Defaults to a no-op collector.
func WithStats(s stats.Collector) Option {
	return func(cp *Compiler) { cp.stats = s }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(cp *Compiler) { cp.logger = l }
}

// NewCompiler creates a compiler over the given registry.
func NewCompiler(reg *codec.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		registry: reg,
		cache:    NewUnboundedCache(),
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the compiler resolves stages in.
func (c *Compiler) Registry() *codec.Registry {
	return c.registry
}

// Compile returns the pipeline for spec, building it on first use. Any stage
// lookup or configuration failure surfaces immediately as a configuration
// error. Concurrent first compilations of the same spec may duplicate work;
// the results are interchangeable.
func (c *Compiler) Compile(spec Spec) (*Pipeline, error) {
	key := spec.Key()
	if p, ok := c.cache.Get(key); ok {
		c.stats.IncCounter(stats.MetricCacheHits, 1)
		return p, nil
	}
	c.stats.IncCounter(stats.MetricCacheMisses, 1)

	p, err := c.compile(spec)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, p)
	c.stats.IncCounter(stats.MetricCompiles, 1)
	c.logger.Debug("pipeline compiled",
		zap.String("serialization", spec.Serialization),
		zap.String("compression", spec.Compression),
		zap.String("textEncoding", spec.TextEncoding),
		zap.String("extension", p.Extension()),
		zap.Stringer("mode", p.Mode()),
	)
	return p, nil
}

// compile assembles the forward stage list; each stage records its inverse
// alongside, so the reverse chain falls out of the same list.
func (c *Compiler) compile(spec Spec) (*Pipeline, error) {
	reg := c.registry

	ser, err := reg.Serializer(spec.Serialization)
	if err != nil {
		return nil, err
	}
	if len(spec.DumpOpts) > 0 || len(spec.LoadOpts) > 0 {
		cs, ok := ser.(codec.ConfigurableSerializer)
		if !ok {
			return nil, fmt.Errorf("%w: serializer %q does not accept options",
				codec.ErrConfiguration, spec.Serialization)
		}
		if ser, err = cs.Configure(spec.DumpOpts, spec.LoadOpts); err != nil {
			return nil, err
		}
	}

	ext, err := canonicalExtension(reg, spec)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		spec:       spec,
		ext:        ext,
		serializer: ser,
	}
	if ser.Binary() {
		p.mode = ModeBinary
	} else {
		p.mode = ModeText
	}
	_, p.streamable = ser.(codec.StreamSerializer)

	if spec.Compression != "" {
		comp, err := reg.Compressor(spec.Compression)
		if err != nil {
			return nil, err
		}
		if len(spec.CompressOpts) > 0 || len(spec.DecompressOpts) > 0 {
			cc, ok := comp.(codec.ConfigurableCompressor)
			if !ok {
				return nil, fmt.Errorf("%w: compressor %q does not accept options",
					codec.ErrConfiguration, spec.Compression)
			}
			if comp, err = cc.Configure(spec.CompressOpts, spec.DecompressOpts); err != nil {
				return nil, err
			}
		}

		// Compression needs bytes; bridge from text if the serializer
		// produced text.
		if p.mode == ModeText {
			p.stages = append(p.stages, stage{forward: reg.EncodeText, inverse: reg.DecodeText})
		}
		p.stages = append(p.stages, stage{forward: comp.Compress, inverse: comp.Decompress})
		p.mode = ModeBinary
		p.streamable = false
	}

	if spec.TextEncoding != "" {
		enc, err := reg.TextEncoder(spec.TextEncoding)
		if err != nil {
			return nil, err
		}

		if p.mode == ModeText {
			p.stages = append(p.stages, stage{forward: reg.EncodeText, inverse: reg.DecodeText})
		}
		p.stages = append(p.stages, stage{forward: enc.Encode, inverse: enc.Decode})
		if enc.Binary() {
			// The encoder yields raw bytes; apply the registry's
			// character encoding to arrive at text.
			p.stages = append(p.stages, stage{forward: reg.DecodeText, inverse: reg.EncodeText})
		}
		p.mode = ModeText
		p.streamable = false
	}

	return p, nil
}
