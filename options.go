package flexpersist

import (
	"go.uber.org/zap"

	"github.com/bourbaki-go/flexpersist/codec"
	"github.com/bourbaki-go/flexpersist/pipeline"
	"github.com/bourbaki-go/flexpersist/stats"
)

// Option configures a Persister.
type Option interface {
	apply(*options)
}

// options holds the persister configuration.
type options struct {
	compression  string
	textEncoding string
	alwaysText   bool

	dumpOpts       pipeline.Options
	loadOpts       pipeline.Options
	compressOpts   pipeline.Options
	decompressOpts pipeline.Options

	registry *codec.Registry
	compiler *pipeline.Compiler
	logger   *zap.Logger
	stats    stats.Collector

	autoExtension bool
	padWidth      int
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		logger:        zap.NewNop(),
		stats:         stats.NewNoop(),
		autoExtension: true,
		padWidth:      6,
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCompression sets the compression stage by name.
func WithCompression(name string) Option {
	return optionFunc(func(o *options) {
		o.compression = name
	})
}

// WithTextEncoding sets the text-encoding stage by name. Unless
// WithAlwaysTextEncoding is also given, the encoding is used only by the
// line-oriented text operations; single-object dumps store the un-encoded
// representation.
func WithTextEncoding(name string) Option {
	return optionFunc(func(o *options) {
		o.textEncoding = name
	})
}

// WithAlwaysTextEncoding makes every operation materialize through the text
// encoding, never through raw bytes. Requires WithTextEncoding.
func WithAlwaysTextEncoding() Option {
	return optionFunc(func(o *options) {
		o.alwaysText = true
	})
}

// WithDumpOptions sets serializer options bound at pipeline compile time.
func WithDumpOptions(opts pipeline.Options) Option {
	return optionFunc(func(o *options) {
		o.dumpOpts = opts
	})
}

// WithLoadOptions sets deserializer options bound at pipeline compile time.
func WithLoadOptions(opts pipeline.Options) Option {
	return optionFunc(func(o *options) {
		o.loadOpts = opts
	})
}

// WithCompressOptions sets compressor options bound at pipeline compile time.
func WithCompressOptions(opts pipeline.Options) Option {
	return optionFunc(func(o *options) {
		o.compressOpts = opts
	})
}

// WithDecompressOptions sets decompressor options bound at pipeline compile
// time.
func WithDecompressOptions(opts pipeline.Options) Option {
	return optionFunc(func(o *options) {
		o.decompressOpts = opts
	})
}

// WithRegistry sets the codec registry to resolve stages in.
// If not set, the process-wide default registry is used.
func WithRegistry(r *codec.Registry) Option {
	return optionFunc(func(o *options) {
		o.registry = r
	})
}

// WithCompiler sets the pipeline compiler, including its cache. Overrides
// WithRegistry; the compiler's own registry is used.
func WithCompiler(c *pipeline.Compiler) Option {
	return optionFunc(func(o *options) {
		o.compiler = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithAutoExtension controls whether path-based operations append the
// canonical extension to paths that have none. Default true.
func WithAutoExtension(enabled bool) Option {
	return optionFunc(func(o *options) {
		o.autoExtension = enabled
	})
}

// WithPadWidth sets the zero-pad width of sequential stream filenames.
// Default 6.
func WithPadWidth(n int) Option {
	return optionFunc(func(o *options) {
		o.padWidth = n
	})
}
