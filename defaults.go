package flexpersist

import (
	"sync"

	"github.com/bourbaki-go/flexpersist/codec"
	"github.com/bourbaki-go/flexpersist/codec/basecodec"
	"github.com/bourbaki-go/flexpersist/codec/bzip2codec"
	"github.com/bourbaki-go/flexpersist/codec/cborcodec"
	"github.com/bourbaki-go/flexpersist/codec/gobcodec"
	"github.com/bourbaki-go/flexpersist/codec/gzipcodec"
	"github.com/bourbaki-go/flexpersist/codec/jsoncodec"
	"github.com/bourbaki-go/flexpersist/codec/lz4codec"
	"github.com/bourbaki-go/flexpersist/codec/lzmacodec"
	"github.com/bourbaki-go/flexpersist/codec/msgpackcodec"
	"github.com/bourbaki-go/flexpersist/codec/zstdcodec"
	"github.com/bourbaki-go/flexpersist/pipeline"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *codec.Registry
	defaultCompiler *pipeline.Compiler
)

// DefaultRegistry returns the process-wide registry, constructed once with
// every built-in stage. Layer a child on it (Registry.Child) for isolated
// configurations instead of mutating it.
func DefaultRegistry() *codec.Registry {
	defaultOnce.Do(buildDefaults)
	return defaultRegistry
}

// DefaultCompiler returns the process-wide pipeline compiler over
// DefaultRegistry, sharing one unbounded pipeline cache.
func DefaultCompiler() *pipeline.Compiler {
	defaultOnce.Do(buildDefaults)
	return defaultCompiler
}

func buildDefaults() {
	r := codec.New()

	mustRegisterSerializer(r, jsoncodec.New())
	mustRegisterSerializer(r, gobcodec.New())
	mustRegisterSerializer(r, msgpackcodec.New())
	mustRegisterSerializer(r, cborcodec.New())

	mustRegisterCompressor(r, gzipcodec.New())
	mustRegisterCompressor(r, zstdcodec.New())
	mustRegisterCompressor(r, lz4codec.New())
	mustRegisterCompressor(r, lzmacodec.New())
	mustRegisterCompressor(r, bzip2codec.New())

	mustRegisterTextEncoder(r, basecodec.Base16())
	mustRegisterTextEncoder(r, basecodec.Base32())
	mustRegisterTextEncoder(r, basecodec.Base64())
	mustRegisterTextEncoder(r, basecodec.Base85())

	defaultRegistry = r
	defaultCompiler = pipeline.NewCompiler(r)
}

func mustRegisterSerializer(r *codec.Registry, s codec.Serializer) {
	if err := r.RegisterSerializer(s); err != nil {
		panic(err)
	}
}

func mustRegisterCompressor(r *codec.Registry, c codec.Compressor) {
	if err := r.RegisterCompressor(c); err != nil {
		panic(err)
	}
}

func mustRegisterTextEncoder(r *codec.Registry, e codec.TextEncoder) {
	if err := r.RegisterTextEncoder(e); err != nil {
		panic(err)
	}
}
