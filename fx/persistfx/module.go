// Package persistfx provides an fx module for an extension-configured
// persister.
package persistfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bourbaki-go/flexpersist"
	"github.com/bourbaki-go/flexpersist/pipeline"
	"github.com/bourbaki-go/flexpersist/stats"
	"github.com/bourbaki-go/flexpersist/stats/logger"
)

// Config holds configuration for the persister.
type Config struct {
	// Extension selects the pipeline, e.g. ".json.gzip".
	Extension string

	// CacheSize bounds the pipeline cache. Zero or negative means
	// unbounded.
	CacheSize int
}

// Module provides a *flexpersist.Persister.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("flexpersist",
	fx.Provide(
		newStatsCollector,
		newPersister,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("flexpersist.stats"))
}

// Params holds dependencies for creating the persister.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
}

// Result holds the provided persister.
type Result struct {
	fx.Out

	Persister *flexpersist.Persister
}

func newPersister(p Params) (Result, error) {
	cache := pipeline.NewUnboundedCache()
	if p.Config.CacheSize > 0 {
		var err error
		if cache, err = pipeline.NewLRUCache(p.Config.CacheSize); err != nil {
			return Result{}, err
		}
	}

	compiler := pipeline.NewCompiler(flexpersist.DefaultRegistry(),
		pipeline.WithCache(cache),
		pipeline.WithStats(p.Collector),
		pipeline.WithLogger(p.Logger.Named("flexpersist.pipeline")),
	)

	persister, err := flexpersist.FromExtension(p.Config.Extension,
		flexpersist.WithCompiler(compiler),
		flexpersist.WithStats(p.Collector),
		flexpersist.WithLogger(p.Logger.Named("flexpersist")),
	)
	if err != nil {
		return Result{}, err
	}

	return Result{Persister: persister}, nil
}
