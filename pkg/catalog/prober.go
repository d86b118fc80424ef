package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphma/pkg/cache"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/operator"
	"github.com/matzehuels/graphma/pkg/pipeline"
)

// Prober reads file headers and edge statistics through a cache.
type Prober struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewProber creates a prober. A nil cache disables caching, a nil keyer
// selects the default keyer and a nil logger discards output.
func NewProber(c cache.Cache, k cache.Keyer, logger *log.Logger) *Prober {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Prober{Cache: c, Keyer: k, Logger: logger}
}

// ProbeWithCacheInfo describes the file at path and reports whether the
// descriptor came from the cache. An empty format is inferred from the
// extension.
func (p *Prober) ProbeWithCacheInfo(ctx context.Context, path string, format formats.Format, opts Options) (formats.Descriptor, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return formats.Descriptor{}, false, err
	}
	if format == "" {
		f, err := formats.DetectFormat(path)
		if err != nil {
			return formats.Descriptor{}, false, err
		}
		format = f
	}

	info, statErr := os.Stat(path)
	var key string
	if statErr == nil {
		key = p.Keyer.HeaderKey(path, info.Size(), info.ModTime(), string(format))
		if !opts.Refresh {
			if data, hit, err := p.Cache.Get(ctx, key); err == nil && hit {
				var d formats.Descriptor
				if err := json.Unmarshal(data, &d); err == nil {
					return d, true, nil
				}
			}
		}
	}

	d, err := formats.ReadHeader(path, format)
	if err != nil {
		return formats.Descriptor{}, false, err
	}

	if key != "" {
		if data, err := json.Marshal(d); err == nil {
			if err := p.Cache.Set(ctx, key, data, opts.TTL); err != nil {
				p.Logger.Warn("cache header", "path", path, "err", err)
			}
		}
	}
	return d, false, nil
}

// Probe is a convenience wrapper that calls ProbeWithCacheInfo and discards
// the cache hit info.
func (p *Prober) Probe(ctx context.Context, path string, format formats.Format, opts Options) (formats.Descriptor, error) {
	d, _, err := p.ProbeWithCacheInfo(ctx, path, format, opts)
	return d, err
}

// StatsWithCacheInfo reads every edge of d and summarizes them. The result
// is cached like headers are.
func (p *Prober) StatsWithCacheInfo(ctx context.Context, d formats.Descriptor, fopts formats.Options, ttl time.Duration) (operator.Stats, bool, error) {
	info, statErr := os.Stat(d.Path)
	var key string
	if statErr == nil {
		key = p.Keyer.StatsKey(d.Path, info.Size(), info.ModTime())
		if data, hit, err := p.Cache.Get(ctx, key); err == nil && hit {
			var st operator.Stats
			if err := json.Unmarshal(data, &st); err == nil {
				return st, true, nil
			}
		}
	}

	st, err := pipeline.Into(operator.EdgeStats[string]).
		Apply(d.Edges(fopts), pipeline.Options{Name: "stats", Logger: p.Logger}).
		Evaluate(ctx)
	if err != nil {
		return operator.Stats{}, false, fmt.Errorf("stats %s: %w", d.Path, err)
	}

	if key != "" {
		if data, err := json.Marshal(st); err == nil {
			if err := p.Cache.Set(ctx, key, data, ttl); err != nil {
				p.Logger.Warn("cache stats", "path", d.Path, "err", err)
			}
		}
	}
	return st, false, nil
}
