package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/gallery"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the load → layout pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	layoutStart := time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, result.Items, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Columns = opts.ColumnCount()
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	if l == nil {
		r.Logger.Warn("layout skipped", "container_width", opts.ContainerWidth)
	} else {
		r.Logger.Info("computed layout",
			"items", len(l.Items),
			"columns", l.Columns,
			"height", l.TotalHeight,
			"cached", hit)
	}
	return result, nil
}

// Load reads the manifest, probes missing heights and converts the entries
// to layout items.
func (r *Runner) Load(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Manifest)

	result, err := r.load(ctx, opts)
	count := 0
	if result != nil {
		count = len(result.Items)
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Manifest, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result.Stats.LoadTime = time.Since(start)
	r.Logger.Info("loaded gallery",
		"manifest", opts.Manifest,
		"items", count,
		"duration", result.Stats.LoadTime)
	return result, nil
}

func (r *Runner) load(ctx context.Context, opts Options) (*Result, error) {
	m, err := gallery.Load(opts.Manifest)
	if err != nil {
		return nil, err
	}
	result := &Result{Manifest: m}

	if !opts.SkipProbe && len(m.Unresolved()) > 0 {
		p := opts.Prober
		if p == nil {
			p = &gallery.Prober{Cache: r.Cache, Keyer: r.Keyer, Logger: opts.Logger}
		}
		report, err := p.Probe(ctx, m)
		if err != nil {
			return nil, err
		}
		result.Probe = report
		result.CacheInfo.ProbeCached = report.Cached
		r.Logger.Debug("probed images",
			"resolved", report.Resolved,
			"cached", report.Cached,
			"failed", len(report.Failed))
	}

	items, err := m.Items()
	if err != nil {
		return nil, err
	}
	result.Items = items
	result.Stats.ItemCount = len(items)
	if result.ItemsHash, err = cache.HashJSON(items); err != nil {
		return nil, err
	}
	return result, nil
}

// LayoutWithCacheInfo computes the layout for items with caching and returns
// cache hit info. It returns a nil layout, and no error, when the container
// width is not usable.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []masonry.Item, opts Options) (*masonry.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cols := opts.ColumnCount()
	itemsHash, err := cache.HashJSON(items)
	if err != nil {
		return nil, false, fmt.Errorf("hash items: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(itemsHash, cache.LayoutKeyOpts{
		ContainerWidth: opts.ContainerWidth,
		Columns:        cols,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached masonry.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l := Compute(ctx, opts.ContainerWidth, cols, items)
	if l == nil {
		return nil, false, nil
	}

	if data, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err != nil {
			opts.Logger.Debug("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, items []masonry.Item, opts Options) (*masonry.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, items, opts)
	return l, err
}

// Compute runs one layout pass and reports it to the observability hooks.
// It returns nil when containerWidth is not usable.
func Compute(ctx context.Context, containerWidth float64, columns int, items []masonry.Item) *masonry.Layout {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, columns, len(items))
	l, ok := masonry.Compute(containerWidth, columns, items)
	if !ok {
		observability.Pipeline().OnLayoutSkipped(ctx, containerWidth)
		return nil
	}
	observability.Pipeline().OnLayoutComplete(ctx, columns, time.Since(start), nil)
	return l
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
