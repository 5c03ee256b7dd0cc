package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gambitproject/draw-tree/pkg/cache"
	"github.com/gambitproject/draw-tree/pkg/ef"
	"github.com/gambitproject/draw-tree/pkg/game"
	"github.com/gambitproject/draw-tree/pkg/layout"
	"github.com/gambitproject/draw-tree/pkg/observability"
	"github.com/gambitproject/draw-tree/pkg/render/tikz"
)

// nil-safe accessors for hook arguments on failed stages.
func nodeCountOf(t *game.Tree) int {
	if t == nil {
		return 0
	}
	return t.NodeCount()
}

func widenedOf(l *layout.Layout) int {
	if l == nil {
		return 0
	}
	return l.Widened
}

// Runner executes the pipeline with caching. It is stateless apart
// from the cache and logger, so one Runner can serve concurrent runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil
// keyer selects the default keyer.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs parse → validate → layout → emit and then builds the
// requested artifacts. The first failing stage aborts the run; no
// partial artifacts are returned.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		TreeHash:  r.Keyer.TreeKey(opts.Source),
		Artifacts: make(map[string][]byte),
	}

	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, len(opts.Source))
	tree, err := r.ParseTree(ctx, opts)
	observability.Pipeline().OnParseComplete(ctx, nodeCountOf(tree), time.Since(parseStart), err)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = tree.NodeCount()
	result.Stats.InfoSetCount = len(tree.InfoSets)

	r.Logger.Info("parsed game tree",
		"nodes", tree.NodeCount(),
		"infosets", len(tree.InfoSets),
		"duration", result.Stats.ParseTime)

	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, tree.NodeCount())
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, tree, result.TreeHash, opts)
	observability.Pipeline().OnLayoutComplete(ctx, widenedOf(l), time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Widened = l.Widened
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"width", l.Width(),
		"widened", l.Widened,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	emitStart := time.Now()
	result.Document = tikz.EmitWithOptions(tree, l, tikz.EmitOptions{Grid: opts.Grid})
	result.Stats.EmitTime = time.Since(emitStart)

	r.Logger.Debug("emitted markup",
		"elements", len(result.Document.Elements),
		"duration", result.Stats.EmitTime)

	artifactStart := time.Now()
	observability.Pipeline().OnArtifactsStart(ctx, opts.Formats)
	artifacts, artifactHit, err := r.BuildArtifactsWithCacheInfo(ctx, result, opts)
	observability.Pipeline().OnArtifactsComplete(ctx, opts.Formats, time.Since(artifactStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ArtifactTime = time.Since(artifactStart)
	result.CacheInfo.ArtifactHit = artifactHit

	r.Logger.Info("built artifacts",
		"formats", opts.Formats,
		"cached", artifactHit,
		"duration", result.Stats.ArtifactTime)

	return result, nil
}

// ParseTree parses and validates the source. Parsing is cheap, so it
// is never cached.
func (r *Runner) ParseTree(ctx context.Context, opts Options) (*game.Tree, error) {
	tree, err := ef.Parse(bytes.NewReader(opts.Source))
	if err != nil {
		return nil, err
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

// ComputeLayoutWithCacheInfo computes the layout, consulting the cache
// first, and reports whether the cache was hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, tree *game.Tree, treeHash string, opts Options) (*layout.Layout, bool, error) {
	key := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil && len(cached.Placements) == tree.NodeCount() {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			// corrupt entry, recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := layout.Compute(tree, opts.Params)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(l); err == nil {
		if r.Cache.Set(ctx, key, data, cache.TTLLayout) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, tree *game.Tree, opts Options) (*layout.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, tree, r.Keyer.TreeKey(opts.Source), opts)
	return l, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
