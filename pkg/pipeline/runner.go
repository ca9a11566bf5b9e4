package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/keywheel/pkg/cache"
	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/observability"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/related"
	"github.com/matzehuels/keywheel/pkg/theory"
)

// cacheKeyType labels topology entries in cache hook events.
const cacheKeyType = "topology"

// Runner executes the pipeline with a shared topology cache.
//
// The Runner holds no per-run state, so one Runner can serve many goroutines
// with different options. A cache is only valid for one resolver; give each
// Resolver its own cache.
type Runner struct {
	Cache    cache.Cache[*radial.Topology]
	Keyer    cache.Keyer
	Logger   *log.Logger
	Resolver related.Resolver
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer means
// the default one, and a nil logger means log.Default().
func NewRunner(c cache.Cache[*radial.Topology], keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache[*radial.Topology]()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Resolver: related.Default,
	}
}

// Execute runs topology → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Topology
	topoStart := time.Now()
	topo, hit, err := r.topology(ctx, opts.Key(), opts.Geometry, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Topology = topo
	result.CacheInfo.TopologyHit = hit
	result.Stats.TopologyTime = time.Since(topoStart)
	result.Stats.Truncated = len(topo.Failures)

	r.Logger.Info("built topology",
		"root", opts.Key().Spelling(),
		"nodes", topo.Stats().Total,
		"truncated", len(topo.Failures),
		"cached", hit,
		"duration", result.Stats.TopologyTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	tick := opts.ResolveTick()
	result.Frame = Frame{
		Root:      opts.Key(),
		Tick:      tick,
		Saturated: topo.Saturated(tick),
		Nodes:     topo.Layout(tick),
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(result.Nodes)

	r.Logger.Info("computed layout",
		"tick", tick,
		"saturated", result.Saturated,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result.Frame, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TopologyWithCacheInfo returns the topology for root and whether it came
// from the cache. It fails with ACCIDENTAL_RANGE when the root itself cannot
// be expanded; failures deeper in the tree only truncate it.
func (r *Runner) TopologyWithCacheInfo(ctx context.Context, root theory.Key, cfg radial.Config) (*radial.Topology, bool, error) {
	return r.topology(ctx, root, cfg, false)
}

// Topology is TopologyWithCacheInfo without the cache hit info.
func (r *Runner) Topology(ctx context.Context, root theory.Key, cfg radial.Config) (*radial.Topology, error) {
	topo, _, err := r.topology(ctx, root, cfg, false)
	return topo, err
}

// Layout lays out root at tick.
func (r *Runner) Layout(ctx context.Context, root theory.Key, tick uint, cfg radial.Config) ([]radial.Node, error) {
	topo, _, err := r.topology(ctx, root, cfg, false)
	if err != nil {
		return nil, err
	}
	return topo.Layout(tick), nil
}

func (r *Runner) topology(ctx context.Context, root theory.Key, cfg radial.Config, refresh bool) (*radial.Topology, bool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.TopologyKey(root.Spelling(), TopologyKeyOpts(cfg))

	if !refresh {
		if topo, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			r.Logger.Debug("topology cache hit", "root", root.Spelling())
			return topo, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnTopologyStart(ctx, root.Spelling())
	start := time.Now()

	resolver := r.Resolver
	if resolver == nil {
		resolver = related.Default
	}
	topo := radial.BuildTopology(root, cfg, radial.WithResolver(resolver), radial.WithLogger(r.Logger))

	for _, f := range topo.Failures {
		hooks.OnExpandFailed(ctx, f.Key.Spelling(), f.Generation, f.Err)
	}
	hooks.OnTopologyComplete(ctx, root.Spelling(), topo.Stats().Total, len(topo.Failures), time.Since(start))

	if err := rootError(topo); err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, topo, cache.TTLTopology); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType)
	}
	return topo, false, nil
}

// rootError reports a root that produced no tree at all.
func rootError(topo *radial.Topology) error {
	for _, f := range topo.Failures {
		if f.Generation == 0 {
			return kerrors.Wrap(kerrors.ErrCodeAccidentalRange, f.Err,
				"%s has no related keys", f.Key.Spelling())
		}
	}
	return nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}
