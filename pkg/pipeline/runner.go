package pipeline

import (
	"cmp"
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/toposort/pkg/cache"
	errs "github.com/matzehuels/toposort/pkg/errors"
	"github.com/matzehuels/toposort/pkg/observability"
	"github.com/matzehuels/toposort/pkg/render/nodelink"
	"github.com/matzehuels/toposort/pkg/toposort"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long renders stay cached.
	TTL time.Duration
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
		TTL:    cache.TTLRender,
	}
}

// Sort orders opts.Relations.
//
// An incomplete ordering is not an error unless opts.Strict is set, in
// which case Sort returns a CYCLE_DETECTED error wrapping the
// [toposort.CycleError] and no result.
func (r *Runner) Sort(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := opts.resolveMode()
	hooks := observability.Pipeline()
	hooks.OnSortStart(ctx, mode, len(opts.Relations))

	start := time.Now()
	res, err := sortRelations(opts, mode)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnSortComplete(ctx, mode, 0, 0, elapsed, err)
		return nil, err
	}
	res.Stats = Stats{
		Relations: len(opts.Relations),
		Nodes:     res.Strings.Len(),
		SortTime:  elapsed,
	}
	hooks.OnSortComplete(ctx, mode, len(res.Strings.Order), len(res.Strings.Remaining), elapsed, nil)

	opts.Logger.Debug("sorted relations",
		"mode", mode,
		"relations", res.Stats.Relations,
		"ordered", len(res.Strings.Order),
		"remaining", len(res.Strings.Remaining),
		"duration", elapsed)

	if opts.Strict && !res.Complete() {
		return nil, errs.Wrap(errs.ErrCodeCycle, res.Err(),
			"%d of %d items could not be ordered", len(res.Strings.Remaining), res.Stats.Nodes)
	}
	return res, nil
}

func sortRelations(opts Options, mode string) (*Result, error) {
	if mode == ModeString {
		pairs := opts.Relations.Pairs()
		return &Result{
			Mode:    ModeString,
			Strings: toposort.SortOrdered(pairs),
			Pairs:   pairs,
		}, nil
	}

	ints, err := opts.Relations.Ints()
	if err != nil {
		return nil, err
	}

	var ordered toposort.Result[int]
	if maxID(ints) > opts.MaxDenseID {
		opts.Logger.Debug("identifiers exceed dense table limit, mapping", "limit", opts.MaxDenseID)
		ordered = toposort.SortOrdered(ints)
	} else {
		ordered, err = toposort.Analyze(ints)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRelation, err, "sort")
		}
	}

	pairs := make([]toposort.Pair[string], len(ints))
	for i, p := range ints {
		pairs[i] = toposort.Pair[string]{Before: strconv.Itoa(p.Before), After: strconv.Itoa(p.After)}
	}
	return &Result{
		Mode: ModeInt,
		Ints: ordered,
		Strings: toposort.Result[string]{
			Order:     intsToStrings(ordered.Order),
			Remaining: intsToStrings(ordered.Remaining),
		},
		Pairs: pairs,
	}, nil
}

func maxID(rels []toposort.Relation) int {
	hi := -1
	for _, p := range rels {
		hi = max(hi, p.Before, p.After)
	}
	return hi
}

// Render draws the relations and ordering of res. The bool result reports
// whether the bytes came from the cache. DOT output is never cached; SVG
// output is cached by the hash of its DOT source.
func (r *Runner) Render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format, res.Strings.Len())
	start := time.Now()

	dot := nodelink.ToDOT(res.Pairs, res.Strings, nodelink.Options{Detailed: opts.Detailed})
	if opts.Format == FormatDOT {
		hooks.OnRenderComplete(ctx, opts.Format, len(dot), time.Since(start), nil)
		return []byte(dot), false, nil
	}

	key := r.Keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{
		Format:   opts.Format,
		Detailed: opts.Detailed,
	})
	cacheHooks := observability.Cache()

	if !opts.NoCache {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("render cache read failed", "err", err)
		}
		if err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "render")
			hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), nil)
			return data, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "render")
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		err = errs.Wrap(errs.ErrCodeInternal, err, "render %s", opts.Format)
		hooks.OnRenderComplete(ctx, opts.Format, 0, time.Since(start), err)
		return nil, false, err
	}

	if !opts.NoCache {
		if err := r.Cache.Set(ctx, key, svg, r.TTL); err != nil {
			r.Logger.Warn("render cache write failed", "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "render", len(svg))
		}
	}

	r.Logger.Debug("rendered relations", "format", opts.Format, "bytes", len(svg), "duration", time.Since(start))
	hooks.OnRenderComplete(ctx, opts.Format, len(svg), time.Since(start), nil)
	return svg, false, nil
}

// Trace replays the sort of opts.Relations step by step. When the mode is
// string or the integers exceed opts.MaxDenseID, identifiers go through
// [toposort.TraceFunc], and the returned [Trace] translates event
// identifiers back to names.
func (r *Runner) Trace(ctx context.Context, opts Options) (*Trace, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := opts.resolveMode()
	if mode == ModeInt {
		ints, err := opts.Relations.Ints()
		if err != nil {
			return nil, err
		}
		if maxID(ints) <= opts.MaxDenseID {
			events, err := toposort.Trace(ints)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidRelation, err, "trace")
			}
			return &Trace{Mode: mode, Events: events}, nil
		}
		events, keys := toposort.TraceFunc(ints, cmp.Compare[int])
		return newMappedTrace(mode, events, keys, strconv.Itoa), nil
	}
	events, keys := toposort.TraceFunc(opts.Relations.Pairs(), cmp.Compare[string])
	return newMappedTrace(mode, events, keys, func(s string) string { return s }), nil
}

func newMappedTrace[T any](mode string, events []toposort.Event, keys []T, name func(T) string) *Trace {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = name(k)
	}
	return &Trace{Mode: mode, Events: events, names: names}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
