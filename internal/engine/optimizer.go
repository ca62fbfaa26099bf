// Package engine computes table layouts for a venue. It runs a menu of
// placement strategies against the venue geometry, refines the best layout,
// and validates every returned placement against the configured clearances.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hallplan/hallplan/internal/cache"
	"github.com/hallplan/hallplan/internal/model"
)

// DefaultSeed feeds the local-search shuffles so repeated runs on the same
// input produce the same layout.
const DefaultSeed uint64 = 42

// DefaultCacheTTL bounds how long a computed layout stays in the cache.
const DefaultCacheTTL = 24 * time.Hour

// Options configure an Optimizer. The zero value works after
// ValidateAndSetDefaults: silent logging, no caching, parallel strategies.
type Options struct {
	// Serial runs the strategy menu one generator at a time instead of
	// fanning out across goroutines. The resulting layout is identical.
	Serial bool `json:"serial"`

	// Seed drives the local-search random source. Zero means DefaultSeed.
	Seed uint64 `json:"seed"`

	// CacheTTL is how long computed layouts stay cached. Zero means
	// DefaultCacheTTL.
	CacheTTL time.Duration `json:"cache_ttl"`

	// Logger receives per-strategy progress. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	// Cache stores finished layouts keyed by input geometry and config.
	// Defaults to a no-op cache.
	Cache cache.Cache `json:"-"`

	validated bool
}

// ValidateAndSetDefaults fills unset fields. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	o.validated = true
	return nil
}

// request carries one optimization run's inputs to the strategies. It is
// read-only once built, so generators may share it across goroutines.
type request struct {
	boundary  model.Boundary
	bbox      model.Rect
	usable    model.Rect
	obstacles []model.Obstacle
	cfg       model.Config
	clr       Clearances
	seed      uint64
	v         *Validator
}

// generator is a single placement strategy.
type generator interface {
	strategy() model.Strategy
	generate(*request) []model.Table
}

// Optimizer computes table layouts. Safe for concurrent use.
type Optimizer struct {
	opts Options
}

func New(opts Options) (*Optimizer, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("optimizer options: %w", err)
	}
	return &Optimizer{opts: opts}, nil
}

// Optimize places as many tables as possible inside boundary, honoring the
// clearances in cfg. An empty layout with a warning is a valid outcome (the
// venue may simply be too small); only malformed input returns an error.
// Cancelling ctx returns the best layout found so far with a warning.
func (o *Optimizer) Optimize(ctx context.Context, boundary model.Boundary, obstacles []model.Obstacle, cfg model.Config) (model.OptimizeResult, error) {
	start := time.Now()
	cfg.Normalize()
	if err := boundary.Validate(); err != nil {
		return model.OptimizeResult{}, fmt.Errorf("optimize: %w", err)
	}
	boundary = boundary.Canonical()

	key := cache.Key("layout", boundary, obstacles, cfg)
	if data, ok, err := o.opts.Cache.Get(ctx, key); err != nil {
		o.opts.Logger.Warn("layout cache read failed", "err", err)
	} else if ok {
		var res model.OptimizeResult
		if err := json.Unmarshal(data, &res); err == nil {
			res.Cache = model.CacheInfo{Hit: true, Key: key}
			o.opts.Logger.Debug("layout served from cache", "key", key)
			return res, nil
		}
		o.opts.Logger.Warn("dropping corrupt layout cache entry", "key", key)
	}

	res := o.compute(ctx, boundary, obstacles, cfg)
	res.Elapsed = time.Since(start)
	res.Cache = model.CacheInfo{Hit: false, Key: key}

	if data, err := json.Marshal(res); err == nil {
		if err := o.opts.Cache.Set(ctx, key, data, o.opts.CacheTTL); err != nil {
			o.opts.Logger.Warn("layout cache write failed", "err", err)
		}
	}
	return res, nil
}

func (o *Optimizer) compute(ctx context.Context, boundary model.Boundary, obstacles []model.Obstacle, cfg model.Config) model.OptimizeResult {
	res := model.OptimizeResult{Tables: []model.Table{}, Strategy: cfg.Strategy}

	clr := ClearancesFrom(cfg)
	bbox := boundary.BoundingRect()
	usable, ok := usableRect(bbox, clr.Wall)
	if !ok {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("venue leaves no usable space inside the %.0fmm wall clearance", clr.Wall))
		res.Stats = computeStats(nil, boundary)
		return res
	}

	req := &request{
		boundary:  boundary,
		bbox:      bbox,
		usable:    usable,
		obstacles: obstacles,
		cfg:       cfg,
		clr:       clr,
		seed:      o.opts.Seed,
		v:         NewValidator(boundary, obstacles, clr),
	}

	menu := strategyMenu(boundary, cfg)
	winner, tables := o.runStrategies(ctx, req, menu)

	switch {
	case ctx.Err() != nil:
		res.Warnings = append(res.Warnings, "optimization interrupted, returning best layout found so far")
	case winner != model.StrategyLargeVenue:
		tables = exhaustiveRefine(req, tables)
		tables = localSearch(req, tables)
	}

	if tables == nil {
		tables = []model.Table{}
	}
	res.Tables = tables
	res.Strategy = winner
	res.Stats = computeStats(tables, boundary)
	if len(tables) == 0 && ctx.Err() == nil {
		res.Warnings = append(res.Warnings, "no table fits the venue with the configured clearances")
	}
	return res
}

// strategyMenu picks the generators to run. A forced strategy runs alone,
// very large venues get only the degraded grid, and everything else runs the
// full menu.
func strategyMenu(boundary model.Boundary, cfg model.Config) []generator {
	if cfg.Strategy != "" && cfg.Strategy != model.StrategyAuto {
		if g, ok := generatorFor(cfg.Strategy); ok {
			return []generator{g}
		}
	}
	if boundary.Area() > largeVenueArea {
		return []generator{largeVenueGrid{}}
	}
	return []generator{regularGrid{}, obstacleAware{}, greedySearch{}, freeSpaceFill{}}
}

func generatorFor(s model.Strategy) (generator, bool) {
	switch s {
	case model.StrategyRegularGrid:
		return regularGrid{}, true
	case model.StrategyObstacleAware:
		return obstacleAware{}, true
	case model.StrategyGreedy:
		return greedySearch{}, true
	case model.StrategyFreeSpace:
		return freeSpaceFill{}, true
	case model.StrategyLargeVenue:
		return largeVenueGrid{}, true
	}
	return nil, false
}

// runStrategies executes every generator and returns the best layout by
// score. Each goroutine writes only its own slot, and ties keep the earliest
// menu position, so parallel and serial runs pick the same winner.
func (o *Optimizer) runStrategies(ctx context.Context, req *request, menu []generator) (model.Strategy, []model.Table) {
	layouts := make([][]model.Table, len(menu))
	if o.opts.Serial || len(menu) == 1 {
		for i, g := range menu {
			if ctx.Err() != nil {
				break
			}
			layouts[i] = o.runOne(req, g)
		}
	} else {
		var wg sync.WaitGroup
		for i, g := range menu {
			wg.Add(1)
			go func(slot int, g generator) {
				defer wg.Done()
				layouts[slot] = o.runOne(req, g)
			}(i, g)
		}
		wg.Wait()
	}

	best, bestScore := 0, -1.0
	for i, tables := range layouts {
		if sc := layoutScore(tables); sc > bestScore {
			best, bestScore = i, sc
		}
	}
	return menu[best].strategy(), layouts[best]
}

func (o *Optimizer) runOne(req *request, g generator) []model.Table {
	start := time.Now()
	tables := g.generate(req)
	o.opts.Logger.Debug("strategy finished",
		"strategy", g.strategy(),
		"tables", len(tables),
		"score", layoutScore(tables),
		"elapsed", time.Since(start))
	return tables
}

// Validate checks an explicit layout against the venue and clearances,
// returning every violation found rather than stopping at the first.
func (o *Optimizer) Validate(boundary model.Boundary, obstacles []model.Obstacle, cfg model.Config, tables []model.Table) (bool, []model.Violation, error) {
	cfg.Normalize()
	if err := boundary.Validate(); err != nil {
		return false, nil, fmt.Errorf("validate: %w", err)
	}
	v := NewValidator(boundary, obstacles, ClearancesFrom(cfg))
	ok, violations := v.Validate(tables)
	return ok, violations, nil
}
