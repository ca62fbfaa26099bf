package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/internal/cache"
	"github.com/hallplan/hallplan/internal/engine"
	"github.com/hallplan/hallplan/internal/export"
	"github.com/hallplan/hallplan/internal/importer"
	"github.com/hallplan/hallplan/internal/model"
	"github.com/hallplan/hallplan/internal/plan"
)

// inputOpts holds the venue and configuration flags shared by the optimize
// and compare commands.
type inputOpts struct {
	planFile     string
	venueFile    string
	obstacleFile string
	preset       string
	tableWidth   float64
	tableHeight  float64
	wall         float64
	gap          float64
	obstacleGap  float64
	gridSize     float64
	strategy     string
	serial       bool
	seed         uint64
	redisAddr    string
}

func registerInputFlags(cmd *cobra.Command, opts *inputOpts) {
	f := cmd.Flags()
	f.StringVar(&opts.planFile, "plan", "", "plan document to start from (JSON)")
	f.StringVar(&opts.venueFile, "venue", "", "venue drawing with boundary and obstacles (DXF)")
	f.StringVar(&opts.obstacleFile, "obstacles", "", "obstacle schedule (CSV or XLSX)")
	f.StringVar(&opts.preset, "preset", "", fmt.Sprintf("table size preset (%s)", strings.Join(model.GetPresetNames(), ", ")))
	f.Float64Var(&opts.tableWidth, "table-width", 2850, "table width in mm")
	f.Float64Var(&opts.tableHeight, "table-height", 1550, "table height in mm")
	f.Float64Var(&opts.wall, "wall", 1500, "minimum clearance to walls in mm")
	f.Float64Var(&opts.gap, "gap", 1400, "minimum clearance between tables in mm")
	f.Float64Var(&opts.obstacleGap, "obstacle-gap", 0, "minimum clearance to obstacles in mm (0 = wall clearance)")
	f.Float64Var(&opts.gridSize, "grid", 100, "scan step in mm")
	f.StringVar(&opts.strategy, "strategy", "auto", "placement strategy (auto, regular_grid, obstacle_aware, greedy, free_space, large_venue)")
	f.BoolVar(&opts.serial, "serial", false, "run strategies one at a time instead of in parallel")
	f.Uint64Var(&opts.seed, "seed", 0, "local search random seed (0 = default)")
	f.StringVar(&opts.redisAddr, "redis", "", "redis address for the shared layout cache (host:port)")
}

type optimizeOpts struct {
	inputOpts
	name         string
	outFile      string
	dxfFile      string
	scheduleFile string
	labelsFile   string
}

func newOptimizeCmd() *cobra.Command {
	var opts optimizeOpts

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute a table layout for a venue",
		Long: `Compute the densest valid table layout for a venue.

The venue comes from a DXF drawing (largest closed outline = walls, smaller
ones = obstacles), an obstacle schedule (CSV/XLSX), a saved plan document, or
any combination. The result is printed as JSON unless output files are given.

Examples:
  hallplan optimize --venue hall.dxf
  hallplan optimize --venue hall.dxf --obstacles pillars.csv --out hall.json
  hallplan optimize --plan hall.json --strategy free_space --schedule tables.xlsx
  hallplan optimize --venue hall.dxf --preset snooker-12ft --labels labels.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, &opts)
		},
	}

	registerInputFlags(cmd, &opts.inputOpts)
	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "plan name recorded in the saved document")
	f.StringVarP(&opts.outFile, "out", "o", "", "write the resulting plan document (JSON)")
	f.StringVar(&opts.dxfFile, "dxf", "", "export the layout as DXF line geometry")
	f.StringVar(&opts.scheduleFile, "schedule", "", "export the placement schedule (XLSX)")
	f.StringVar(&opts.labelsFile, "labels", "", "export QR installation labels (PDF)")

	return cmd
}

func runOptimize(cmd *cobra.Command, opts *optimizeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, err := buildPlan(cmd, &opts.inputOpts)
	if err != nil {
		return err
	}
	if opts.name != "" {
		p.Name = opts.name
	}

	opt, err := buildOptimizer(ctx, &opts.inputOpts)
	if err != nil {
		return err
	}

	logger.Info("computing layout",
		"obstacles", len(p.Obstacles),
		"table", fmt.Sprintf("%.0fx%.0f", p.Config.TableWidth, p.Config.TableHeight),
		"strategy", p.Config.Strategy)

	prog := newProgress(logger)
	res, err := opt.Optimize(ctx, p.Boundary, p.Obstacles, p.Config)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d tables with %s", res.Stats.Count, res.Strategy))

	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	logger.Info("layout statistics",
		"utilization", fmt.Sprintf("%.1f%%", res.Stats.SpaceUtilization),
		"avg_clearance", fmt.Sprintf("%.0fmm", res.Stats.AverageClearance),
		"cache_hit", res.Cache.Hit)

	p.Result = &res
	return writeOutputs(cmd, opts, p)
}

// buildPlan assembles the working plan from --plan, --venue and --obstacles,
// then layers the config flags over it.
func buildPlan(cmd *cobra.Command, opts *inputOpts) (model.Plan, error) {
	logger := loggerFromContext(cmd.Context())

	p := model.NewPlan()
	if opts.planFile != "" {
		loaded, err := plan.Load(opts.planFile)
		if err != nil {
			return model.Plan{}, err
		}
		p = loaded
	}

	if opts.venueFile != "" {
		imp := importer.ImportDXF(opts.venueFile)
		for _, w := range imp.Warnings {
			logger.Warn(w)
		}
		if len(imp.Errors) > 0 {
			return model.Plan{}, fmt.Errorf("venue import: %s", strings.Join(imp.Errors, "; "))
		}
		p.Boundary = imp.Boundary
		p.Obstacles = append(p.Obstacles, imp.Obstacles...)
		logger.Debug("venue imported", "points", len(imp.Boundary), "obstacles", len(imp.Obstacles))
	}

	if opts.obstacleFile != "" {
		obstacles, err := loadObstacleFile(opts.obstacleFile, logger)
		if err != nil {
			return model.Plan{}, err
		}
		p.Obstacles = append(p.Obstacles, obstacles...)
	}

	if len(p.Boundary) == 0 {
		return model.Plan{}, fmt.Errorf("no venue boundary: provide --venue or a --plan that has one")
	}

	cfg, err := buildConfig(cmd, opts, p.Config)
	if err != nil {
		return model.Plan{}, err
	}
	p.Config = cfg
	return p, nil
}

// loadObstacleFile reads an obstacle schedule, dispatching on the file
// extension. Row-level problems are logged, not fatal: the good rows still
// count.
func loadObstacleFile(path string, logger *log.Logger) ([]model.Obstacle, error) {
	var result importer.ImportResult
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		result = importer.ImportCSV(path)
	case ".xlsx":
		result = importer.ImportExcel(path)
	default:
		return nil, fmt.Errorf("unsupported obstacle schedule format %q (want .csv or .xlsx)", ext)
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	for _, e := range result.Errors {
		logger.Warn(e)
	}
	if len(result.Obstacles) == 0 && len(result.Errors) > 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	logger.Debug("obstacle schedule imported", "path", path, "count", len(result.Obstacles))
	return result.Obstacles, nil
}

// buildConfig layers the command-line flags over the plan's stored config.
// A preset sets the table size first; explicitly set dimension flags win.
func buildConfig(cmd *cobra.Command, opts *inputOpts, base model.Config) (model.Config, error) {
	cfg := base
	cfg.Normalize()

	if opts.preset != "" {
		found := false
		for _, pr := range model.TablePresets {
			if pr.Name == opts.preset {
				cfg.TableWidth = pr.Width
				cfg.TableHeight = pr.Height
				found = true
				break
			}
		}
		if !found {
			return model.Config{}, fmt.Errorf("unknown preset %q (available: %s)",
				opts.preset, strings.Join(model.GetPresetNames(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("table-width") {
		cfg.TableWidth = opts.tableWidth
	}
	if flags.Changed("table-height") {
		cfg.TableHeight = opts.tableHeight
	}
	if flags.Changed("wall") {
		cfg.WallDistance = opts.wall
	}
	if flags.Changed("gap") {
		cfg.TableDistance = opts.gap
	}
	if flags.Changed("obstacle-gap") {
		cfg.ObstacleDistance = opts.obstacleGap
	}
	if flags.Changed("grid") {
		cfg.GridSize = opts.gridSize
	}
	if flags.Changed("strategy") || cfg.Strategy == "" {
		st, err := model.ParseStrategy(opts.strategy)
		if err != nil {
			return model.Config{}, err
		}
		cfg.Strategy = st
	}
	return cfg, nil
}

// buildOptimizer wires the engine with the CLI logger and, when requested,
// the shared Redis cache. An unreachable Redis degrades to no caching.
func buildOptimizer(ctx context.Context, opts *inputOpts) (*engine.Optimizer, error) {
	logger := loggerFromContext(ctx)

	engOpts := engine.Options{
		Serial: opts.serial,
		Seed:   opts.seed,
		Logger: logger,
	}
	if opts.redisAddr != "" {
		c, err := cache.NewRedisCache(ctx, opts.redisAddr, "", 0)
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without", "err", err)
		} else {
			engOpts.Cache = c
			logger.Debug("using redis layout cache", "addr", opts.redisAddr)
		}
	}
	return engine.New(engOpts)
}

func writeOutputs(cmd *cobra.Command, opts *optimizeOpts, p model.Plan) error {
	logger := loggerFromContext(cmd.Context())
	wrote := false

	if opts.outFile != "" {
		if err := plan.Save(opts.outFile, p); err != nil {
			return err
		}
		logger.Info("wrote plan document", "path", opts.outFile)
		wrote = true
	}
	if opts.dxfFile != "" {
		if err := export.ExportDXF(opts.dxfFile, p); err != nil {
			return err
		}
		logger.Info("wrote DXF layout", "path", opts.dxfFile)
		wrote = true
	}
	if opts.scheduleFile != "" {
		if err := export.ExportSchedule(opts.scheduleFile, *p.Result); err != nil {
			return err
		}
		logger.Info("wrote placement schedule", "path", opts.scheduleFile)
		wrote = true
	}
	if opts.labelsFile != "" {
		if err := export.ExportLabels(opts.labelsFile, *p.Result); err != nil {
			return err
		}
		logger.Info("wrote installation labels", "path", opts.labelsFile)
		wrote = true
	}
	if wrote {
		return nil
	}

	// No output files requested: print the result for piping
	data, err := json.MarshalIndent(p.Result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
