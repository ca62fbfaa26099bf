package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidBoundary is returned when a venue boundary cannot describe a polygon.
var ErrInvalidBoundary = errors.New("boundary must have at least 3 points and non-zero area")

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Boundary represents the venue outline as a closed polygon.
// The polygon is implicitly closed: the last point connects back to the first.
type Boundary []Point2D

// NewRectBoundary builds a rectangular boundary from its origin and size.
func NewRectBoundary(x, y, w, h float64) Boundary {
	return Boundary{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// BoundingRect returns the axis-aligned bounding box of the boundary.
func (b Boundary) BoundingRect() Rect {
	if len(b) == 0 {
		return Rect{}
	}
	minX, minY := b[0].X, b[0].Y
	maxX, maxY := b[0].X, b[0].Y
	for _, p := range b[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// signedArea is positive for counter-clockwise point order.
func (b Boundary) signedArea() float64 {
	var sum float64
	for i, p := range b {
		q := b[(i+1)%len(b)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Area returns the polygon area in mm² (shoelace formula).
func (b Boundary) Area() float64 {
	return math.Abs(b.signedArea())
}

// Canonical returns the boundary in counter-clockwise point order.
func (b Boundary) Canonical() Boundary {
	if b.signedArea() >= 0 {
		return b
	}
	out := make(Boundary, len(b))
	for i, p := range b {
		out[len(b)-1-i] = p
	}
	return out
}

// Validate reports whether the boundary describes a usable polygon.
func (b Boundary) Validate() error {
	if len(b) < 3 {
		return fmt.Errorf("%w: got %d points", ErrInvalidBoundary, len(b))
	}
	if b.Area() < 1e-9 {
		return fmt.Errorf("%w: degenerate polygon", ErrInvalidBoundary)
	}
	return nil
}

// ContainsPoint reports whether p lies inside the polygon (ray casting).
func (b Boundary) ContainsPoint(p Point2D) bool {
	inside := false
	for i, a := range b {
		c := b[(i+1)%len(b)]
		if (a.Y > p.Y) != (c.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(c.Y-a.Y)*(c.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Rect is an axis-aligned rectangle in mm.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns the rectangle area in mm².
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Center returns the rectangle midpoint.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects reports whether the interiors overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely within r (shared edges allowed).
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// DistanceTo returns the Euclidean gap between two rectangles, 0 when they
// overlap or touch.
func (r Rect) DistanceTo(o Rect) float64 {
	dx := math.Max(0, math.Max(o.X-r.Right(), r.X-o.Right()))
	dy := math.Max(0, math.Max(o.Y-r.Bottom(), r.Y-o.Bottom()))
	return math.Hypot(dx, dy)
}

// DistanceToPoint returns the distance from p to the rectangle, 0 when inside.
func (r Rect) DistanceToPoint(p Point2D) float64 {
	dx := math.Max(0, math.Max(r.X-p.X, p.X-r.Right()))
	dy := math.Max(0, math.Max(r.Y-p.Y, p.Y-r.Bottom()))
	return math.Hypot(dx, dy)
}

// Inflate grows the rectangle by d on every side (negative d shrinks).
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Rotation is the placement orientation of a table in degrees.
type Rotation int

const (
	Rotation0  Rotation = 0
	Rotation90 Rotation = 90
)

func (r Rotation) String() string {
	if r == Rotation90 {
		return "90°"
	}
	return "0°"
}

// Flipped returns the other orientation.
func (r Rotation) Flipped() Rotation {
	if r == Rotation90 {
		return Rotation0
	}
	return Rotation90
}

// Table represents one placed table. Width and Height are the unrotated
// dimensions; Bounds swaps them at 90°.
type Table struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"` // Position of the reference corner (mm)
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`  // mm
	Height   float64  `json:"height"` // mm
	Rotation Rotation `json:"rotation"`
}

func NewTable(x, y, w, h float64, rot Rotation) Table {
	return Table{
		ID:       uuid.New().String()[:8],
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
		Rotation: rot,
	}
}

// PlacedWidth returns the effective width considering rotation.
func (t Table) PlacedWidth() float64 {
	if t.Rotation == Rotation90 {
		return t.Height
	}
	return t.Width
}

// PlacedHeight returns the effective height considering rotation.
func (t Table) PlacedHeight() float64 {
	if t.Rotation == Rotation90 {
		return t.Width
	}
	return t.Height
}

// Bounds returns the occupied rectangle.
func (t Table) Bounds() Rect {
	return Rect{X: t.X, Y: t.Y, Width: t.PlacedWidth(), Height: t.PlacedHeight()}
}

// Obstacle represents a fixed rectangular blockage inside the venue.
type Obstacle struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
}

func NewObstacle(label string, x, y, w, h float64) Obstacle {
	return Obstacle{
		ID:     uuid.New().String()[:8],
		Label:  label,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
}

// Bounds returns the occupied rectangle.
func (o Obstacle) Bounds() Rect {
	return Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// Strategy selects the placement algorithm to run.
type Strategy string

const (
	StrategyAuto          Strategy = "auto"           // Full menu, best score wins
	StrategyRegularGrid   Strategy = "regular_grid"   // Uniform grid, best single rotation
	StrategyObstacleAware Strategy = "obstacle_aware" // Row sweep around obstacles
	StrategyGreedy        Strategy = "greedy"         // Scored candidate search favoring walls/corners
	StrategyFreeSpace     Strategy = "free_space"     // Maximal-rectangle greedy fill
	StrategyLargeVenue    Strategy = "large_venue"    // Degraded single-pass mode for very large venues
)

// ValidStrategies lists the accepted strategy selectors.
var ValidStrategies = map[Strategy]bool{
	StrategyAuto:          true,
	StrategyRegularGrid:   true,
	StrategyObstacleAware: true,
	StrategyGreedy:        true,
	StrategyFreeSpace:     true,
	StrategyLargeVenue:    true,
}

func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy validates a strategy name from user input.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	if !ValidStrategies[st] {
		return StrategyAuto, fmt.Errorf("unknown strategy %q", s)
	}
	return st, nil
}

// Config holds the placement parameters. All distances in mm.
type Config struct {
	WallDistance     float64  `json:"wall_distance"`               // Minimum clearance to the venue boundary
	TableDistance    float64  `json:"table_distance"`              // Minimum clearance between tables
	ObstacleDistance float64  `json:"obstacle_distance,omitempty"` // Minimum clearance to obstacles; 0 = wall_distance
	TableWidth       float64  `json:"table_width"`
	TableHeight      float64  `json:"table_height"`
	GridSize         float64  `json:"grid_size"` // Scan step for brute-force passes
	Strategy         Strategy `json:"strategy,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		WallDistance:  1500,
		TableDistance: 1400,
		TableWidth:    2850,
		TableHeight:   1550,
		GridSize:      100,
		Strategy:      StrategyAuto,
	}
}

// ObstacleClearance returns the obstacle clearance, falling back to the wall
// clearance when unset.
func (c Config) ObstacleClearance() float64 {
	if c.ObstacleDistance > 0 {
		return c.ObstacleDistance
	}
	return c.WallDistance
}

// Normalize fills non-positive dimensions and missing selectors with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.TableWidth <= 0 {
		c.TableWidth = def.TableWidth
	}
	if c.TableHeight <= 0 {
		c.TableHeight = def.TableHeight
	}
	if c.GridSize <= 0 {
		c.GridSize = def.GridSize
	}
	if c.WallDistance < 0 {
		c.WallDistance = def.WallDistance
	}
	if c.TableDistance < 0 {
		c.TableDistance = def.TableDistance
	}
	if c.ObstacleDistance < 0 {
		c.ObstacleDistance = 0
	}
	if c.Strategy == "" {
		c.Strategy = StrategyAuto
	}
}

// Stats summarizes a computed layout.
type Stats struct {
	Count            int     `json:"count"`
	SpaceUtilization float64 `json:"space_utilization"` // Percent of venue area covered
	AverageClearance float64 `json:"average_clearance"` // Mean pairwise gap (mm)
	TotalArea        float64 `json:"total_area"`        // Venue area (m²)
	UsedArea         float64 `json:"used_area"`         // Placed footprint (m²)
}

// CacheInfo records whether a result was served from the cache.
type CacheInfo struct {
	Hit bool   `json:"hit"`
	Key string `json:"key,omitempty"`
}

// OptimizeResult holds the full solution.
type OptimizeResult struct {
	Tables   []Table       `json:"tables"`
	Stats    Stats         `json:"stats"`
	Strategy Strategy      `json:"strategy"`
	Elapsed  time.Duration `json:"elapsed"`
	Warnings []string      `json:"warnings,omitempty"`
	Cache    CacheInfo     `json:"cache"`
}

// Plan ties everything together for save/load.
type Plan struct {
	Name      string          `json:"name"`
	Boundary  Boundary        `json:"boundary"`
	Obstacles []Obstacle      `json:"obstacles"`
	Config    Config          `json:"config"`
	Result    *OptimizeResult `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewPlan() Plan {
	now := time.Now()
	return Plan{
		Name:      "Untitled",
		Obstacles: []Obstacle{},
		Config:    DefaultConfig(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
