package engine

import (
	"math"

	"github.com/hallplan/hallplan/internal/model"
)

// eps absorbs float drift in clearance comparisons: an exact-threshold gap
// passes, a 1mm-short gap fails.
const eps = 0.001

// Clearances bundles the minimum gaps enforced on a layout, in mm.
type Clearances struct {
	Wall     float64
	Table    float64
	Obstacle float64
}

func ClearancesFrom(cfg model.Config) Clearances {
	return Clearances{
		Wall:     cfg.WallDistance,
		Table:    cfg.TableDistance,
		Obstacle: cfg.ObstacleClearance(),
	}
}

// Validator checks layouts against the wall, inter-table and obstacle
// clearance rules. Wall distance is measured against the true polygon
// boundary, not its bounding box.
type Validator struct {
	boundary  model.Boundary
	obstacles []model.Obstacle
	clr       Clearances
	cellSize  float64
}

func NewValidator(boundary model.Boundary, obstacles []model.Obstacle, clr Clearances) *Validator {
	cell := clr.Table + defaultCellSize
	return &Validator{
		boundary:  boundary.Canonical(),
		obstacles: obstacles,
		clr:       clr,
		cellSize:  cell,
	}
}

// Validate checks the whole layout and aggregates every violation found.
// The layout is valid iff the violation list is empty.
func (v *Validator) Validate(tables []model.Table) (bool, []model.Violation) {
	idx := NewSpatialIndex(v.cellSize)
	for i, t := range tables {
		idx.Insert(i, t.Bounds())
	}

	var violations []model.Violation
	for i, t := range tables {
		b := t.Bounds()

		dist, inside := v.wallDistance(b)
		if !inside {
			violations = append(violations, model.NewWallViolation(t.ID, 0, v.clr.Wall))
		} else if dist < v.clr.Wall-eps {
			violations = append(violations, model.NewWallViolation(t.ID, dist, v.clr.Wall))
		}

		// Pairwise checks pruned through the index: only neighbors whose
		// bounds fall within the clearance-expanded box need exact distances.
		for _, j := range idx.QueryIntersecting(b.Inflate(v.clr.Table + eps)) {
			if j <= i {
				continue
			}
			if d := b.DistanceTo(tables[j].Bounds()); d < v.clr.Table-eps {
				violations = append(violations, model.NewObjectViolation(t.ID, tables[j].ID, d, v.clr.Table))
			}
		}

		for _, ob := range v.obstacles {
			if d := b.DistanceTo(ob.Bounds()); d < v.clr.Obstacle-eps {
				violations = append(violations, model.NewObstacleViolation(t.ID, obstacleName(ob), d, v.clr.Obstacle))
			}
		}
	}
	return len(violations) == 0, violations
}

func obstacleName(ob model.Obstacle) string {
	if ob.ID != "" {
		return ob.ID
	}
	if ob.Label != "" {
		return ob.Label
	}
	return "unnamed"
}

// checkBounds reports whether a single footprint satisfies the wall and
// obstacle rules on its own.
func (v *Validator) checkBounds(b model.Rect) bool {
	dist, inside := v.wallDistance(b)
	if !inside || dist < v.clr.Wall-eps {
		return false
	}
	for _, ob := range v.obstacles {
		if b.DistanceTo(ob.Bounds()) < v.clr.Obstacle-eps {
			return false
		}
	}
	return true
}

// checkMove reports whether replacing tables[skip] with cand keeps the layout
// valid. Used by local search probes.
func (v *Validator) checkMove(tables []model.Table, skip int, cand model.Table) bool {
	b := cand.Bounds()
	if !v.checkBounds(b) {
		return false
	}
	for j, other := range tables {
		if j == skip {
			continue
		}
		if b.DistanceTo(other.Bounds()) < v.clr.Table-eps {
			return false
		}
	}
	return true
}

// wallDistance returns the minimum distance from b to the polygon boundary
// and whether b lies entirely inside the polygon.
func (v *Validator) wallDistance(b model.Rect) (float64, bool) {
	corners := [4]model.Point2D{
		{X: b.X, Y: b.Y},
		{X: b.Right(), Y: b.Y},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.X, Y: b.Bottom()},
	}
	for _, c := range corners {
		if !v.boundary.ContainsPoint(c) {
			return 0, false
		}
	}

	minDist := math.MaxFloat64
	for i, p := range v.boundary {
		q := v.boundary[(i+1)%len(v.boundary)]
		if segmentIntersectsRect(p, q, b) {
			return 0, false
		}
		if d := rectSegmentDistance(b, p, q); d < minDist {
			minDist = d
		}
	}
	return minDist, true
}

// ─── Segment geometry ───

func pointSegmentDistance(p, a, b model.Point2D) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return math.Hypot(apx, apy)
	}
	t := (apx*abx + apy*aby) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*abx), p.Y-(a.Y+t*aby))
}

func orientation(a, b, c model.Point2D) int {
	v := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	switch {
	case v > 1e-12:
		return 1
	case v < -1e-12:
		return -1
	default:
		return 0
	}
}

func onSegment(a, b, p model.Point2D) bool {
	return math.Min(a.X, b.X)-1e-12 <= p.X && p.X <= math.Max(a.X, b.X)+1e-12 &&
		math.Min(a.Y, b.Y)-1e-12 <= p.Y && p.Y <= math.Max(a.Y, b.Y)+1e-12
}

func segmentsIntersect(p1, p2, q1, q2 model.Point2D) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, p2, q2) {
		return true
	}
	if o3 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if o4 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	return false
}

func segmentDistance(p1, p2, q1, q2 model.Point2D) float64 {
	if segmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	d := pointSegmentDistance(p1, q1, q2)
	d = math.Min(d, pointSegmentDistance(p2, q1, q2))
	d = math.Min(d, pointSegmentDistance(q1, p1, p2))
	d = math.Min(d, pointSegmentDistance(q2, p1, p2))
	return d
}

// segmentIntersectsRect reports whether segment pq crosses into the
// rectangle. Running along an edge does not count as crossing.
func segmentIntersectsRect(p, q model.Point2D, r model.Rect) bool {
	inner := r.Inflate(-eps)
	if inner.Width <= 0 || inner.Height <= 0 {
		return false
	}
	if inner.DistanceToPoint(p) == 0 || inner.DistanceToPoint(q) == 0 {
		return true
	}
	corners := [4]model.Point2D{
		{X: inner.X, Y: inner.Y},
		{X: inner.Right(), Y: inner.Y},
		{X: inner.Right(), Y: inner.Bottom()},
		{X: inner.X, Y: inner.Bottom()},
	}
	for i := 0; i < 4; i++ {
		if segmentsIntersect(p, q, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

// rectSegmentDistance returns the minimum distance between the rectangle
// outline and segment pq, 0 when they touch or cross.
func rectSegmentDistance(r model.Rect, p, q model.Point2D) float64 {
	if r.DistanceToPoint(p) == 0 || r.DistanceToPoint(q) == 0 {
		return 0
	}
	corners := [4]model.Point2D{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
	minDist := math.MaxFloat64
	for i := 0; i < 4; i++ {
		if d := segmentDistance(corners[i], corners[(i+1)%4], p, q); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// ─── Incremental placement ───

// placer accumulates accepted tables behind a spatial index so strategies can
// test candidates cheaply. All strategies share this validity filter and only
// differ in how they propose candidates.
type placer struct {
	v      *Validator
	idx    *SpatialIndex
	tables []model.Table
}

func newPlacer(v *Validator) *placer {
	return &placer{v: v, idx: NewSpatialIndex(v.cellSize)}
}

func newPlacerWith(v *Validator, tables []model.Table) *placer {
	p := newPlacer(v)
	for _, t := range tables {
		p.place(t)
	}
	return p
}

// canPlace reports whether cand fits the current layout: inside the walls,
// clear of obstacles, clear of every accepted table.
func (p *placer) canPlace(cand model.Table) bool {
	b := cand.Bounds()
	if !p.v.checkBounds(b) {
		return false
	}
	for _, i := range p.idx.QueryIntersecting(b.Inflate(p.v.clr.Table + eps)) {
		if b.DistanceTo(p.tables[i].Bounds()) < p.v.clr.Table-eps {
			return false
		}
	}
	return true
}

func (p *placer) place(t model.Table) {
	p.idx.Insert(len(p.tables), t.Bounds())
	p.tables = append(p.tables, t)
}

func (p *placer) layout() []model.Table {
	return p.tables
}
