package engine

import (
	"math"
	"sort"

	"github.com/hallplan/hallplan/internal/model"
)

// defaultCellSize is used when no cell size is given. Roughly one table
// footprint plus clearance, so most queries touch a handful of cells.
const defaultCellSize = 2000.0

type cellKey struct {
	cx, cy int
}

// SpatialIndex is a uniform grid-bucket index over rectangle bounds. Entries
// are identified by the caller's integer ids (typically slice indices).
// QueryIntersecting returns a superset candidate list; callers do the exact
// distance checks.
type SpatialIndex struct {
	cellSize float64
	cells    map[cellKey][]int
	bounds   map[int]model.Rect
}

func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
		bounds:   make(map[int]model.Rect),
	}
}

func (s *SpatialIndex) cellRange(r model.Rect) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(r.X / s.cellSize))
	minY = int(math.Floor(r.Y / s.cellSize))
	maxX = int(math.Floor(r.Right() / s.cellSize))
	maxY = int(math.Floor(r.Bottom() / s.cellSize))
	return minX, minY, maxX, maxY
}

// Insert adds or replaces the entry for id.
func (s *SpatialIndex) Insert(id int, r model.Rect) {
	if _, ok := s.bounds[id]; ok {
		s.Remove(id)
	}
	s.bounds[id] = r
	minX, minY, maxX, maxY := s.cellRange(r)
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			key := cellKey{cx, cy}
			s.cells[key] = append(s.cells[key], id)
		}
	}
}

// Remove drops the entry for id, if present.
func (s *SpatialIndex) Remove(id int) {
	r, ok := s.bounds[id]
	if !ok {
		return
	}
	delete(s.bounds, id)
	minX, minY, maxX, maxY := s.cellRange(r)
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			key := cellKey{cx, cy}
			ids := s.cells[key]
			for i, v := range ids {
				if v == id {
					s.cells[key] = append(ids[:i], ids[i+1:]...)
					break
				}
			}
			if len(s.cells[key]) == 0 {
				delete(s.cells, key)
			}
		}
	}
}

// Clear removes all entries.
func (s *SpatialIndex) Clear() {
	s.cells = make(map[cellKey][]int)
	s.bounds = make(map[int]model.Rect)
}

// Len returns the number of indexed entries.
func (s *SpatialIndex) Len() int {
	return len(s.bounds)
}

// QueryIntersecting returns the ids whose bounds intersect r, in ascending id
// order. Touching-only neighbors are excluded, matching Rect.Intersects.
func (s *SpatialIndex) QueryIntersecting(r model.Rect) []int {
	minX, minY, maxX, maxY := s.cellRange(r)
	seen := make(map[int]bool)
	var out []int
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			for _, id := range s.cells[cellKey{cx, cy}] {
				if seen[id] {
					continue
				}
				seen[id] = true
				if s.bounds[id].Intersects(r) {
					out = append(out, id)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

// QueryNearest returns up to k entry ids ordered by distance from p.
func (s *SpatialIndex) QueryNearest(p model.Point2D, k int) []int {
	if k <= 0 || len(s.bounds) == 0 {
		return nil
	}
	type entry struct {
		id   int
		dist float64
	}
	all := make([]entry, 0, len(s.bounds))
	for id, r := range s.bounds {
		all = append(all, entry{id: id, dist: r.DistanceToPoint(p)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].id < all[j].id
	})
	if k > len(all) {
		k = len(all)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = all[i].id
	}
	return out
}
