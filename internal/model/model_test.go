package model

import (
	"errors"
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 50}

	tests := []struct {
		name     string
		other    Rect
		expected bool
	}{
		{"fully inside", Rect{X: 110, Y: 110, Width: 20, Height: 20}, true},
		{"overlapping top-left", Rect{X: 80, Y: 80, Width: 30, Height: 30}, true},
		{"overlapping bottom-right", Rect{X: 140, Y: 140, Width: 20, Height: 20}, true},
		{"touching left edge (no overlap)", Rect{X: 50, Y: 100, Width: 50, Height: 50}, false},
		{"touching right edge (no overlap)", Rect{X: 150, Y: 100, Width: 50, Height: 50}, false},
		{"touching top edge (no overlap)", Rect{X: 100, Y: 50, Width: 50, Height: 50}, false},
		{"touching bottom edge (no overlap)", Rect{X: 100, Y: 150, Width: 50, Height: 50}, false},
		{"touching corner (no overlap)", Rect{X: 150, Y: 150, Width: 50, Height: 50}, false},
		{"completely outside", Rect{X: 300, Y: 300, Width: 50, Height: 50}, false},
		{"covering entirely", Rect{X: 50, Y: 50, Width: 200, Height: 200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.expected {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.expected)
			}
			if got := tt.other.Intersects(r); got != tt.expected {
				t.Errorf("Intersects is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestRectDistanceTo(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name     string
		other    Rect
		expected float64
	}{
		{"overlapping", Rect{X: 50, Y: 50, Width: 100, Height: 100}, 0},
		{"touching edge", Rect{X: 100, Y: 0, Width: 100, Height: 100}, 0},
		{"horizontal gap", Rect{X: 150, Y: 0, Width: 100, Height: 100}, 50},
		{"vertical gap", Rect{X: 0, Y: 130, Width: 100, Height: 100}, 30},
		{"diagonal gap 3-4-5", Rect{X: 130, Y: 140, Width: 100, Height: 100}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.DistanceTo(tt.other)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("DistanceTo(%+v) = %v, want %v", tt.other, got, tt.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	if !r.Contains(Rect{X: 10, Y: 10, Width: 50, Height: 50}) {
		t.Error("expected inner rectangle to be contained")
	}
	if !r.Contains(r) {
		t.Error("expected rectangle to contain itself")
	}
	if r.Contains(Rect{X: 60, Y: 10, Width: 50, Height: 50}) {
		t.Error("expected overhanging rectangle not to be contained")
	}
}

func TestRectInflate(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 50}

	grown := r.Inflate(10)
	if grown.X != 90 || grown.Y != 90 || grown.Width != 70 || grown.Height != 70 {
		t.Errorf("Inflate(10) = %+v", grown)
	}

	shrunk := r.Inflate(-10)
	if shrunk.X != 110 || shrunk.Y != 110 || shrunk.Width != 30 || shrunk.Height != 30 {
		t.Errorf("Inflate(-10) = %+v", shrunk)
	}
}

func TestBoundaryArea(t *testing.T) {
	rect := NewRectBoundary(0, 0, 10000, 15000)
	if got := rect.Area(); got != 150e6 {
		t.Errorf("rectangular area = %v, want 150e6", got)
	}

	tri := Boundary{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 0, Y: 1000}}
	if got := tri.Area(); got != 500000 {
		t.Errorf("triangle area = %v, want 500000", got)
	}
}

func TestBoundaryCanonicalIsCounterClockwise(t *testing.T) {
	ccw := NewRectBoundary(0, 0, 100, 100)
	cw := Boundary{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}}

	if ccw.signedArea() <= 0 {
		t.Fatal("NewRectBoundary should produce counter-clockwise order")
	}
	if got := cw.Canonical().signedArea(); got <= 0 {
		t.Errorf("Canonical() should flip clockwise input, signed area = %v", got)
	}
	if got := ccw.Canonical().signedArea(); got != ccw.signedArea() {
		t.Error("Canonical() should leave counter-clockwise input unchanged")
	}
}

func TestBoundaryValidate(t *testing.T) {
	if err := NewRectBoundary(0, 0, 100, 100).Validate(); err != nil {
		t.Errorf("unexpected error for valid boundary: %v", err)
	}

	short := Boundary{{X: 0, Y: 0}, {X: 100, Y: 0}}
	if err := short.Validate(); !errors.Is(err, ErrInvalidBoundary) {
		t.Errorf("expected ErrInvalidBoundary for 2 points, got %v", err)
	}

	flat := Boundary{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}}
	if err := flat.Validate(); !errors.Is(err, ErrInvalidBoundary) {
		t.Errorf("expected ErrInvalidBoundary for zero area, got %v", err)
	}
}

func TestBoundaryContainsPoint(t *testing.T) {
	// L-shaped room
	l := Boundary{
		{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 100},
		{X: 100, Y: 100}, {X: 100, Y: 200}, {X: 0, Y: 200},
	}

	tests := []struct {
		name     string
		p        Point2D
		expected bool
	}{
		{"inside lower arm", Point2D{X: 150, Y: 50}, true},
		{"inside left arm", Point2D{X: 50, Y: 150}, true},
		{"in the notch", Point2D{X: 150, Y: 150}, false},
		{"outside", Point2D{X: 300, Y: 300}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.ContainsPoint(tt.p); got != tt.expected {
				t.Errorf("ContainsPoint(%+v) = %v, want %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestTableBoundsSwapAtRotation90(t *testing.T) {
	flat := NewTable(1000, 2000, 2850, 1550, Rotation0)
	turned := NewTable(1000, 2000, 2850, 1550, Rotation90)

	if flat.PlacedWidth() != 2850 || flat.PlacedHeight() != 1550 {
		t.Errorf("rotation 0: placed size = %vx%v", flat.PlacedWidth(), flat.PlacedHeight())
	}
	if turned.PlacedWidth() != 1550 || turned.PlacedHeight() != 2850 {
		t.Errorf("rotation 90: placed size = %vx%v", turned.PlacedWidth(), turned.PlacedHeight())
	}

	fb, tb := flat.Bounds(), turned.Bounds()
	if fb.X != tb.X || fb.Y != tb.Y {
		t.Error("rotation must not move the reference corner")
	}
	if fb.Width != tb.Height || fb.Height != tb.Width {
		t.Error("rotation 90 must swap effective width and height")
	}
}

func TestNewTableAssignsShortID(t *testing.T) {
	a := NewTable(0, 0, 100, 50, Rotation0)
	b := NewTable(0, 0, 100, 50, Rotation0)

	if len(a.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", a.ID)
	}
	if a.ID == b.ID {
		t.Error("expected distinct ids")
	}
}

func TestRotationFlipped(t *testing.T) {
	if Rotation0.Flipped() != Rotation90 || Rotation90.Flipped() != Rotation0 {
		t.Error("Flipped() must toggle between 0° and 90°")
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("regular_grid")
	if err != nil || s != StrategyRegularGrid {
		t.Errorf("ParseStrategy(regular_grid) = %v, %v", s, err)
	}
	if _, err := ParseStrategy("nope"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestConfigNormalizeFillsDefaults(t *testing.T) {
	var c Config
	c.Normalize()

	def := DefaultConfig()
	if c.TableWidth != def.TableWidth || c.TableHeight != def.TableHeight {
		t.Errorf("table size not defaulted: %+v", c)
	}
	if c.GridSize != def.GridSize {
		t.Errorf("grid size not defaulted: %v", c.GridSize)
	}
	if c.Strategy != StrategyAuto {
		t.Errorf("strategy not defaulted: %v", c.Strategy)
	}
}

func TestConfigObstacleClearanceFallsBackToWall(t *testing.T) {
	c := DefaultConfig()
	if got := c.ObstacleClearance(); got != c.WallDistance {
		t.Errorf("ObstacleClearance() = %v, want wall distance %v", got, c.WallDistance)
	}

	c.ObstacleDistance = 800
	if got := c.ObstacleClearance(); got != 800 {
		t.Errorf("ObstacleClearance() = %v, want explicit 800", got)
	}
}

func TestGetPresetFallsBackToDefault(t *testing.T) {
	p := GetPreset("NonExistent")
	if p.Name != TablePresets[0].Name {
		t.Errorf("expected default preset fallback, got %s", p.Name)
	}
}

func TestGetPresetNames(t *testing.T) {
	names := GetPresetNames()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["billiard-9ft"] {
		t.Error("missing built-in preset billiard-9ft")
	}
	if !found["banquet-6ft"] {
		t.Error("missing built-in preset banquet-6ft")
	}
}
