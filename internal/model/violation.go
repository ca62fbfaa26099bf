package model

import "fmt"

// ViolationKind tags which clearance rule a violation breaks.
type ViolationKind string

const (
	ViolationWall     ViolationKind = "wall_clearance"
	ViolationObject   ViolationKind = "object_clearance"
	ViolationObstacle ViolationKind = "obstacle_clearance"
)

// Severity grades a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation describes one broken clearance rule in a layout.
type Violation struct {
	Kind        ViolationKind `json:"type"`
	Description string        `json:"description"`
	Severity    Severity      `json:"severity"`
	Distance    float64       `json:"distance"`  // Measured gap (mm)
	Threshold   float64       `json:"threshold"` // Required gap (mm)
	Objects     []string      `json:"objects,omitempty"`
}

// NewWallViolation reports a table too close to the venue boundary.
func NewWallViolation(tableID string, dist, threshold float64) Violation {
	return Violation{
		Kind:        ViolationWall,
		Description: fmt.Sprintf("table %s is %.0fmm from the boundary, minimum is %.0fmm", tableID, dist, threshold),
		Severity:    SeverityError,
		Distance:    dist,
		Threshold:   threshold,
		Objects:     []string{tableID},
	}
}

// NewObjectViolation reports two tables placed too close together.
func NewObjectViolation(aID, bID string, dist, threshold float64) Violation {
	return Violation{
		Kind:        ViolationObject,
		Description: fmt.Sprintf("tables %s and %s are %.0fmm apart, minimum is %.0fmm", aID, bID, dist, threshold),
		Severity:    SeverityError,
		Distance:    dist,
		Threshold:   threshold,
		Objects:     []string{aID, bID},
	}
}

// NewObstacleViolation reports a table too close to an obstacle.
func NewObstacleViolation(tableID, obstacleID string, dist, threshold float64) Violation {
	return Violation{
		Kind:        ViolationObstacle,
		Description: fmt.Sprintf("table %s is %.0fmm from obstacle %s, minimum is %.0fmm", tableID, dist, obstacleID, threshold),
		Severity:    SeverityError,
		Distance:    dist,
		Threshold:   threshold,
		Objects:     []string{tableID, obstacleID},
	}
}
