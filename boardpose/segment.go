package boardpose

import (
	"math"

	"github.com/golang/geo/r2"
)

// Orientation tags a segment as mostly horizontal or mostly vertical in pixel space.
type Orientation int

const (
	// Horizontal means the segment spans more columns than rows.
	Horizontal Orientation = iota
	// Vertical means the segment spans at least as many rows as columns.
	Vertical
)

// Segment is a detected line segment in pixel coordinates.
type Segment struct {
	P0, P1 r2.Point
}

// Orientation classifies the segment by its dominant pixel extent. An exact
// diagonal counts as vertical.
func (s Segment) Orientation() Orientation {
	dx := math.Abs(s.P1.X - s.P0.X)
	dy := math.Abs(s.P1.Y - s.P0.Y)
	if dx > dy {
		return Horizontal
	}
	return Vertical
}

// ClassifySegments splits segments into horizontal and vertical groups,
// preserving input order within each group.
func ClassifySegments(segments []Segment) (horizontal, vertical []Segment) {
	for _, s := range segments {
		if s.Orientation() == Horizontal {
			horizontal = append(horizontal, s)
		} else {
			vertical = append(vertical, s)
		}
	}
	return horizontal, vertical
}
