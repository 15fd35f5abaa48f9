package boardpose

import (
	"image"
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// slopeEpsilon bounds the denominators of the line-intersection solve.
// Segments with a smaller horizontal extent have no usable slope, and line
// pairs whose slopes differ by less are treated as parallel.
const slopeEpsilon = 1e-9

// PointAccessor provides random access into an organized point cloud by pixel
// coordinate. Implementations must return a finite point for every pixel
// inside the image bounds.
type PointAccessor interface {
	Vec3At(x, y int) r3.Vector
}

// PointAccessorFunc adapts a function to the PointAccessor interface.
type PointAccessorFunc func(x, y int) r3.Vector

// Vec3At calls the wrapped function.
func (f PointAccessorFunc) Vec3At(x, y int) r3.Vector {
	return f(x, y)
}

// IntersectionCloud is an ordered, append-only collection of 3D line
// intersection points, tagged with the frame and timestamp of the source
// point cloud. Pixels holds the pixel each point was looked up at, index
// aligned with Points.
type IntersectionCloud struct {
	FrameID string
	Stamp   time.Time
	Points  []r3.Vector
	Pixels  []image.Point
}

// Size returns the number of points in the cloud.
func (ic *IntersectionCloud) Size() int {
	return len(ic.Points)
}

// intersectLines solves for the intersection of the two infinite lines
// through h and v in slope-intercept form. It reports false when either
// segment has no usable slope, the lines are parallel, or the intersection
// falls outside the width x height pixel bounds.
func intersectLines(h, v Segment, width, height int) (r2.Point, bool) {
	hdx := h.P1.X - h.P0.X
	vdx := v.P1.X - v.P0.X
	if math.Abs(hdx) < slopeEpsilon || math.Abs(vdx) < slopeEpsilon {
		return r2.Point{}, false
	}
	hm := (h.P1.Y - h.P0.Y) / hdx
	vm := (v.P1.Y - v.P0.Y) / vdx
	if math.Abs(hm-vm) < slopeEpsilon {
		return r2.Point{}, false
	}
	hb := h.P0.Y - hm*h.P0.X
	vb := v.P0.Y - vm*v.P0.X

	x := (vb - hb) / (hm - vm)
	y := hm*x + hb
	if x < 0 || x >= float64(width) || y < 0 || y >= float64(height) {
		return r2.Point{}, false
	}
	return r2.Point{X: x, Y: y}, true
}

// ExtractIntersections computes the 3D intersection points of every
// (horizontal, vertical) segment pair, looking each accepted pixel up in the
// organized cloud. Points are deduplicated greedily in pair order: a new
// point is dropped when any previously accepted point is within the L1
// dedup threshold.
func ExtractIntersections(
	horizontal, vertical []Segment,
	cloud PointAccessor,
	cfg *Config,
	frameID string,
	stamp time.Time,
) *IntersectionCloud {
	out := &IntersectionCloud{FrameID: frameID, Stamp: stamp}
	for _, h := range horizontal {
		for _, v := range vertical {
			px, ok := intersectLines(h, v, cfg.Width, cfg.Height)
			if !ok {
				continue
			}
			pixel := image.Pt(int(px.X), int(px.Y))
			pt := cloud.Vec3At(pixel.X, pixel.Y)
			if tooClose(out.Points, pt, cfg.DedupThreshold) {
				continue
			}
			out.Points = append(out.Points, pt)
			out.Pixels = append(out.Pixels, pixel)
		}
	}
	return out
}

func tooClose(accepted []r3.Vector, p r3.Vector, threshold float64) bool {
	for _, a := range accepted {
		l1 := math.Abs(a.X-p.X) + math.Abs(a.Y-p.Y) + math.Abs(a.Z-p.Z)
		if l1 < threshold {
			return true
		}
	}
	return false
}
