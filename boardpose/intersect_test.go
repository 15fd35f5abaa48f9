package boardpose

import (
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestIntersectLines(t *testing.T) {
	// y = 100 against a steep line through x = 100..110
	h := Segment{r2.Point{X: 0, Y: 100}, r2.Point{X: 200, Y: 100}}
	v := Segment{r2.Point{X: 100, Y: 0}, r2.Point{X: 110, Y: 200}}
	// analytic solution: y = 20x - 2000 meets y = 100 at x = 105
	p, ok := intersectLines(h, v, 640, 480)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, p.X, test.ShouldAlmostEqual, 105, 1e-9)
	test.That(t, p.Y, test.ShouldAlmostEqual, 100, 1e-9)
}

func TestIntersectLinesDegenerate(t *testing.T) {
	h := Segment{r2.Point{X: 0, Y: 100}, r2.Point{X: 200, Y: 100}}

	// parallel: equal slopes never meet
	parallel := Segment{r2.Point{X: 0, Y: 200}, r2.Point{X: 200, Y: 200}}
	_, ok := intersectLines(h, parallel, 640, 480)
	test.That(t, ok, test.ShouldBeFalse)

	// zero horizontal extent: the slope-intercept form has no slope
	upright := Segment{r2.Point{X: 50, Y: 0}, r2.Point{X: 50, Y: 200}}
	_, ok = intersectLines(h, upright, 640, 480)
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = intersectLines(upright, h, 640, 480)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestIntersectLinesBounds(t *testing.T) {
	h := Segment{r2.Point{X: 0, Y: 100}, r2.Point{X: 200, Y: 100}}
	// crosses y = 100 at x = 705, outside a 640 wide image
	far := Segment{r2.Point{X: 700, Y: 0}, r2.Point{X: 710, Y: 200}}
	_, ok := intersectLines(h, far, 640, 480)
	test.That(t, ok, test.ShouldBeFalse)

	p, ok := intersectLines(h, far, 1280, 480)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, p.X, test.ShouldAlmostEqual, 705, 1e-9)
}

// dedupAccessor maps every pixel above the split row to a fixed offset point.
func dedupAccessor(split int, offset r3.Vector) PointAccessor {
	return PointAccessorFunc(func(x, y int) r3.Vector {
		if y >= split {
			return offset
		}
		return r3.Vector{}
	})
}

func TestExtractIntersectionsDedup(t *testing.T) {
	horizontal := []Segment{
		{r2.Point{X: 0, Y: 10}, r2.Point{X: 200, Y: 10}},
		{r2.Point{X: 0, Y: 20}, r2.Point{X: 200, Y: 20}},
	}
	vertical := []Segment{
		{r2.Point{X: 100, Y: 0}, r2.Point{X: 101, Y: 480}},
	}
	cfg := DefaultConfig()
	stamp := time.Now()

	// L1 distance 0.029: the second point collapses into the first
	ic := ExtractIntersections(horizontal, vertical,
		dedupAccessor(15, r3.Vector{X: 0.029}), cfg, "camera", stamp)
	test.That(t, ic.Size(), test.ShouldEqual, 1)
	test.That(t, ic.FrameID, test.ShouldEqual, "camera")
	test.That(t, ic.Stamp, test.ShouldResemble, stamp)

	// L1 distance 0.031: both points are retained, in pair order
	ic = ExtractIntersections(horizontal, vertical,
		dedupAccessor(15, r3.Vector{X: 0.031}), cfg, "camera", stamp)
	test.That(t, ic.Size(), test.ShouldEqual, 2)
	test.That(t, ic.Points[0], test.ShouldResemble, r3.Vector{})
	test.That(t, ic.Points[1], test.ShouldResemble, r3.Vector{X: 0.031})
	test.That(t, len(ic.Pixels), test.ShouldEqual, 2)
}

func TestExtractIntersectionsGrid(t *testing.T) {
	// 8 horizontal and 8 near-vertical segments at a 10 px pitch make an
	// 8x8 lattice of intersections, all far enough apart to survive dedup
	var horizontal, vertical []Segment
	for i := 1; i <= 8; i++ {
		y := float64(10 * i)
		x := float64(10 * i)
		horizontal = append(horizontal, Segment{r2.Point{X: 0, Y: y}, r2.Point{X: 639, Y: y}})
		vertical = append(vertical, Segment{r2.Point{X: x, Y: 0}, r2.Point{X: x + 1e-4, Y: 470}})
	}
	accessor := PointAccessorFunc(func(x, y int) r3.Vector {
		return r3.Vector{X: float64(x) * 0.01, Y: float64(y) * 0.01, Z: 1}
	})
	ic := ExtractIntersections(horizontal, vertical, accessor, DefaultConfig(), "camera", time.Now())
	test.That(t, ic.Size(), test.ShouldEqual, 64)
	test.That(t, ic.Points[0], test.ShouldResemble, r3.Vector{X: 0.1, Y: 0.1, Z: 1})
}
