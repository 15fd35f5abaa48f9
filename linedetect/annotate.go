package linedetect

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/viam-labs/chessboard-locator/boardpose"
)

var (
	red   = color.RGBA{R: 255}
	green = color.RGBA{G: 255}
	blue  = color.RGBA{B: 255}
)

// Annotate draws the classified segments onto out, horizontal in red and
// vertical in green, with a filled blue circle at every accepted
// intersection pixel.
func Annotate(out *gocv.Mat, horizontal, vertical []boardpose.Segment, intersections []image.Point) {
	for _, s := range horizontal {
		gocv.Line(out, segPt(s, 0), segPt(s, 1), red, 3)
	}
	for _, s := range vertical {
		gocv.Line(out, segPt(s, 0), segPt(s, 1), green, 3)
	}
	for _, p := range intersections {
		gocv.Circle(out, p, 5, blue, -1)
	}
}

func segPt(s boardpose.Segment, end int) image.Point {
	if end == 0 {
		return image.Pt(int(s.P0.X), int(s.P0.Y))
	}
	return image.Pt(int(s.P1.X), int(s.P1.Y))
}
