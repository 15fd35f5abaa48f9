package boardpose

import "github.com/golang/geo/r3"

// Candidates holds index sets into an IntersectionCloud for the three board
// corners used to seed the pose search. Any set may be empty.
type Candidates struct {
	A1, A8, H1 []int
}

// SelectCandidates partitions the cloud's points into corner candidate sets
// by quadrant relative to the centroid. The margin is a dead zone on both
// axes: points within it, and points in the unused fourth quadrant, belong to
// no set. Image convention applies: x grows right, y grows down, so a1 is
// low-x high-y.
func SelectCandidates(cloud *IntersectionCloud, margin float64) Candidates {
	var out Candidates
	if len(cloud.Points) == 0 {
		return out
	}
	c := centroid(cloud.Points)
	for i, p := range cloud.Points {
		switch {
		case p.X < c.X-margin && p.Y > c.Y+margin:
			out.A1 = append(out.A1, i)
		case p.X < c.X-margin && p.Y < c.Y-margin:
			out.A8 = append(out.A8, i)
		case p.X > c.X+margin && p.Y > c.Y+margin:
			out.H1 = append(out.H1, i)
		}
	}
	return out
}

func centroid(pts []r3.Vector) r3.Vector {
	var sum r3.Vector
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}
