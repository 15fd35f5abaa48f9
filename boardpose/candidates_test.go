package boardpose

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSelectCandidates(t *testing.T) {
	c := r3.Vector{X: 1, Y: 1, Z: 1}
	cloud := &IntersectionCloud{Points: []r3.Vector{
		c.Add(r3.Vector{X: -0.2, Y: 0.2}),  // a1 quadrant
		c.Add(r3.Vector{X: -0.2, Y: -0.2}), // a8 quadrant
		c.Add(r3.Vector{X: 0.2, Y: 0.2}),   // h1 quadrant
		c.Add(r3.Vector{X: 0.2, Y: -0.2}),  // unused fourth quadrant
		c,                                  // dead zone
	}}
	// symmetric offsets leave the centroid at c exactly

	cands := SelectCandidates(cloud, 0.05)
	test.That(t, cands.A1, test.ShouldResemble, []int{0})
	test.That(t, cands.A8, test.ShouldResemble, []int{1})
	test.That(t, cands.H1, test.ShouldResemble, []int{2})
}

func TestSelectCandidatesDeadZone(t *testing.T) {
	c := r3.Vector{X: 1, Y: 1, Z: 1}
	// all offsets inside the 0.05 margin on at least one axis
	cloud := &IntersectionCloud{Points: []r3.Vector{
		c.Add(r3.Vector{X: -0.2, Y: 0.04}),
		c.Add(r3.Vector{X: 0.04, Y: -0.2}),
		c.Add(r3.Vector{X: 0.2, Y: -0.04}),
		c.Add(r3.Vector{X: -0.04, Y: 0.2}),
	}}
	cands := SelectCandidates(cloud, 0.05)
	test.That(t, cands.A1, test.ShouldBeEmpty)
	test.That(t, cands.A8, test.ShouldBeEmpty)
	test.That(t, cands.H1, test.ShouldBeEmpty)
}

func TestSelectCandidatesEmptyCloud(t *testing.T) {
	cands := SelectCandidates(&IntersectionCloud{}, 0.05)
	test.That(t, cands.A1, test.ShouldBeEmpty)
	test.That(t, cands.A8, test.ShouldBeEmpty)
	test.That(t, cands.H1, test.ShouldBeEmpty)
}
