package boardpose

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
)

// ErrNoSolution means no board pose could be fit for this frame: a corner
// candidate set was empty, or no triple produced a finite score.
var ErrNoSolution = errors.New("no board pose solution")

// Solution is the best rigid fit found by Search: a transform from the camera
// frame into the board frame, plus its fit score.
type Solution struct {
	Rotation    *mat.Dense
	Translation r3.Vector
	Score       float64
}

// Pose converts the solution into a spatialmath pose.
func (s *Solution) Pose() (spatialmath.Pose, error) {
	rot, err := spatialmath.NewRotationMatrix(s.Rotation.RawMatrix().Data)
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(s.Translation, rot), nil
}

// Transform applies the solution's rigid transform to a point.
func (s *Solution) Transform(p r3.Vector) r3.Vector {
	return rotate(s.Rotation, p).Add(s.Translation)
}

// Search exhaustively evaluates every (a1, a8, h1) candidate triple, fitting
// a rigid transform from the triple onto the board's reference corners and
// scoring it over the whole cloud against the board's interior grid. The
// minimum-score transform wins; an exact tie keeps the first triple found, in
// fixed a1-outer, a8-middle, h1-inner order. The search is cubic in candidate
// set size, a deliberate correctness-over-speed choice: the sets are expected
// to stay single-digit.
func Search(cloud *IntersectionCloud, cands Candidates, board Board) (*Solution, error) {
	if len(cands.A1) == 0 || len(cands.A8) == 0 || len(cands.H1) == 0 {
		return nil, ErrNoSolution
	}
	dst := [3]r3.Vector{board.A1(), board.A8(), board.H1()}
	grid := board.Grid()

	var best *Solution
	for _, i := range cands.A1 {
		for _, j := range cands.A8 {
			for _, k := range cands.H1 {
				src := [3]r3.Vector{cloud.Points[i], cloud.Points[j], cloud.Points[k]}
				rot, trans, err := fitRigid(src, dst)
				if err != nil {
					continue
				}
				score := scoreFit(cloud.Points, rot, trans, grid)
				if math.IsNaN(score) || math.IsInf(score, 0) {
					continue
				}
				if best == nil || score < best.Score {
					best = &Solution{Rotation: rot, Translation: trans, Score: score}
				}
			}
		}
	}
	if best == nil {
		return nil, ErrNoSolution
	}
	return best, nil
}

// fitRigid computes the least-squares rotation and translation mapping the
// source points onto the destination points: Kabsch over exactly three
// correspondences. The determinant sign fix keeps the result a proper
// rotation, never a reflection.
func fitRigid(src, dst [3]r3.Vector) (*mat.Dense, r3.Vector, error) {
	srcC := centroid(src[:])
	dstC := centroid(dst[:])

	// 3x3 cross covariance of the centered correspondences
	cov := mat.NewDense(3, 3, nil)
	for n := range src {
		s := src[n].Sub(srcC)
		d := dst[n].Sub(dstC)
		sv := [3]float64{s.X, s.Y, s.Z}
		dv := [3]float64{d.X, d.Y, d.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				cov.Set(r, c, cov.At(r, c)+sv[r]*dv[c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(cov, mat.SVDFull) {
		return nil, r3.Vector{}, errors.New("failed to factorize covariance matrix")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	rot := mat.NewDense(3, 3, nil)
	rot.Mul(&v, u.T())
	if mat.Det(rot) < 0 {
		var vFlip mat.Dense
		vFlip.Mul(&v, mat.NewDiagDense(3, []float64{1, 1, -1}))
		rot.Mul(&vFlip, u.T())
	}

	trans := dstC.Sub(rotate(rot, srcC))
	return rot, trans, nil
}

// scoreFit sums, over all transformed cloud points, the squared planar
// distance to the nearest grid node. z is ignored: the board is planar.
func scoreFit(pts []r3.Vector, rot *mat.Dense, trans r3.Vector, grid []r3.Vector) float64 {
	total := 0.0
	for _, p := range pts {
		tp := rotate(rot, p).Add(trans)
		e := math.MaxFloat64
		for _, g := range grid {
			dx := g.X - tp.X
			dy := g.Y - tp.Y
			if d := dx*dx + dy*dy; d < e {
				e = d
			}
		}
		total += e
	}
	return total
}

func rotate(rot *mat.Dense, p r3.Vector) r3.Vector {
	return r3.Vector{
		X: rot.At(0, 0)*p.X + rot.At(0, 1)*p.Y + rot.At(0, 2)*p.Z,
		Y: rot.At(1, 0)*p.X + rot.At(1, 1)*p.Y + rot.At(1, 2)*p.Z,
		Z: rot.At(2, 0)*p.X + rot.At(2, 1)*p.Y + rot.At(2, 2)*p.Z,
	}
}
