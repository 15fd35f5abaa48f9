package boardpose

import "github.com/golang/geo/r3"

// DefaultSquareSize is the side length of one board square in meters.
const DefaultSquareSize = 0.05715

// Board describes the ideal planar calibration target in its own frame:
// x along the files, y along the ranks, z out of the board, unit meters.
// Interior grid nodes sit at (i*S, j*S) for i,j in [1,7].
type Board struct {
	SquareSize float64
}

// A1 is the reference corner the board-local frame is anchored to.
func (b Board) A1() r3.Vector {
	return r3.Vector{X: b.SquareSize, Y: b.SquareSize}
}

// A8 is the far corner along the y axis.
func (b Board) A8() r3.Vector {
	return r3.Vector{X: b.SquareSize, Y: 7 * b.SquareSize}
}

// H1 is the far corner along the x axis.
func (b Board) H1() r3.Vector {
	return r3.Vector{X: 7 * b.SquareSize, Y: b.SquareSize}
}

// Grid returns the 49 interior grid nodes of the board.
func (b Board) Grid() []r3.Vector {
	nodes := make([]r3.Vector, 0, 49)
	for i := 1; i < 8; i++ {
		for j := 1; j < 8; j++ {
			nodes = append(nodes, r3.Vector{X: float64(i) * b.SquareSize, Y: float64(j) * b.SquareSize})
		}
	}
	return nodes
}
