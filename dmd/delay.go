// Package dmd fits dynamic mode decompositions of state matrices,
// delegating the factorization work to gonum.
package dmd

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DelayEmbed stacks d consecutive snapshots of a (n, T) state matrix into
// an augmented (n*d, T-d+1) matrix of overlapping windows. Column j of
// the output holds snapshots j..j+d-1 concatenated, so d=1 returns a copy
// of the input.
func DelayEmbed(x *mat.Dense, d int) (*mat.Dense, error) {
	if x == nil {
		return nil, fmt.Errorf("delay embedding: input matrix must be 2D")
	}
	if d <= 0 {
		return nil, fmt.Errorf("delay must be an integer greater than 0, got %d", d)
	}
	n, nt := x.Dims()
	if nt < d {
		return nil, fmt.Errorf("delay %d exceeds the %d available snapshots", d, nt)
	}
	out := mat.NewDense(n*d, nt-d+1, nil)
	for j := 0; j <= nt-d; j++ {
		for k := 0; k < d; k++ {
			for i := 0; i < n; i++ {
				out.Set(k*n+i, j, x.At(i, j+k))
			}
		}
	}
	return out, nil
}
