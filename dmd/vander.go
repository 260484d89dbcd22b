package dmd

import (
	"gonum.org/v1/gonum/mat"
)

// Vandermonde builds the increasing Vandermonde matrix of the eigenvalues
// over nt time steps: V[r][t] = eigs[r]^t.
func Vandermonde(eigs []complex128, nt int) [][]complex128 {
	v := make([][]complex128, len(eigs))
	for r, lam := range eigs {
		v[r] = make([]complex128, nt)
		p := complex(1, 0)
		for t := 0; t < nt; t++ {
			v[r][t] = p
			p *= lam
		}
	}
	return v
}

// Reconstruct evaluates the decomposition over nt time steps,
// X = Re(Modes diag(Amplitudes) V), returning the real (n, nt) field.
// With nt beyond the fitted horizon this is the model forecast.
func (res *Result) Reconstruct(nt int) *mat.Dense {
	n, _ := res.Modes.Dims()
	v := Vandermonde(res.Eigs, nt)
	out := mat.NewDense(n, nt, nil)
	for t := 0; t < nt; t++ {
		for i := 0; i < n; i++ {
			var sum complex128
			for r := range res.Eigs {
				sum += res.Modes.At(i, r) * res.Amplitudes[r] * v[r][t]
			}
			out.Set(i, t, real(sum))
		}
	}
	return out
}
