package dmd

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Result bundles the fitted decomposition: spatial modes (one column per
// mode over the possibly delay-augmented state), discrete-time
// eigenvalues and mode amplitudes. A Result is immutable once fitted.
type Result struct {
	Modes      *mat.CDense // (n, rank)
	Eigs       []complex128
	Amplitudes []complex128
	Rank       int
}

// Fit computes a rank-truncated DMD of the snapshot matrix x (n, T):
// thin SVD of the first T-1 snapshots, eigen-decomposition of the
// reduced propagator, modes lifted back to the full space, and
// amplitudes from a least-squares fit to the first snapshot. With
// projected set the modes are projected onto the POD basis (Ur W);
// otherwise they are the exact modes X2 Vr S^-1 W. A rank <= 0 keeps
// every significant singular value.
func Fit(x *mat.Dense, rank int, projected bool) (*Result, error) {
	n, nt := x.Dims()
	if nt < 2 {
		return nil, fmt.Errorf("dmd: need at least 2 snapshots, got %d", nt)
	}
	x1 := x.Slice(0, n, 0, nt-1).(*mat.Dense)
	x2 := x.Slice(0, n, 1, nt).(*mat.Dense)

	var svd mat.SVD
	if ok := svd.Factorize(x1, mat.SVDThin); !ok {
		return nil, fmt.Errorf("dmd: SVD of snapshot matrix failed")
	}
	s := svd.Values(nil)
	r := len(s)
	for i, sv := range s { // drop numerically null directions
		if sv <= 1e-10*s[0] {
			r = i
			break
		}
	}
	if rank > 0 && rank < r {
		r = rank
	}
	if r < 1 {
		return nil, fmt.Errorf("dmd: snapshot matrix is numerically rank deficient")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	ur := u.Slice(0, n, 0, r).(*mat.Dense)
	vr := v.Slice(0, nt-1, 0, r).(*mat.Dense)

	// B = X2 Vr S^-1, the lift from reduced to full space
	vs := mat.NewDense(nt-1, r, nil)
	for j := 0; j < r; j++ {
		for i := 0; i < nt-1; i++ {
			vs.Set(i, j, vr.At(i, j)/s[j])
		}
	}
	b := mat.NewDense(n, r, nil)
	b.Mul(x2, vs)

	atilde := mat.NewDense(r, r, nil)
	atilde.Mul(ur.T(), b)

	var eig mat.Eigen
	if ok := eig.Factorize(atilde, mat.EigenRight); !ok {
		return nil, fmt.Errorf("dmd: eigen decomposition of reduced propagator failed")
	}
	eigs := eig.Values(nil)
	var w mat.CDense
	eig.VectorsTo(&w)

	// lift the reduced eigenvectors to full-space modes: Phi = B W
	// (exact) or Ur W (projected onto the POD basis)
	lift := b
	if projected {
		lift = ur
	}
	modes := mat.NewCDense(n, r, nil)
	for i := 0; i < n; i++ {
		for q := 0; q < r; q++ {
			var sum complex128
			for k := 0; k < r; k++ {
				sum += complex(lift.At(i, k), 0) * w.At(k, q)
			}
			modes.Set(i, q, sum)
		}
	}

	amps, err := amplitudes(modes, mat.Col(nil, 0, x))
	if err != nil {
		return nil, err
	}
	return &Result{Modes: modes, Eigs: eigs, Amplitudes: amps, Rank: r}, nil
}

// amplitudes solves modes*b ~= x0 in the least-squares sense through the
// normal equations; the mode count is small so the r x r complex solve is
// done directly.
func amplitudes(modes *mat.CDense, x0 []float64) ([]complex128, error) {
	n, r := modes.Dims()
	m := make([][]complex128, r)
	c := make([]complex128, r)
	for p := 0; p < r; p++ {
		m[p] = make([]complex128, r)
		for q := 0; q < r; q++ {
			var sum complex128
			for i := 0; i < n; i++ {
				sum += cmplx.Conj(modes.At(i, p)) * modes.At(i, q)
			}
			m[p][q] = sum
		}
		var sum complex128
		for i := 0; i < n; i++ {
			sum += cmplx.Conj(modes.At(i, p)) * complex(x0[i], 0)
		}
		c[p] = sum
	}
	b, err := solveComplex(m, c)
	if err != nil {
		return nil, fmt.Errorf("dmd: amplitude fit: %w", err)
	}
	return b, nil
}

// solveComplex is Gaussian elimination with partial pivoting on a dense
// complex system; used only for mode-count sized problems.
func solveComplex(a [][]complex128, b []complex128) ([]complex128, error) {
	n := len(a)
	m := make([][]complex128, n)
	for i := range a {
		m[i] = append([]complex128(nil), a[i]...)
	}
	x := append([]complex128(nil), b...)

	for k := 0; k < n; k++ {
		p, pv := k, cmplx.Abs(m[k][k])
		for i := k + 1; i < n; i++ {
			if av := cmplx.Abs(m[i][k]); av > pv {
				p, pv = i, av
			}
		}
		if pv == 0 || math.IsNaN(pv) {
			return nil, fmt.Errorf("singular system at pivot %d", k)
		}
		m[k], m[p] = m[p], m[k]
		x[k], x[p] = x[p], x[k]
		for i := k + 1; i < n; i++ {
			f := m[i][k] / m[k][k]
			for j := k; j < n; j++ {
				m[i][j] -= f * m[k][j]
			}
			x[i] -= f * x[k]
		}
	}
	for k := n - 1; k >= 0; k-- {
		for j := k + 1; j < n; j++ {
			x[k] -= m[k][j] * x[j]
		}
		x[k] /= m[k][k]
	}
	return x, nil
}
