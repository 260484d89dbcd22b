package dmd

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/glbopt"
	"github.com/maseology/montecarlo/smpln"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
	"gonum.org/v1/gonum/mat"
)

// perturbation radius applied to each eigenvalue component during the
// optimized refinement, relative to the eigenvalue magnitude
const eigSearchRadius = 0.05

// FitOptimized computes a DMD of x and then refines its eigenvalues
// against the full snapshot horizon: candidate spectra are drawn by
// Latin hypercube around the base eigenvalues (numTrials draws), the
// best region is polished by shuffled-complex-evolution, and amplitudes
// are re-fit to the whole matrix for the winning spectrum. projected
// selects POD-projected over exact modes for the base fit. numTrials
// <= 0 skips the hypercube screen and runs SCE alone.
func FitOptimized(x *mat.Dense, rank, numTrials int, projected bool) (*Result, error) {
	base, err := Fit(x, rank, projected)
	if err != nil {
		return nil, err
	}
	_, nt := x.Dims()
	r := base.Rank
	dim := 2 * r

	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	gen := func(u []float64) float64 {
		eigs := perturbEigs(base.Eigs, u)
		_, of, err := refitAmplitudes(base.Modes, eigs, x, nt)
		if err != nil {
			return math.Inf(1)
		}
		return of
	}

	// centre of the search box is the base spectrum
	uBest := make([]float64, dim)
	for j := range uBest {
		uBest[j] = .5
	}
	fBest := gen(uBest)

	if numTrials > 0 {
		uiprogress.Start()
		bar := uiprogress.AddBar(numTrials).AppendCompleted().PrependElapsed()
		sp := smpln.NewLHC(rng, numTrials, dim, false)
		for k := 0; k < numTrials; k++ {
			ut := make([]float64, dim)
			for j := 0; j < dim; j++ {
				ut[j] = sp.U[j][k]
			}
			if f := gen(ut); f < fBest {
				uBest, fBest = ut, f
			}
			bar.Incr()
		}
		uiprogress.Stop()
	}

	uSCE, fSCE := glbopt.SCE(32, dim, rng, gen, true)
	if fSCE < fBest {
		uBest, fBest = uSCE, fSCE
	}

	eigs := perturbEigs(base.Eigs, uBest)
	amps, _, err := refitAmplitudes(base.Modes, eigs, x, nt)
	if err != nil {
		return nil, fmt.Errorf("dmd: optimized refinement: %w", err)
	}
	return &Result{Modes: base.Modes, Eigs: eigs, Amplitudes: amps, Rank: r}, nil
}

// perturbEigs maps a unit hypercube sample onto an eigenvalue spectrum
// within the search box around the reference; u=0.5 is the reference
// itself.
func perturbEigs(ref []complex128, u []float64) []complex128 {
	out := make([]complex128, len(ref))
	for i, lam := range ref {
		rho := eigSearchRadius * (cmplx.Abs(lam) + 1e-2)
		dre := rho * (2*u[2*i] - 1)
		dim := rho * (2*u[2*i+1] - 1)
		out[i] = lam + complex(dre, dim)
	}
	return out
}

// refitAmplitudes solves the global least-squares amplitude fit of
// modes*diag(b)*V(eigs) to x over all nt snapshots and returns the
// amplitudes with the squared Frobenius residual.
func refitAmplitudes(modes *mat.CDense, eigs []complex128, x *mat.Dense, nt int) ([]complex128, float64, error) {
	n, r := modes.Dims()
	v := Vandermonde(eigs, nt)

	// G = modes^H modes, P = modes^H X
	g := make([][]complex128, r)
	p := make([][]complex128, r)
	for a := 0; a < r; a++ {
		g[a] = make([]complex128, r)
		for b := 0; b < r; b++ {
			var sum complex128
			for i := 0; i < n; i++ {
				sum += cmplx.Conj(modes.At(i, a)) * modes.At(i, b)
			}
			g[a][b] = sum
		}
		p[a] = make([]complex128, nt)
		for t := 0; t < nt; t++ {
			var sum complex128
			for i := 0; i < n; i++ {
				sum += cmplx.Conj(modes.At(i, a)) * complex(x.At(i, t), 0)
			}
			p[a][t] = sum
		}
	}

	m := make([][]complex128, r)
	c := make([]complex128, r)
	for a := 0; a < r; a++ {
		m[a] = make([]complex128, r)
		for b := 0; b < r; b++ {
			var sum complex128
			for t := 0; t < nt; t++ {
				sum += v[b][t] * cmplx.Conj(v[a][t])
			}
			m[a][b] = g[a][b] * sum
		}
		var sum complex128
		for t := 0; t < nt; t++ {
			sum += cmplx.Conj(v[a][t]) * p[a][t]
		}
		c[a] = sum
	}

	b, err := solveComplex(m, c)
	if err != nil {
		return nil, 0, err
	}

	// ||X - Phi diag(b) V||^2 = ||X||^2 - 2Re(b^H c) + b^H M b
	var xx float64
	nr, nc := x.Dims()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			xx += x.At(i, j) * x.At(i, j)
		}
	}
	var bc, bmb complex128
	for a := 0; a < r; a++ {
		bc += cmplx.Conj(b[a]) * c[a]
		for q := 0; q < r; q++ {
			bmb += cmplx.Conj(b[a]) * m[a][q] * b[q]
		}
	}
	of := xx - 2*real(bc) + real(bmb)
	if of < 0 {
		of = 0
	}
	return b, of, nil
}
