package era5

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Standardize mean-centers x along the given axis and, when scale is set,
// divides by the standard deviation along that axis. Axis 1 standardizes
// each row across time (the usual case for a state matrix); axis 0
// standardizes each column. Mean-centering is unconditional.
//
// The returned mean and sigma vectors (one entry per row for axis 1, per
// column for axis 0) invert the transform; sigma is all ones when scale
// is false or where the deviation vanishes.
func Standardize(x *mat.Dense, axis int, scale bool) (*mat.Dense, []float64, []float64, error) {
	if axis != 0 && axis != 1 {
		return nil, nil, nil, fmt.Errorf("standardize: axis must be 0 or 1, got %d", axis)
	}
	nr, nc := x.Dims()
	out := mat.NewDense(nr, nc, nil)

	n := nr
	if axis == 1 {
		n = nc
	}
	nvec := nr + nc - n // entries orthogonal to the axis
	mu, sigma := make([]float64, nvec), make([]float64, nvec)

	buf := make([]float64, n)
	for k := 0; k < nvec; k++ {
		if axis == 1 {
			mat.Row(buf, k, x)
		} else {
			mat.Col(buf, k, x)
		}
		m := stat.Mean(buf, nil)
		s := 1.
		if scale {
			if sd := stat.StdDev(buf, nil); sd > 0 {
				s = sd
			}
		}
		mu[k], sigma[k] = m, s
		for j := range buf {
			buf[j] = (buf[j] - m) / s
		}
		if axis == 1 {
			out.SetRow(k, buf)
		} else {
			out.SetCol(k, buf)
		}
	}
	return out, mu, sigma, nil
}

// Destandardize applies the inverse row transform: x*sigma + mu per row.
func Destandardize(x *mat.Dense, mu, sigma []float64) *mat.Dense {
	nr, nc := x.Dims()
	out := mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			out.Set(i, j, x.At(i, j)*sigma[i]+mu[i])
		}
	}
	return out
}
