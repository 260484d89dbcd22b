package era5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestStandardizeAlongTime(t *testing.T) {
	x := mat.NewDense(3, 50, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 50; j++ {
			x.Set(i, j, float64(i*7)+3.5*float64(j%5)-1)
		}
	}
	xs, mu, sigma, err := Standardize(x, 1, true)
	require.NoError(t, err)
	require.Len(t, mu, 3)
	require.Len(t, sigma, 3)
	for i := 0; i < 3; i++ {
		row := mat.Row(nil, i, xs)
		assert.InDelta(t, 0, stat.Mean(row, nil), 1e-12)
		assert.InDelta(t, 1, stat.StdDev(row, nil), 1e-12)
	}
}

func TestStandardizeNoScale(t *testing.T) {
	x := mat.NewDense(2, 10, nil)
	for j := 0; j < 10; j++ {
		x.Set(0, j, float64(j))
		x.Set(1, j, 100+2*float64(j))
	}
	xs, _, sigma, err := Standardize(x, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, sigma)
	row := mat.Row(nil, 0, xs)
	assert.InDelta(t, 0, stat.Mean(row, nil), 1e-12)
	// unscaled: deviations survive centering
	assert.InDelta(t, x.At(0, 9)-4.5, xs.At(0, 9), 1e-12)
}

func TestStandardizeAlongColumns(t *testing.T) {
	x := mat.NewDense(20, 4, nil)
	for i := 0; i < 20; i++ {
		for j := 0; j < 4; j++ {
			x.Set(i, j, float64(j)*10+float64(i%3))
		}
	}
	xs, _, _, err := Standardize(x, 0, true)
	require.NoError(t, err)
	for j := 0; j < 4; j++ {
		col := mat.Col(nil, j, xs)
		assert.InDelta(t, 0, stat.Mean(col, nil), 1e-12)
		assert.InDelta(t, 1, stat.StdDev(col, nil), 1e-12)
	}
}

func TestStandardizeBadAxis(t *testing.T) {
	_, _, _, err := Standardize(mat.NewDense(2, 2, nil), 2, true)
	require.Error(t, err)
}

func TestDestandardizeRoundTrip(t *testing.T) {
	x := mat.NewDense(4, 30, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 30; j++ {
			x.Set(i, j, 250+5*float64(i)+float64(j*j%11))
		}
	}
	xs, mu, sigma, err := Standardize(x, 1, true)
	require.NoError(t, err)
	back := Destandardize(xs, mu, sigma)
	for i := 0; i < 4; i++ {
		for j := 0; j < 30; j++ {
			assert.InDelta(t, x.At(i, j), back.At(i, j), 1e-10)
		}
	}
}
