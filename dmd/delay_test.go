package dmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDelayEmbedShape(t *testing.T) {
	n, nt, d := 3, 10, 4
	x := mat.NewDense(n, nt, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < nt; j++ {
			x.Set(i, j, float64(i*100+j))
		}
	}
	xe, err := DelayEmbed(x, d)
	require.NoError(t, err)
	nr, nc := xe.Dims()
	assert.Equal(t, n*d, nr)
	assert.Equal(t, nt-d+1, nc)

	// column j stacks snapshots j..j+d-1
	for k := 0; k < d; k++ {
		for i := 0; i < n; i++ {
			assert.Equal(t, x.At(i, 2+k), xe.At(k*n+i, 2))
		}
	}
}

func TestDelayEmbedIdentity(t *testing.T) {
	x := mat.NewDense(2, 5, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	xe, err := DelayEmbed(x, 1)
	require.NoError(t, err)
	assert.True(t, mat.Equal(x, xe))
}

func TestDelayEmbedValidation(t *testing.T) {
	x := mat.NewDense(2, 5, nil)
	_, err := DelayEmbed(x, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than 0")

	_, err = DelayEmbed(x, -3)
	require.Error(t, err)

	_, err = DelayEmbed(nil, 2)
	require.Error(t, err)

	_, err = DelayEmbed(x, 6)
	require.Error(t, err)
}
