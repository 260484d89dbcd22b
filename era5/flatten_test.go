package era5

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenShapeAndOrder(t *testing.T) {
	ds := Mock(t0, 6, []float64{1000, 500}, 3, 4, []string{"temperature", "u_component_of_wind"})
	x, c, vars, err := ds.Flatten()
	require.NoError(t, err)

	ns := 2 * 3 * 4
	nr, nc := x.Dims()
	assert.Equal(t, ns*2, nr)
	assert.Equal(t, 6, nc)
	assert.Equal(t, []string{"temperature", "u_component_of_wind"}, vars)

	require.Len(t, c.Level, ns)
	require.Len(t, c.Latitude, ns)
	require.Len(t, c.Longitude, ns)
	require.Len(t, c.Time, 6)

	// row order is (level, latitude, longitude), longitude fastest
	assert.Equal(t, ds.Levels[0], c.Level[0])
	assert.Equal(t, ds.Lons[1], c.Longitude[1])
	assert.Equal(t, ds.Lats[1], c.Latitude[4])
	assert.Equal(t, ds.Levels[1], c.Level[12])

	// second variable block starts at row ns
	assert.Equal(t, ds.At("u_component_of_wind", 2, 0, 0, 0), x.At(ns, 2))
	assert.Equal(t, ds.At("temperature", 5, 1, 2, 3), x.At((1*3+2)*4+3, 5))
}

func TestFlattenMissingCoords(t *testing.T) {
	ds := Mock(t0, 4, []float64{1000}, 2, 2, []string{"temperature"})
	ds.Levels = nil
	_, _, _, err := ds.Flatten()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required coordinates")
	assert.Contains(t, err.Error(), "level")
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	ds := Mock(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), 8,
		[]float64{1000, 850, 500}, 4, 5, []string{"temperature", "v_component_of_wind"})
	x, _, vars, err := ds.Flatten()
	require.NoError(t, err)

	cubes, err := Unflatten(x, ds, vars)
	require.NoError(t, err)
	for _, v := range vars {
		assert.Equal(t, ds.Data[v], cubes[v], "variable %s", v)
	}
}

func TestUnflattenRowMismatch(t *testing.T) {
	ds := Mock(t0, 4, []float64{1000}, 2, 2, []string{"temperature"})
	x, _, vars, err := ds.Flatten()
	require.NoError(t, err)
	_, err = Unflatten(x, ds, append(vars, "extra"))
	require.Error(t, err)
}
