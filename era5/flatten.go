package era5

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Coords carries the coordinate lookup of a flattened state matrix: the
// level/latitude/longitude of every stacked spatial row (NSpace entries,
// repeated per variable block) and the time axis.
type Coords struct {
	Level     []float64
	Latitude  []float64
	Longitude []float64
	Time      []time.Time
}

// Flatten stacks the spatial coordinates of every variable in the fixed
// order (level, latitude, longitude) and concatenates the variables along
// the stacked axis, returning a (n_space*n_vars, n_time) state matrix,
// the coordinate lookup needed to invert the stacking, and the variable
// order. Row r of the matrix holds variable r/NSpace at the grid point
// Coords{Level,Latitude,Longitude}[r%NSpace].
func (ds *Dataset) Flatten() (*mat.Dense, Coords, []string, error) {
	if err := ds.checkCoords(); err != nil {
		return nil, Coords{}, nil, err
	}
	nl, nj, ni, nt := len(ds.Levels), len(ds.Lats), len(ds.Lons), len(ds.Time)
	ns := nl * nj * ni

	x := mat.NewDense(ns*len(ds.Vars), nt, nil)
	for vi, v := range ds.Vars {
		cube := ds.Data[v]
		for t := 0; t < nt; t++ {
			// one snapshot is already laid out (level, lat, lon)
			o := t * ns
			for s, x0 := range cube[o : o+ns] {
				x.Set(vi*ns+s, t, x0)
			}
		}
	}

	c := Coords{
		Level:     make([]float64, ns),
		Latitude:  make([]float64, ns),
		Longitude: make([]float64, ns),
		Time:      append([]time.Time(nil), ds.Time...),
	}
	for l := 0; l < nl; l++ {
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				s := (l*nj+j)*ni + i
				c.Level[s] = ds.Levels[l]
				c.Latitude[s] = ds.Lats[j]
				c.Longitude[s] = ds.Lons[i]
			}
		}
	}
	return x, c, append([]string(nil), ds.Vars...), nil
}

// Unflatten inverts Flatten, rebuilding per-variable time-major cubes from
// a (n_space*n_vars, n_time) matrix using the same variable order.
func Unflatten(x *mat.Dense, ds *Dataset, vars []string) (map[string][]float64, error) {
	nr, nt := x.Dims()
	ns := ds.NSpace()
	if nr != ns*len(vars) {
		return nil, fmt.Errorf("unflatten: %d rows does not match %d variables over %d grid points",
			nr, len(vars), ns)
	}
	out := make(map[string][]float64, len(vars))
	for vi, v := range vars {
		cube := make([]float64, nt*ns)
		for t := 0; t < nt; t++ {
			for s := 0; s < ns; s++ {
				cube[t*ns+s] = x.At(vi*ns+s, t)
			}
		}
		out[v] = cube
	}
	return out, nil
}
