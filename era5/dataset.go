package era5

import (
	"fmt"
	"time"
)

// Dataset holds a set of ERA5 pressure-level fields on a regular
// time-level-latitude-longitude grid. Each variable cube is stored
// time-major: index ((t*nLev+l)*nLat+j)*nLon+i.
type Dataset struct {
	Time   []time.Time
	Levels []float64 // pressure levels [hPa]
	Lats   []float64
	Lons   []float64
	Vars   []string // variable order, fixed at load
	Data   map[string][]float64
}

// NSpace returns the number of grid points per snapshot (level*lat*lon).
func (ds *Dataset) NSpace() int { return len(ds.Levels) * len(ds.Lats) * len(ds.Lons) }

func (ds *Dataset) idx(t, l, j, i int) int {
	return ((t*len(ds.Levels)+l)*len(ds.Lats)+j)*len(ds.Lons) + i
}

// At returns the value of variable v at time step t, level l, latitude j,
// longitude i.
func (ds *Dataset) At(v string, t, l, j, i int) float64 {
	return ds.Data[v][ds.idx(t, l, j, i)]
}

// TimeBounds returns the first and last timestamps in the dataset.
func (ds *Dataset) TimeBounds() (first, last time.Time) {
	return ds.Time[0], ds.Time[len(ds.Time)-1]
}

// checkCoords verifies the dataset carries the full coordinate set
// {level, latitude, longitude, time}.
func (ds *Dataset) checkCoords() error {
	if len(ds.Levels) == 0 || len(ds.Lats) == 0 || len(ds.Lons) == 0 || len(ds.Time) == 0 {
		return fmt.Errorf("missing required coordinates: [level latitude longitude time]")
	}
	return nil
}

// HoursSinceStart returns the time axis in fractional hours from the first
// timestamp.
func (ds *Dataset) HoursSinceStart() []float64 {
	h := make([]float64, len(ds.Time))
	for i, t := range ds.Time {
		h[i] = t.Sub(ds.Time[0]).Hours()
	}
	return h
}
