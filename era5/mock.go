package era5

import (
	"math"
	"time"
)

// Mock builds a synthetic ERA5-like dataset for testing: a travelling
// wave plus a standing oscillation per level, so a low-rank decomposition
// can recover the dynamics. Levels are hPa values, the grid spans the
// given lat/lon counts, and timestamps step hourly from t0.
func Mock(t0 time.Time, nt int, levels []float64, nLat, nLon int, vars []string) *Dataset {
	ds := &Dataset{
		Time:   make([]time.Time, nt),
		Levels: append([]float64(nil), levels...),
		Lats:   make([]float64, nLat),
		Lons:   make([]float64, nLon),
		Vars:   append([]string(nil), vars...),
		Data:   make(map[string][]float64, len(vars)),
	}
	for t := 0; t < nt; t++ {
		ds.Time[t] = t0.Add(time.Duration(t) * time.Hour)
	}
	for j := 0; j < nLat; j++ {
		ds.Lats[j] = 90 - 180*float64(j)/float64(nLat)
	}
	for i := 0; i < nLon; i++ {
		ds.Lons[i] = 360 * float64(i) / float64(nLon)
	}

	ns := ds.NSpace()
	for vi, v := range vars {
		cube := make([]float64, nt*ns)
		for t := 0; t < nt; t++ {
			for l := range levels {
				for j := 0; j < nLat; j++ {
					for i := 0; i < nLon; i++ {
						x := 2 * math.Pi * float64(i) / float64(nLon)
						y := 2 * math.Pi * float64(j) / float64(nLat)
						w := 2 * math.Pi * float64(t) / 12
						base := 250 + 5*float64(l) + 10*float64(vi)
						cube[ds.idx(t, l, j, i)] = base +
							3*math.Sin(x-w)*math.Cos(y) +
							1.5*math.Cos(y)*math.Sin(w/2)
					}
				}
			}
		}
		ds.Data[v] = cube
	}
	return ds
}
