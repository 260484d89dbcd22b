package era5

import (
	"fmt"
	"math"
	"time"
)

// Slice selects a time range and a set of pressure levels from the
// dataset. A zero start/end defaults to the dataset bound; a nil levels
// keeps all levels. The range must lie within the dataset bounds and
// start must precede end; requested levels must exist.
func (ds *Dataset) Slice(start, end time.Time, levels []float64) (*Dataset, error) {
	first, last := ds.TimeBounds()
	if start.IsZero() {
		start = first
	}
	if end.IsZero() {
		end = last
	}
	if start.Before(first) || end.After(last) {
		return nil, fmt.Errorf("requested time range (%v to %v) is outside dataset bounds (%v to %v)",
			start, end, first, last)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("start datetime must be before end datetime")
	}
	if levels == nil {
		levels = ds.Levels
	}

	// level subset indices
	il := make([]int, 0, len(levels))
	for _, lv := range levels {
		k := -1
		for i, l := range ds.Levels {
			if l == lv {
				k = i
				break
			}
		}
		if k < 0 {
			return nil, fmt.Errorf("requested level %v is not available in the dataset; available levels: %v",
				lv, ds.Levels)
		}
		il = append(il, k)
	}

	// time subset indices, inclusive of both bounds
	it := make([]int, 0, len(ds.Time))
	for i, t := range ds.Time {
		if !t.Before(start) && !t.After(end) {
			it = append(it, i)
		}
	}

	return ds.subset(it, il), nil
}

// Resample maps the dataset onto an even cadence from its first timestamp,
// assigning each output step the nearest available input sample.
func (ds *Dataset) Resample(delta time.Duration) (*Dataset, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("delta time must be positive, got %v", delta)
	}
	first, last := ds.TimeBounds()
	var out []time.Time
	for t := first; !t.After(last); t = t.Add(delta) {
		out = append(out, t)
	}

	it := make([]int, len(out))
	times := make([]time.Time, len(out))
	for k, t := range out {
		jn, dn := 0, math.Inf(1)
		for j, tj := range ds.Time {
			if d := math.Abs(tj.Sub(t).Seconds()); d < dn {
				jn, dn = j, d
			}
		}
		it[k] = jn
		times[k] = t
	}

	il := make([]int, len(ds.Levels))
	for i := range il {
		il[i] = i
	}
	rs := ds.subset(it, il)
	rs.Time = times // keep the requested cadence as the time axis
	return rs, nil
}

// subset copies the dataset restricted to the given time and level indices.
func (ds *Dataset) subset(it, il []int) *Dataset {
	out := &Dataset{
		Time:   make([]time.Time, len(it)),
		Levels: make([]float64, len(il)),
		Lats:   append([]float64(nil), ds.Lats...),
		Lons:   append([]float64(nil), ds.Lons...),
		Vars:   append([]string(nil), ds.Vars...),
		Data:   make(map[string][]float64, len(ds.Vars)),
	}
	for k, i := range it {
		out.Time[k] = ds.Time[i]
	}
	for k, i := range il {
		out.Levels[k] = ds.Levels[i]
	}
	nj, ni := len(ds.Lats), len(ds.Lons)
	for _, v := range ds.Vars {
		src := ds.Data[v]
		dst := make([]float64, 0, len(it)*len(il)*nj*ni)
		for _, t := range it {
			for _, l := range il {
				o := ds.idx(t, l, 0, 0)
				dst = append(dst, src[o:o+nj*ni]...)
			}
		}
		out.Data[v] = dst
	}
	return out
}
