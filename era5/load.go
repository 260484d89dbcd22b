package era5

import (
	"fmt"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// assumed when the time coordinate carries no units attribute; classic
// CDS pressure-level exports encode time this way, newer ones write
// "seconds since 1970-01-01" on a valid_time variable
const defaultTimeUnits = "hours since 1900-01-01 00:00:00.0"

// Load reads an ERA5 pressure-level NetCDF file into a Dataset. Variables
// not named in vars are ignored; a nil vars loads every 4-D variable found.
// Cubes are expected in (time, level, latitude, longitude) order, as
// written by CDS pressure-level exports.
func Load(filePath string, vars []string) (*Dataset, error) {
	nc, err := netcdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("era5.Load %s: %w", filePath, err)
	}
	defer nc.Close()

	ds := &Dataset{Data: map[string][]float64{}}
	if ds.Lats, err = coordValues(nc, "latitude"); err != nil {
		return nil, err
	}
	if ds.Lons, err = coordValues(nc, "longitude"); err != nil {
		return nil, err
	}
	if ds.Levels, err = coordValues(nc, "level"); err != nil {
		return nil, err
	}
	if ds.Time, err = timeAxis(nc); err != nil {
		return nil, err
	}

	if vars == nil {
		vars = nc.ListVariables()
	}
	for _, v := range vars {
		switch v {
		case "time", "valid_time", "level", "latitude", "longitude":
			continue
		}
		cube, err := varCube(nc, v, len(ds.Time), len(ds.Levels), len(ds.Lats), len(ds.Lons))
		if err != nil {
			return nil, err
		}
		ds.Vars = append(ds.Vars, v)
		ds.Data[v] = cube
	}
	if err := ds.checkCoords(); err != nil {
		return nil, err
	}
	if len(ds.Vars) == 0 {
		return nil, fmt.Errorf("era5.Load %s: no 4-D variables found", filePath)
	}
	return ds, nil
}

// timeAxis decodes the time coordinate ("time" in classic CDS exports,
// "valid_time" in newer ones) against its units attribute.
func timeAxis(nc api.Group) ([]time.Time, error) {
	name := "time"
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		name = "valid_time"
		if vg, err = nc.GetVarGetter(name); err != nil {
			return nil, fmt.Errorf("era5: no time coordinate found (tried time, valid_time)")
		}
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("era5: coordinate %s: %w", name, err)
	}
	vals, err := numericSlice(v)
	if err != nil {
		return nil, fmt.Errorf("era5: coordinate %s: %w", name, err)
	}

	units := defaultTimeUnits
	if a, has := vg.Attributes().Get("units"); has {
		s, ok := a.(string)
		if !ok {
			return nil, fmt.Errorf("era5: coordinate %s: units attribute has type %T, expected string", name, a)
		}
		units = s
	}
	step, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, fmt.Errorf("era5: coordinate %s: %w", name, err)
	}
	return decodeTimes(vals, step, epoch), nil
}

// parseTimeUnits interprets a CF-style time units string, e.g.
// "hours since 1900-01-01 00:00:00.0" or "seconds since 1970-01-01",
// returning the tick duration and epoch.
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	f := strings.Fields(units)
	if len(f) < 3 || f[1] != "since" {
		return 0, time.Time{}, fmt.Errorf("unrecognized time units %q", units)
	}
	var step time.Duration
	switch f[0] {
	case "seconds":
		step = time.Second
	case "minutes":
		step = time.Minute
	case "hours":
		step = time.Hour
	case "days":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unrecognized time units %q", units)
	}
	ts := f[2]
	if len(f) > 3 {
		ts += " " + f[3]
	}
	for _, l := range []string{"2006-1-2 15:4:5.0", "2006-1-2 15:4:5", "2006-1-2"} {
		if epoch, err := time.Parse(l, ts); err == nil {
			return step, epoch.UTC(), nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("cannot parse epoch in time units %q", units)
}

func decodeTimes(vals []float64, step time.Duration, epoch time.Time) []time.Time {
	out := make([]time.Time, len(vals))
	for i, v := range vals {
		out[i] = epoch.Add(time.Duration(v * float64(step))).UTC()
	}
	return out
}

// coordValues reads a 1-D coordinate variable as float64, accepting the
// integer and float encodings CDS emits.
func coordValues(nc api.Group, name string) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("era5: coordinate %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("era5: coordinate %s: %w", name, err)
	}
	vals, err := numericSlice(v)
	if err != nil {
		return nil, fmt.Errorf("era5: coordinate %s: %w", name, err)
	}
	return vals, nil
}

func numericSlice(v interface{}) ([]float64, error) {
	switch vv := v.(type) {
	case []float64:
		return vv, nil
	case []float32:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	case []int64:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported numeric type %T", v)
	}
}

// varCube reads a (time, level, lat, lon) variable into a flat time-major
// slice.
// TODO: unpack short-packed variables using scale_factor/add_offset
// attributes; CDS GRIB-converted files use them, NetCDF-native exports
// do not.
func varCube(nc api.Group, name string, nt, nl, nj, ni int) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("era5: variable %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("era5: variable %s: %w", name, err)
	}
	out := make([]float64, 0, nt*nl*nj*ni)
	switch vv := v.(type) {
	case [][][][]float64:
		for _, c := range vv {
			for _, p := range c {
				for _, r := range p {
					out = append(out, r...)
				}
			}
		}
	case [][][][]float32:
		for _, c := range vv {
			for _, p := range c {
				for _, r := range p {
					for _, x := range r {
						out = append(out, float64(x))
					}
				}
			}
		}
	case [][][][]int16:
		for _, c := range vv {
			for _, p := range c {
				for _, r := range p {
					for _, x := range r {
						out = append(out, float64(x))
					}
				}
			}
		}
	default:
		return nil, fmt.Errorf("era5: variable %s: expected a 4-D cube, got %T", name, v)
	}
	if len(out) != nt*nl*nj*ni {
		return nil, fmt.Errorf("era5: variable %s: size %d does not match grid %d*%d*%d*%d",
			name, len(out), nt, nl, nj, ni)
	}
	return out, nil
}
