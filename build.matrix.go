package dynamodera

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ClimeTrend/DynaModERA/era5"
	"github.com/maseology/mmio"
	"github.com/sbinet/npyio"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Pipeline carries one analysis run from sliced dataset to fitted report.
type Pipeline struct {
	Cfg    Config
	Log    *zap.SugaredLogger
	Ds     *era5.Dataset
	X      *mat.Dense // (n_space*n_vars, n_time) state matrix
	Coords era5.Coords
	Vars   []string
}

// NewPipeline loads the source NetCDF file named by the config and builds
// the data matrix.
func NewPipeline(cfg Config, lg *zap.SugaredLogger) (*Pipeline, error) {
	tt := mmio.NewTimer()
	ds, err := era5.Load(cfg.SourcePath, cfg.Variables)
	if err != nil {
		return nil, err
	}
	tt.Lap("source dataset load complete")
	return FromDataset(ds, cfg, lg)
}

// FromDataset slices, resamples and flattens an in-memory dataset into
// the pipeline's state matrix.
func FromDataset(ds *era5.Dataset, cfg Config, lg *zap.SugaredLogger) (*Pipeline, error) {
	first, last := ds.TimeBounds()
	lg.Infof("dataset: %d timesteps (%v to %v), levels %v, grid %dx%d, variables %v",
		len(ds.Time), first, last, ds.Levels, len(ds.Lats), len(ds.Lons), ds.Vars)

	sl, err := ds.Slice(cfg.StartDatetime, cfg.EndDatetime, cfg.Levels)
	if err != nil {
		return nil, err
	}
	lg.Infof("sliced to %d timesteps over levels %v", len(sl.Time), sl.Levels)

	if cfg.DeltaTime > 0 {
		if sl, err = sl.Resample(cfg.DeltaTime); err != nil {
			return nil, err
		}
		lg.Infof("resampled to %v cadence: %d timesteps", cfg.DeltaTime, len(sl.Time))
	}

	x, coords, vars, err := sl.Flatten()
	if err != nil {
		return nil, err
	}
	nr, nc := x.Dims()
	lg.Infof("state matrix: %s x %s", mmio.Thousands(int64(nr)), mmio.Thousands(int64(nc)))

	p := &Pipeline{Cfg: cfg, Log: lg, Ds: sl, X: x, Coords: coords, Vars: vars}
	if cfg.SaveDataMatrix {
		fp := filepath.Join(cfg.OutputDir, "era5_data_matrix.npy")
		if err := p.saveMatrix(fp, x); err != nil {
			return nil, err
		}
		lg.Infof("data matrix written to %s", fp)
	}
	return p, nil
}

func (p *Pipeline) saveMatrix(fp string, x *mat.Dense) error {
	mmio.MakeDir(filepath.Dir(fp))
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("save matrix: %w", err)
	}
	defer f.Close()
	if err := npyio.Write(f, x); err != nil {
		return fmt.Errorf("save matrix %s: %w", fp, err)
	}
	return nil
}
