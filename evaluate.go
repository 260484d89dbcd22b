package dynamodera

import (
	"fmt"
	"math"
	"time"

	"github.com/ClimeTrend/DynaModERA/dmd"
	"github.com/ClimeTrend/DynaModERA/era5"
	"github.com/maseology/mmio"
	"github.com/maseology/objfunc"
	"gonum.org/v1/gonum/mat"
)

// Report holds the run parameters and computed error metrics persisted as
// run metadata.
type Report struct {
	Timestamp  string  `json:"timestamp"`
	SVDType    string  `json:"svd_type"`
	TrainFrac  float64 `json:"train_frac"`
	Delay      int     `json:"delay"`
	Rank       int     `json:"svd_rank"`
	NModes     int     `json:"n_modes"`
	NVars      int     `json:"n_vars"`
	NLevel     int     `json:"n_level"`
	NLat       int     `json:"n_lat"`
	NLon       int     `json:"n_lon"`
	NSpace     int     `json:"spatial_points"`
	NTime      int     `json:"temporal_points"`
	NTrain     int     `json:"train_points"`
	RMSETrain  float64 `json:"rmse_train"`
	RMSETest   float64 `json:"rmse_test"`
	TestMSE    float64 `json:"test_mse"`
	TestRelErr float64 `json:"test_relative_error"`
	PlotPath   string  `json:"plot_path"`
	OutputDir  string  `json:"output_dir"`
}

// Evaluate fits the decomposition on the training window, reconstructs
// and forecasts the field over the full horizon, and writes the plot,
// array and metadata artifacts under a shared timestamp key.
func (p *Pipeline) Evaluate() (*Report, error) {
	tt := mmio.NewTimer()
	cfg := p.Cfg
	n, nt := p.X.Dims()

	nTrain := int(float64(nt) * cfg.TrainFrac)
	if nTrain < cfg.Delay+1 || nTrain >= nt {
		return nil, fmt.Errorf("train split of %d snapshots (train_frac %v, delay %d) leaves no usable train/test windows",
			nTrain, cfg.TrainFrac, cfg.Delay)
	}
	xTrain := p.X.Slice(0, n, 0, nTrain).(*mat.Dense)
	xTest := p.X.Slice(0, n, nTrain, nt).(*mat.Dense)

	// standardize the training rows only; de-normalization reuses the
	// training moments on the forecast window
	var xn *mat.Dense
	mu, sigma := make([]float64, n), make([]float64, n)
	for i := range sigma {
		sigma[i] = 1
	}
	if cfg.MeanCenter {
		var err error
		if xn, mu, sigma, err = era5.Standardize(xTrain, 1, cfg.Scale); err != nil {
			return nil, err
		}
		p.Log.Infof("training matrix standardized along time (scale=%v)", cfg.Scale)
	} else {
		xn = mat.DenseCopyOf(xTrain)
	}

	xe, err := dmd.DelayEmbed(xn, cfg.Delay)
	if err != nil {
		return nil, err
	}
	er, ec := xe.Dims()
	p.Log.Infof("delay-embedded training matrix (d=%d): %d x %d", cfg.Delay, er, ec)

	var res *dmd.Result
	switch cfg.SVDType {
	case "optimized":
		p.Log.Infof("fitting optimized decomposition (rank %d, %d trials)..", cfg.NComponents, cfg.NumTrials)
		res, err = dmd.FitOptimized(xe, cfg.NComponents, cfg.NumTrials, cfg.ProjectedModes)
	default:
		p.Log.Infof("fitting exact decomposition (rank %d)..", cfg.NComponents)
		res, err = dmd.Fit(xe, cfg.NComponents, cfg.ProjectedModes)
	}
	if err != nil {
		return nil, err
	}
	tt.Lap("decomposition fit complete")

	// Vandermonde evaluation over the full train+forecast horizon, then
	// trim the delay-augmented rows back to the physical state
	full := res.Reconstruct(nt)
	xdmdN := full.Slice(0, n, 0, nt).(*mat.Dense)
	xdmd := era5.Destandardize(xdmdN, mu, sigma)

	// cos(lat)-weighted spatial means of truth and reconstruction
	w := p.rowWeights()
	trueMean := weightedColMeans(p.X, w)
	dmdMean := weightedColMeans(xdmd, w)
	trueStd := colStds(p.X)
	dmdStd := colStds(xdmd)

	rep := &Report{
		Timestamp: time.Now().Format("20060102_150405"),
		SVDType:   cfg.SVDType,
		TrainFrac: cfg.TrainFrac,
		Delay:     cfg.Delay,
		Rank:      res.Rank,
		NModes:    res.Rank,
		NVars:     len(p.Vars),
		NLevel:    len(p.Ds.Levels),
		NLat:      len(p.Ds.Lats),
		NLon:      len(p.Ds.Lons),
		NSpace:    p.Ds.NSpace(),
		NTime:     nt,
		NTrain:    nTrain,
		OutputDir: cfg.OutputDir,
	}
	rep.RMSETrain = objfunc.RMSE(trueMean[:nTrain], dmdMean[:nTrain])
	rep.RMSETest = objfunc.RMSE(trueMean[nTrain:], dmdMean[nTrain:])

	// full-field forecast errors over the test window
	var sse, ssx float64
	nTest := nt - nTrain
	for i := 0; i < n; i++ {
		for j := 0; j < nTest; j++ {
			d := xTest.At(i, j) - xdmd.At(i, nTrain+j)
			sse += d * d
			ssx += xTest.At(i, j) * xTest.At(i, j)
		}
	}
	rep.TestMSE = sse / float64(n*nTest)
	if ssx > 0 {
		rep.TestRelErr = math.Sqrt(sse / ssx)
	}

	p.Log.Infof("training RMSE %.4f, forecast RMSE %.4f, test MSE %.6f, relative error %.6f",
		rep.RMSETrain, rep.RMSETest, rep.TestMSE, rep.TestRelErr)

	if err := p.writeArtifacts(rep, res, xdmd); err != nil {
		return nil, err
	}
	if err := p.writePlot(rep, trueMean, dmdMean, trueStd, dmdStd); err != nil {
		return nil, err
	}
	tt.Lap("evaluation complete")
	return rep, nil
}

// rowWeights expands the cos(latitude) area weights over the flattened
// row order (repeated per variable block).
func (p *Pipeline) rowWeights() []float64 {
	n, _ := p.X.Dims()
	ns := p.Ds.NSpace()
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Cos(p.Coords.Latitude[i%ns] * math.Pi / 180)
	}
	return w
}

func weightedColMeans(x *mat.Dense, w []float64) []float64 {
	nr, nc := x.Dims()
	var sw float64
	for _, wi := range w {
		sw += wi
	}
	out := make([]float64, nc)
	for j := 0; j < nc; j++ {
		var s float64
		for i := 0; i < nr; i++ {
			s += w[i] * x.At(i, j)
		}
		out[j] = s / sw
	}
	return out
}

// colStds returns the spatial standard deviation of each snapshot.
func colStds(x *mat.Dense) []float64 {
	nr, nc := x.Dims()
	out := make([]float64, nc)
	for j := 0; j < nc; j++ {
		var m float64
		for i := 0; i < nr; i++ {
			m += x.At(i, j)
		}
		m /= float64(nr)
		var ss float64
		for i := 0; i < nr; i++ {
			d := x.At(i, j) - m
			ss += d * d
		}
		out[j] = math.Sqrt(ss / float64(nr))
	}
	return out
}
