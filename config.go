package dynamodera

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds one era5-dmd run definition, read from an INI section.
type Config struct {
	SourcePath     string
	StartDatetime  time.Time // zero value: dataset bound
	EndDatetime    time.Time // zero value: dataset bound
	DeltaTime      time.Duration
	Variables      []string
	Levels         []float64
	MeanCenter     bool // standardize the training matrix before fitting
	Scale          bool // also scale to unit variance
	SVDType        string
	ProjectedModes bool // project modes onto the POD basis instead of exact modes
	Delay          int
	NComponents    int
	NumTrials      int
	TrainFrac      float64
	SaveDataMatrix bool
	OutputDir      string
	LogFile        string
}

// the isoformat layouts accepted for start_datetime/end_datetime
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// LoadConfig reads the named section of an INI configuration file.
// Unset keys fall back to defaults; list values are comma-separated.
func LoadConfig(filePath, section string) (Config, error) {
	cfg := Config{
		MeanCenter: true,
		Scale:      true,
		SVDType:    "exact",
		Delay:      1,
		TrainFrac:  .8,
		OutputDir:  "data/dmd_results",
		LogFile:    "era5_dmd.log",
	}

	f, err := ini.Load(filePath)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", filePath, err)
	}
	sec, err := f.GetSection(section)
	if err != nil {
		return cfg, fmt.Errorf("section %s not found in %s", section, filePath)
	}

	get := func(name string) (*ini.Key, bool) {
		if sec.HasKey(name) {
			return sec.Key(name), true
		}
		return nil, false
	}

	if k, ok := get("source_path"); ok {
		cfg.SourcePath = k.String()
	}
	if k, ok := get("start_datetime"); ok {
		if cfg.StartDatetime, err = parseISO(k.String()); err != nil {
			return cfg, err
		}
	}
	if k, ok := get("end_datetime"); ok {
		if cfg.EndDatetime, err = parseISO(k.String()); err != nil {
			return cfg, err
		}
	}
	if k, ok := get("delta_time"); ok {
		if cfg.DeltaTime, err = time.ParseDuration(k.String()); err != nil {
			return cfg, fmt.Errorf("delta_time: %w", err)
		}
	}
	if k, ok := get("variables"); ok {
		cfg.Variables = k.Strings(",")
	}
	if k, ok := get("levels"); ok {
		for _, f64 := range k.Float64s(",") {
			cfg.Levels = append(cfg.Levels, f64)
		}
	}
	if k, ok := get("mean_center"); ok {
		cfg.MeanCenter = k.MustBool(true)
	}
	if k, ok := get("scale"); ok {
		cfg.Scale = k.MustBool(true)
	}
	if k, ok := get("svd_type"); ok {
		cfg.SVDType = k.String()
	}
	if k, ok := get("projected_modes"); ok {
		cfg.ProjectedModes = k.MustBool(false)
	}
	if k, ok := get("delay"); ok {
		cfg.Delay = k.MustInt(1)
	}
	if k, ok := get("n_components"); ok {
		cfg.NComponents = k.MustInt(0)
	}
	if k, ok := get("num_trials"); ok {
		cfg.NumTrials = k.MustInt(0)
	}
	if k, ok := get("train_frac"); ok {
		cfg.TrainFrac = k.MustFloat64(.8)
	}
	if k, ok := get("save_data_matrix"); ok {
		cfg.SaveDataMatrix = k.MustBool(false)
	}
	if k, ok := get("output_dir"); ok {
		cfg.OutputDir = k.String()
	}
	if k, ok := get("log_file"); ok {
		cfg.LogFile = k.String()
	}

	switch cfg.SVDType {
	case "exact", "optimized":
	default:
		return cfg, fmt.Errorf("svd_type must be exact or optimized, got %q", cfg.SVDType)
	}
	if cfg.TrainFrac <= 0 || cfg.TrainFrac >= 1 {
		return cfg, fmt.Errorf("train_frac must lie in (0,1), got %v", cfg.TrainFrac)
	}
	return cfg, nil
}

func parseISO(s string) (time.Time, error) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse datetime %q, expect isoformat (e.g. 2020-01-01T06)", s)
}
