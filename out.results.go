package dynamodera

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ClimeTrend/DynaModERA/dmd"
	"github.com/maseology/mmio"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// writeArtifacts persists the decomposition and reconstruction under the
// report's timestamp key: modes, eigenvalues and amplitudes as complex
// .npy arrays (modes stored row-major, shape recorded in the metadata),
// the reconstructed field as a 2-D .npy matrix, and the report itself as
// a JSON metadata record.
func (p *Pipeline) writeArtifacts(rep *Report, res *dmd.Result, xdmd *mat.Dense) error {
	dir := p.Cfg.OutputDir
	mmio.MakeDir(dir)
	ts := rep.Timestamp

	nm, _ := res.Modes.Dims()
	modes := make([]complex128, 0, nm*res.Rank)
	for i := 0; i < nm; i++ {
		for j := 0; j < res.Rank; j++ {
			modes = append(modes, res.Modes.At(i, j))
		}
	}
	if err := writeNpy(filepath.Join(dir, fmt.Sprintf("dmd_modes_%s.npy", ts)), modes); err != nil {
		return err
	}
	if err := writeNpy(filepath.Join(dir, fmt.Sprintf("dmd_eigs_%s.npy", ts)), res.Eigs); err != nil {
		return err
	}
	if err := writeNpy(filepath.Join(dir, fmt.Sprintf("dmd_amplitudes_%s.npy", ts)), res.Amplitudes); err != nil {
		return err
	}
	if err := writeNpy(filepath.Join(dir, fmt.Sprintf("dmd_prediction_%s.npy", ts)), xdmd); err != nil {
		return err
	}

	mfp := filepath.Join(dir, fmt.Sprintf("dmd_metadata_%s.json", ts))
	f, err := os.Create(mfp)
	if err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("metadata %s: %w", mfp, err)
	}
	p.Log.Infof("artifacts written to %s with timestamp %s", dir, ts)
	return nil
}

func writeNpy(fp string, v interface{}) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("artifact: %w", err)
	}
	defer f.Close()
	if err := npyio.Write(f, v); err != nil {
		return fmt.Errorf("artifact %s: %w", fp, err)
	}
	return nil
}
