package era5

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	return Mock(t0, 20, []float64{1000, 850, 700, 500, 250}, 4, 4, []string{"temperature"})
}

func TestSliceFullBoundsIdentity(t *testing.T) {
	ds := testDataset(t)
	sl, err := ds.Slice(time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ds.Time, sl.Time)
	assert.Equal(t, ds.Levels, sl.Levels)
	assert.Equal(t, ds.Data["temperature"], sl.Data["temperature"])
}

func TestSliceTimeRange(t *testing.T) {
	ds := testDataset(t)
	sl, err := ds.Slice(t0, t0.Add(14*time.Hour), nil)
	require.NoError(t, err)
	assert.Len(t, sl.Time, 15)
	assert.Equal(t, t0.Add(14*time.Hour), sl.Time[14])
	// values preserved
	assert.Equal(t, ds.At("temperature", 3, 1, 2, 2), sl.At("temperature", 3, 1, 2, 2))
}

func TestSliceStartAfterEnd(t *testing.T) {
	ds := testDataset(t)
	_, err := ds.Slice(t0.Add(5*time.Hour), t0.Add(5*time.Hour), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start datetime must be before end datetime")
}

func TestSliceOutOfBounds(t *testing.T) {
	ds := testDataset(t)
	_, err := ds.Slice(t0.Add(-time.Hour), time.Time{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside dataset bounds")
}

func TestSliceUnknownLevel(t *testing.T) {
	ds := testDataset(t)
	_, err := ds.Slice(time.Time{}, time.Time{}, []float64{123})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available levels")
	assert.Contains(t, err.Error(), "850")
}

func TestSliceLevelSubset(t *testing.T) {
	ds := testDataset(t)
	sl, err := ds.Slice(time.Time{}, time.Time{}, []float64{850, 500})
	require.NoError(t, err)
	assert.Equal(t, []float64{850, 500}, sl.Levels)
	assert.Equal(t, ds.At("temperature", 7, 1, 1, 3), sl.At("temperature", 7, 0, 1, 3))
	assert.Equal(t, ds.At("temperature", 7, 3, 1, 3), sl.At("temperature", 7, 1, 1, 3))
}

func TestResampleCadence(t *testing.T) {
	ds := testDataset(t)
	rs, err := ds.Resample(3 * time.Hour)
	require.NoError(t, err)
	require.Len(t, rs.Time, 7) // 0..18h every 3h
	for k := 1; k < len(rs.Time); k++ {
		assert.Equal(t, 3*time.Hour, rs.Time[k].Sub(rs.Time[k-1]))
	}
	// nearest neighbour: every output snapshot equals some input snapshot
	ns := ds.NSpace()
	for k := range rs.Time {
		got := rs.Data["temperature"][k*ns : (k+1)*ns]
		found := false
		for j := range ds.Time {
			match := true
			src := ds.Data["temperature"][j*ns : (j+1)*ns]
			for s := range got {
				if got[s] != src[s] {
					match = false
					break
				}
			}
			if match {
				found = true
				break
			}
		}
		assert.True(t, found, "resampled step %d is not an original sample", k)
	}
}

func TestResampleBadDelta(t *testing.T) {
	ds := testDataset(t)
	_, err := ds.Resample(0)
	require.Error(t, err)
}
