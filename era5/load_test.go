package era5

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeUnits(t *testing.T) {
	step, epoch, err := parseTimeUnits("hours since 1900-01-01 00:00:00.0")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, step)
	assert.Equal(t, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), epoch)

	step, epoch, err = parseTimeUnits("seconds since 1970-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Second, step)
	assert.Equal(t, time.Unix(0, 0).UTC(), epoch)

	step, epoch, err = parseTimeUnits("days since 2000-01-01 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, step)
	assert.Equal(t, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), epoch)
}

func TestParseTimeUnitsRejectsUnknownEncodings(t *testing.T) {
	for _, s := range []string{
		"fortnights since 1900-01-01",
		"hours until 1900-01-01",
		"gregorian",
		"hours since yesterday",
		"",
	} {
		_, _, err := parseTimeUnits(s)
		assert.Error(t, err, "units %q must be rejected", s)
	}
}

func TestDecodeTimes(t *testing.T) {
	// classic export: integer hours since 1900
	epoch1900 := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	got := decodeTimes([]float64{1043136, 1043137}, time.Hour, epoch1900)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2019, 1, 1, 1, 0, 0, 0, time.UTC), got[1])

	// newer export: epoch seconds on valid_time
	got = decodeTimes([]float64{1546300800, 1546304400}, time.Second, time.Unix(0, 0).UTC())
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2019, 1, 1, 1, 0, 0, 0, time.UTC), got[1])
}
