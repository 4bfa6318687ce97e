package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSARIMASeasonal(t *testing.T) {
	s := weeklyPattern(6)

	history, fcst, err := SARIMA(s, 10, DefaultSeasonalPeriods)
	require.NoError(t, err)

	assert.Equal(t, s.Values, history.Values)
	require.Equal(t, 10, fcst.Len())

	assert.True(t, fcst.Dates[0].Equal(s.Dates[s.Len()-1].Add(24*time.Hour)))
	for i := 1; i < fcst.Len(); i++ {
		assert.Equal(t, 24*time.Hour, fcst.Dates[i].Sub(fcst.Dates[i-1]))
	}

	for _, v := range fcst.Values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "forecast value %v", v)
	}
}

func TestSARIMANonSeasonal(t *testing.T) {
	s := dailySeries([]float64{10, 11, 13, 12, 14, 15, 17, 16, 18, 19})

	_, fcst, err := SARIMA(s, 5, 0)
	require.NoError(t, err)
	require.Equal(t, 5, fcst.Len())
	for _, v := range fcst.Values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestSARIMASparseSpikes(t *testing.T) {
	// Mostly-zero daily series with periodic payment spikes, the shape a
	// zero-filled schedule actually has.
	var values []float64
	for c := 0; c < 5; c++ {
		values = append(values, 0, 0, 0, 0, 2500, 0, 0)
	}
	s := dailySeries(values)

	_, fcst, err := SARIMA(s, 14, DefaultSeasonalPeriods)
	require.NoError(t, err)
	require.Equal(t, 14, fcst.Len())

	assert.True(t, fcst.Dates[0].Equal(s.Dates[s.Len()-1].Add(24*time.Hour)))
	for _, v := range fcst.Values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "forecast value %v", v)
	}
}

func TestSARIMAForecastLengthMatchesSteps(t *testing.T) {
	s := weeklyPattern(5)
	for _, steps := range []int{1, 7, 21} {
		_, fcst, err := SARIMA(s, steps, DefaultSeasonalPeriods)
		require.NoError(t, err)
		assert.Equal(t, steps, fcst.Len())
	}
}

func TestSARIMAErrors(t *testing.T) {
	t.Run("too few points for seasonal period", func(t *testing.T) {
		_, _, err := SARIMA(dailySeries([]float64{1, 2, 3, 4, 5}), 5, DefaultSeasonalPeriods)
		assert.ErrorIs(t, err, ErrTooFewPoints)
	})

	t.Run("non-positive steps", func(t *testing.T) {
		_, _, err := SARIMA(weeklyPattern(4), -1, DefaultSeasonalPeriods)
		assert.Error(t, err)
	})
}
