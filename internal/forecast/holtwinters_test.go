package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailySeries builds a daily-densified series starting 2025-01-01 from
// the given values.
func dailySeries(values []float64) Series {
	s := Series{Values: values, Freq: FreqDaily}
	d := date(2025, 1, 1)
	for range values {
		s.Dates = append(s.Dates, d)
		d = d.Add(24 * time.Hour)
	}
	return s
}

// weeklyPattern repeats a 7-day cycle with a mild upward trend for the
// given number of cycles.
func weeklyPattern(cycles int) Series {
	base := []float64{0, 120, 40, 0, 300, 10, 0}
	var values []float64
	for c := 0; c < cycles; c++ {
		for _, v := range base {
			values = append(values, v+float64(c)*5)
		}
	}
	return dailySeries(values)
}

func TestHoltWintersSeasonal(t *testing.T) {
	s := weeklyPattern(6)

	history, fcst, err := HoltWinters(s, 14, DefaultSeasonalPeriods)
	require.NoError(t, err)

	// History is passed through unmodified.
	assert.Equal(t, s.Values, history.Values)
	require.Equal(t, 14, fcst.Len())

	// Forecast index continues immediately after the last historical
	// date with no gap or overlap.
	assert.True(t, fcst.Dates[0].Equal(s.Dates[s.Len()-1].Add(24*time.Hour)))
	for i := 1; i < fcst.Len(); i++ {
		assert.Equal(t, 24*time.Hour, fcst.Dates[i].Sub(fcst.Dates[i-1]))
	}

	// A clearly periodic history must produce a non-flat forecast: the
	// spread across one forecast cycle should reflect the input's swings.
	lo, hi := fcst.Values[0], fcst.Values[0]
	for _, v := range fcst.Values[:7] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	assert.Greater(t, hi-lo, 50.0, "seasonal forecast should not be flat")

	for _, v := range fcst.Values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestHoltWintersShortHistoryFallsBackToTrendOnly(t *testing.T) {
	// Fewer than two full cycles: the seasonal request must silently
	// degrade to trend-only instead of failing.
	s := dailySeries([]float64{10, 12, 14, 16, 18, 20, 22, 24, 26, 28})
	require.Less(t, s.Len(), 2*DefaultSeasonalPeriods)

	_, fcst, err := HoltWinters(s, 5, DefaultSeasonalPeriods)
	require.NoError(t, err)
	require.Equal(t, 5, fcst.Len())

	// Trend-only on a clean linear ramp keeps climbing.
	assert.Greater(t, fcst.Values[4], fcst.Values[0])
}

func TestHoltWintersNoSeasonality(t *testing.T) {
	s := dailySeries([]float64{5, 7, 9, 11, 13, 15})

	_, fcst, err := HoltWinters(s, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, fcst.Len())
}

func TestHoltWintersForecastLengthMatchesSteps(t *testing.T) {
	s := weeklyPattern(4)
	for _, steps := range []int{1, 7, 30} {
		_, fcst, err := HoltWinters(s, steps, DefaultSeasonalPeriods)
		require.NoError(t, err)
		assert.Equal(t, steps, fcst.Len())
	}
}

func TestHoltWintersErrors(t *testing.T) {
	t.Run("non-positive steps", func(t *testing.T) {
		_, _, err := HoltWinters(weeklyPattern(4), 0, DefaultSeasonalPeriods)
		assert.Error(t, err)
	})

	t.Run("too few points", func(t *testing.T) {
		_, _, err := HoltWinters(dailySeries([]float64{42}), 5, DefaultSeasonalPeriods)
		assert.ErrorIs(t, err, ErrTooFewPoints)
	})
}
