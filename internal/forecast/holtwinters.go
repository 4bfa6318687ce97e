package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// DefaultSeasonalPeriods is the seasonal cycle length assumed for daily
// series: one week.
const DefaultSeasonalPeriods = 7

// HoltWinters fits an additive-trend, additive-seasonal exponential
// smoothing model and forecasts steps periods ahead. When the history is
// shorter than two full seasonal cycles the seasonal component is
// silently dropped and a trend-only model is fit instead: short
// histories cannot support a seasonal decomposition, and failing would
// help nobody. seasonalPeriods <= 1 disables seasonality outright.
//
// Returns the unmodified input as the history actually used, plus a
// forecast of exactly steps points continuing the index gap-free.
func HoltWinters(s Series, steps, seasonalPeriods int) (history, fcst Series, err error) {
	if steps < 1 {
		return Series{}, Series{}, fmt.Errorf("forecast steps must be positive, got %d", steps)
	}
	n := s.Len()
	if n < 2 {
		return Series{}, Series{}, fmt.Errorf("%w: need at least 2 points, have %d", ErrTooFewPoints, n)
	}

	m := seasonalPeriods
	if m <= 1 || n < 2*m {
		m = 0 // trend-only fallback
	}

	params, err := fitHoltWinters(s.Values, m)
	if err != nil {
		return Series{}, Series{}, err
	}

	state := runHoltWinters(s.Values, m, params)
	values := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		v := state.level + float64(h)*state.trend
		if m > 0 {
			v += state.season[(n+h-1)%m]
		}
		values[h-1] = v
	}

	fcst = Series{Dates: s.NextDates(steps), Values: values, Freq: s.Freq}
	return s, fcst, nil
}

// hwParams are the smoothing weights, each in (0, 1).
type hwParams struct {
	alpha, beta, gamma float64
}

// hwState is the smoothing state after consuming the whole history.
type hwState struct {
	level  float64
	trend  float64
	season []float64
	sse    float64
}

// fitHoltWinters estimates the smoothing weights by minimizing the
// one-step-ahead sum of squared errors. The weights are optimized in an
// unconstrained logit space so Nelder-Mead never has to handle bound
// constraints.
func fitHoltWinters(y []float64, m int) (hwParams, error) {
	dims := 2 // alpha, beta
	if m > 0 {
		dims = 3 // plus gamma
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			p := decodeHW(x, m)
			return runHoltWinters(y, m, p).sse
		},
	}

	x0 := make([]float64, dims)
	for i := range x0 {
		x0[i] = logit(0.2)
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return hwParams{}, fmt.Errorf("%w: holt-winters optimization: %v", ErrFitFailed, err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return hwParams{}, fmt.Errorf("%w: holt-winters objective degenerate", ErrFitFailed)
	}
	return decodeHW(result.X, m), nil
}

func decodeHW(x []float64, m int) hwParams {
	p := hwParams{alpha: sigmoid(x[0]), beta: sigmoid(x[1])}
	if m > 0 {
		p.gamma = sigmoid(x[2])
	}
	return p
}

// runHoltWinters runs the additive smoothing recursion over the full
// history and returns the final state plus the accumulated SSE.
//
// Initialization follows the usual convention: the level starts at the
// first cycle's mean, the trend at the averaged cycle-over-cycle slope,
// and the seasonal terms at the first cycle's deviations from its mean.
func runHoltWinters(y []float64, m int, p hwParams) hwState {
	n := len(y)
	var st hwState

	if m > 0 {
		firstCycle := mean(y[:m])
		secondCycle := mean(y[m : 2*m])
		st.level = firstCycle
		st.trend = (secondCycle - firstCycle) / float64(m)
		st.season = make([]float64, m)
		for i := 0; i < m; i++ {
			st.season[i] = y[i] - firstCycle
		}
	} else {
		st.level = y[0]
		st.trend = y[1] - y[0]
	}

	for t := 0; t < n; t++ {
		var seasonal float64
		idx := 0
		if m > 0 {
			idx = t % m
			seasonal = st.season[idx]
		}

		fitted := st.level + st.trend + seasonal
		e := y[t] - fitted
		st.sse += e * e

		prevLevel, prevTrend := st.level, st.trend
		if m > 0 {
			st.level = p.alpha*(y[t]-st.season[idx]) + (1-p.alpha)*(prevLevel+prevTrend)
			st.season[idx] = p.gamma*(y[t]-prevLevel-prevTrend) + (1-p.gamma)*st.season[idx]
		} else {
			st.level = p.alpha*y[t] + (1-p.alpha)*(prevLevel+prevTrend)
		}
		st.trend = p.beta*(st.level-prevLevel) + (1-p.beta)*prevTrend
	}
	return st
}

func mean(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }
