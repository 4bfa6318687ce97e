package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// SARIMA fits a seasonal ARIMA model with fixed order, (1,1,1)
// non-seasonal and (1,1,1) seasonal at the given period, by minimizing
// the conditional sum of squares, and forecasts steps periods ahead.
//
// Stationarity and invertibility are deliberately not enforced: on the
// short, noisy series this pipeline sees (tens to low hundreds of
// points), the hard constraints produce spurious fit failures, and
// robustness wins over statistical rigor. The output is the predicted
// mean path only.
//
// seasonalPeriods <= 1 degrades to a plain ARIMA(1,1,1).
func SARIMA(s Series, steps, seasonalPeriods int) (history, fcst Series, err error) {
	if steps < 1 {
		return Series{}, Series{}, fmt.Errorf("forecast steps must be positive, got %d", steps)
	}

	n := s.Len()
	m := seasonalPeriods
	if m <= 1 {
		m = 0
	}

	minPoints := 3
	if m > 0 {
		minPoints = m + 3
	}
	if n < minPoints {
		return Series{}, Series{}, fmt.Errorf("%w: need at least %d points for seasonal period %d, have %d",
			ErrTooFewPoints, minPoints, seasonalPeriods, n)
	}

	w := difference(s.Values, m)

	params, err := fitSARIMA(w, m)
	if err != nil {
		return Series{}, Series{}, err
	}

	resid := cssResiduals(w, m, params)
	wHat := forecastDifferenced(w, resid, m, params, steps)
	values := integrate(s.Values, wHat, m)

	fcst = Series{Dates: s.NextDates(steps), Values: values, Freq: s.Freq}
	return s, fcst, nil
}

// sarimaParams holds the AR/MA coefficients: phi/theta non-seasonal,
// sPhi/sTheta seasonal.
type sarimaParams struct {
	phi, theta   float64
	sPhi, sTheta float64
}

// difference applies (1-B) and, for m > 0, (1-B^m) to y.
func difference(y []float64, m int) []float64 {
	d1 := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		d1[i-1] = y[i] - y[i-1]
	}
	if m == 0 {
		return d1
	}
	out := make([]float64, len(d1)-m)
	for i := m; i < len(d1); i++ {
		out[i-m] = d1[i] - d1[i-m]
	}
	return out
}

// cssResiduals runs the innovation recursion with zero initial
// conditions (the "conditional" in conditional sum of squares).
func cssResiduals(w []float64, m int, p sarimaParams) []float64 {
	at := func(xs []float64, i int) float64 {
		if i < 0 || i >= len(xs) {
			return 0
		}
		return xs[i]
	}

	// Expansion of (1-phiB)(1-sPhiB^m)w = (1-thetaB)(1-sThetaB^m)e.
	resid := make([]float64, len(w))
	for i := range w {
		pred := p.phi * at(w, i-1)
		pred -= p.theta * at(resid, i-1)
		if m > 0 {
			pred += p.sPhi*at(w, i-m) - p.phi*p.sPhi*at(w, i-m-1)
			pred += -p.sTheta*at(resid, i-m) + p.theta*p.sTheta*at(resid, i-m-1)
		}
		resid[i] = w[i] - pred
	}
	return resid
}

func cssObjective(w []float64, m int, p sarimaParams) float64 {
	var sse float64
	for _, e := range cssResiduals(w, m, p) {
		sse += e * e
	}
	return sse
}

// fitSARIMA estimates the coefficients by Nelder-Mead over the CSS
// objective. The search space is unconstrained, which is exactly the
// "enforcement disabled" behavior the pipeline wants.
func fitSARIMA(w []float64, m int) (sarimaParams, error) {
	dims := 2
	if m > 0 {
		dims = 4
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return cssObjective(w, m, decodeSARIMA(x, m))
		},
	}

	x0 := make([]float64, dims)
	for i := range x0 {
		x0[i] = 0.1
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return sarimaParams{}, fmt.Errorf("%w: sarima optimization: %v", ErrFitFailed, err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return sarimaParams{}, fmt.Errorf("%w: sarima objective degenerate", ErrFitFailed)
	}
	return decodeSARIMA(result.X, m), nil
}

func decodeSARIMA(x []float64, m int) sarimaParams {
	p := sarimaParams{phi: x[0], theta: x[1]}
	if m > 0 {
		p.sPhi, p.sTheta = x[2], x[3]
	}
	return p
}

// forecastDifferenced extends the differenced series steps ahead. Future
// innovations are zero, so only the AR structure and the tail of the
// known residuals contribute.
func forecastDifferenced(w, resid []float64, m int, p sarimaParams, steps int) []float64 {
	known := len(w)
	ext := make([]float64, known, known+steps)
	copy(ext, w)

	wAt := func(i int) float64 {
		if i < 0 {
			return 0
		}
		return ext[i]
	}
	residAt := func(i int) float64 {
		if i < 0 || i >= known {
			return 0
		}
		return resid[i]
	}

	// Same recursion and sign convention as cssResiduals, with future
	// innovations at their zero mean.
	for k := known; k < known+steps; k++ {
		v := p.phi*wAt(k-1) - p.theta*residAt(k-1)
		if m > 0 {
			v += p.sPhi*wAt(k-m) - p.phi*p.sPhi*wAt(k-m-1)
			v += -p.sTheta*residAt(k-m) + p.theta*p.sTheta*residAt(k-m-1)
		}
		ext = append(ext, v)
	}
	return ext[known:]
}

// integrate undoes the differencing: each forecast in w-space becomes a
// level forecast using actual history where available and earlier
// forecasts otherwise.
func integrate(y, wHat []float64, m int) []float64 {
	n := len(y)
	ext := make([]float64, n, n+len(wHat))
	copy(ext, y)

	for _, w := range wHat {
		t := len(ext)
		v := w + ext[t-1]
		if m > 0 {
			v += ext[t-m] - ext[t-m-1]
		}
		ext = append(ext, v)
	}
	return ext[n:]
}
