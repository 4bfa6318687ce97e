// Package forecast prepares payment series for modeling and produces
// short-horizon forecasts of future outflows.
//
// PrepareSeries aggregates the long-form Payments Table into one signed
// amount per date and optionally densifies it onto a regular calendar
// (daily, or weekly anchored on an inferred weekday). HoltWinters and
// SARIMA fit the prepared series and forecast a caller-chosen number of
// future periods, continuing the historical index with no gap.
//
// Model fitting failures are errors the caller must surface; everything
// before fitting degrades to empty or shorter results instead.
package forecast
