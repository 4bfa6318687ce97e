package forecast

import "errors"

var (
	// ErrTooFewPoints reports a series too short for the requested model.
	ErrTooFewPoints = errors.New("too few points to forecast")

	// ErrFitFailed reports that parameter estimation did not converge.
	// It is fatal for the single forecast call, never for the session.
	ErrFitFailed = errors.New("model fit failed")
)
