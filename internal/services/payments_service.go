// Package services orchestrates loading, filtering and forecasting of
// the payments data for the transport layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"pagoscli/internal/config"
	"pagoscli/internal/etl"
	"pagoscli/internal/files"
	"pagoscli/internal/forecast"
	"pagoscli/internal/infrastructure"
	"pagoscli/pkg/contracts/domain"
)

// Forecast model identifiers accepted by ForecastRequest.
const (
	ModelHoltWinters = "holt-winters"
	ModelSARIMA      = "sarima"
)

// PaymentsService loads payment folders (with per-root caching keyed on
// a content fingerprint), applies filters and dispatches forecasts.
type PaymentsService struct {
	loader *etl.Loader
	cfg    config.ForecastConfig
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cachedLoad
}

// cachedLoad memoizes one root's table together with the fingerprint it
// was built from; a fingerprint mismatch invalidates the entry.
type cachedLoad struct {
	fingerprint string
	table       *domain.PaymentsTable
}

// NewPaymentsService creates the service.
func NewPaymentsService(loader *etl.Loader, cfg config.ForecastConfig, logger *slog.Logger) *PaymentsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentsService{
		loader: loader,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "payments_service")),
		cache:  make(map[string]cachedLoad),
	}
}

// Load returns the combined Payments Table for the given roots, sorted
// by date. Each root's load is cached until the files under it change.
func (s *PaymentsService) Load(ctx context.Context, roots []string) (*domain.PaymentsTable, error) {
	tables := make([]*domain.PaymentsTable, 0, len(roots))
	for _, root := range roots {
		table, err := s.loadRoot(ctx, root)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return domain.Concat(tables...), nil
}

func (s *PaymentsService) loadRoot(ctx context.Context, root string) (*domain.PaymentsTable, error) {
	fingerprint, err := files.Fingerprint(root)
	if err != nil {
		return nil, fmt.Errorf("fingerprint root %s: %w", root, err)
	}

	s.mu.Lock()
	cached, ok := s.cache[root]
	s.mu.Unlock()
	if ok && cached.fingerprint == fingerprint {
		s.logger.DebugContext(ctx, "cache hit", "root", root)
		return cached.table, nil
	}

	table, err := s.loader.LoadFolder(ctx, root)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[root] = cachedLoad{fingerprint: fingerprint, table: table}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "root loaded", "root", root, "rows", table.Len(), "cached", ok)
	return table, nil
}

// ForecastRequest describes one forecast invocation.
type ForecastRequest struct {
	// Model selects the forecaster.
	Model string `json:"model" validate:"required,oneof=holt-winters sarima"`
	// Steps is the horizon; 0 means the configured default.
	Steps int `json:"steps" validate:"min=0,max=365"`
	// SeasonalPeriods overrides the configured seasonal cycle length;
	// nil means the default, 0 disables seasonality.
	SeasonalPeriods *int `json:"seasonal_periods,omitempty" validate:"omitempty,min=0,max=366"`
	// Frequency is the calendar the series is densified onto before
	// fitting; empty means daily.
	Frequency forecast.Frequency `json:"frequency,omitempty"`
	// Filter narrows the table before aggregation.
	Filter domain.PaymentFilter `json:"filter"`
}

// ForecastResult pairs the history actually fed to the model with the
// predicted continuation.
type ForecastResult struct {
	Model    string          `json:"model"`
	History  forecast.Series `json:"history"`
	Forecast forecast.Series `json:"forecast"`
}

// Forecast loads, filters, prepares and fits. A series shorter than the
// configured minimum is rejected with forecast.ErrTooFewPoints before
// any model work; fitting failures propagate wrapped.
func (s *PaymentsService) Forecast(ctx context.Context, roots []string, req ForecastRequest) (*ForecastResult, error) {
	table, err := s.Load(ctx, roots)
	if err != nil {
		return nil, err
	}

	steps := req.Steps
	if steps == 0 {
		steps = s.cfg.DefaultSteps
	}
	seasonalPeriods := s.cfg.SeasonalPeriods
	if req.SeasonalPeriods != nil {
		seasonalPeriods = *req.SeasonalPeriods
	}
	freq := req.Frequency
	if freq == forecast.FreqNone {
		freq = forecast.FreqDaily
	}

	filtered := table.Filter(req.Filter)
	series := forecast.PrepareSeries(filtered, freq, forecast.GapFillZero)

	if series.Len() < s.cfg.MinPoints {
		return nil, fmt.Errorf("%w: %d points after filtering, need at least %d",
			forecast.ErrTooFewPoints, series.Len(), s.cfg.MinPoints)
	}

	var (
		history, predicted forecast.Series
		fitErr             error
	)
	switch req.Model {
	case ModelHoltWinters:
		history, predicted, fitErr = forecast.HoltWinters(series, steps, seasonalPeriods)
	case ModelSARIMA:
		history, predicted, fitErr = forecast.SARIMA(series, steps, seasonalPeriods)
	default:
		return nil, fmt.Errorf("unknown forecast model %q", req.Model)
	}

	outcome := "ok"
	if fitErr != nil {
		outcome = "error"
	}
	infrastructure.ForecastFits.WithLabelValues(req.Model, outcome).Inc()

	if fitErr != nil {
		s.logger.WarnContext(ctx, "forecast fit failed",
			"model", req.Model, "points", series.Len(), "error", fitErr)
		return nil, fitErr
	}

	s.logger.InfoContext(ctx, "forecast complete",
		"model", req.Model,
		"points", series.Len(),
		"steps", steps,
		"seasonal_periods", seasonalPeriods)
	return &ForecastResult{Model: req.Model, History: history, Forecast: predicted}, nil
}

// Options returns the distinct filter values present across roots.
func (s *PaymentsService) Options(ctx context.Context, roots []string) (domain.FilterOptions, error) {
	table, err := s.Load(ctx, roots)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return table.Options(), nil
}
