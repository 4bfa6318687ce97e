// Package http exposes the payments data contract over HTTP: the
// long-form table, its filter options, forecasts, and archive uploads.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "pagoscli/internal/errors"
	"pagoscli/internal/forecast"
	"pagoscli/internal/services"
	"pagoscli/pkg/contracts/domain"
)

// PaymentsService is the service surface the handler depends on.
type PaymentsService interface {
	Load(ctx context.Context, roots []string) (*domain.PaymentsTable, error)
	Forecast(ctx context.Context, roots []string, req services.ForecastRequest) (*services.ForecastResult, error)
	Options(ctx context.Context, roots []string) (domain.FilterOptions, error)
}

// ArchiveService is the upload surface the handler depends on.
type ArchiveService interface {
	Extract(data []byte) (key string, roots []string, err error)
	Release(key string) error
}

// PaymentsHandler serves the payments API.
type PaymentsHandler struct {
	service  PaymentsService
	archives ArchiveService
	roots    []string
	maxBody  int64
	logger   *slog.Logger
	validate *validator.Validate
}

// NewPaymentsHandler creates the handler. roots are the configured
// report folders queried by default; maxBody bounds upload size.
func NewPaymentsHandler(service PaymentsService, archives ArchiveService, roots []string, maxBody int64, logger *slog.Logger) *PaymentsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentsHandler{
		service:  service,
		archives: archives,
		roots:    roots,
		maxBody:  maxBody,
		logger:   logger.With(slog.String("component", "payments_handler")),
		validate: validator.New(),
	}
}

// Routes returns the payments routes.
func (h *PaymentsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/payments", h.GetPayments)
	r.Get("/payments/options", h.GetOptions)
	r.Post("/forecast", h.CreateForecast)

	r.Post("/uploads", h.UploadArchive)
	r.Delete("/uploads/{key}", h.DeleteUpload)

	return r
}

// PaymentsResponse is the filtered table plus the summary figures the
// dashboard shows alongside it.
type PaymentsResponse struct {
	Rows  []domain.Payment `json:"rows"`
	Count int              `json:"count"`
	// Total is the sum of Valor under the stored negative-for-outflow
	// convention; Monto is its positive-magnitude counterpart.
	Total float64 `json:"total"`
	Monto float64 `json:"monto"`
}

// GetPayments handles GET /payments with banco/moneda/dia query filters
// (each repeatable).
func (h *PaymentsHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Load(r.Context(), h.roots)
	if err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(http.StatusInternalServerError,
			"LOAD_FAILED", "Failed to load payment folders", err.Error()))
		return
	}

	q := r.URL.Query()
	filtered := table.Filter(domain.PaymentFilter{
		Bancos:  q["banco"],
		Monedas: q["moneda"],
		Dias:    q["dia"],
	})

	total := filtered.Sum()
	render.JSON(w, r, PaymentsResponse{
		Rows:  filtered.Rows,
		Count: filtered.Len(),
		Total: total,
		Monto: -total,
	})
}

// GetOptions handles GET /payments/options.
func (h *PaymentsHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context(), h.roots)
	if err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(http.StatusInternalServerError,
			"LOAD_FAILED", "Failed to load payment folders", err.Error()))
		return
	}
	render.JSON(w, r, opts)
}

// CreateForecast handles POST /forecast.
func (h *PaymentsHandler) CreateForecast(w http.ResponseWriter, r *http.Request) {
	var req services.ForecastRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"VALIDATION_FAILED", "Request validation failed", err.Error()))
		return
	}
	if !validFrequency(req.Frequency) {
		h.renderError(w, r, apierrors.ErrValidation("frequency", "must be empty, D, W or W-<DAY>"))
		return
	}

	result, err := h.service.Forecast(r.Context(), h.roots, req)
	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrTooFewPoints):
			h.renderError(w, r, apierrors.ErrTooLittleData)
		case errors.Is(err, forecast.ErrFitFailed):
			h.renderError(w, r, apierrors.ForecastFailedWithError(err))
		default:
			h.renderError(w, r, apierrors.NewWithDetails(http.StatusInternalServerError,
				"FORECAST_FAILED", "Forecast request failed", err.Error()))
		}
		return
	}
	render.JSON(w, r, result)
}

// UploadResponse reports one accepted archive.
type UploadResponse struct {
	Key   string   `json:"key"`
	Roots []string `json:"roots"`
	Rows  int      `json:"rows"`
}

// UploadArchive handles POST /uploads: a ZIP of report folders in the
// request body. The archive is extracted (cached by content), loaded
// once to report row counts, and stays available under the returned key.
func (h *PaymentsHandler) UploadArchive(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if int64(len(data)) > h.maxBody {
		h.renderError(w, r, apierrors.New(http.StatusRequestEntityTooLarge,
			"UPLOAD_TOO_LARGE", "Archive exceeds the configured size limit"))
		return
	}

	key, roots, err := h.archives.Extract(data)
	if err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_ARCHIVE", "Could not extract archive", err.Error()))
		return
	}

	table, err := h.service.Load(r.Context(), roots)
	if err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(http.StatusInternalServerError,
			"LOAD_FAILED", "Failed to load extracted archive", err.Error()))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{Key: key, Roots: roots, Rows: table.Len()})
}

// DeleteUpload handles DELETE /uploads/{key}, releasing the extracted
// storage.
func (h *PaymentsHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.renderError(w, r, apierrors.ErrValidation("key", "upload key is required"))
		return
	}
	if err := h.archives.Release(key); err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(http.StatusInternalServerError,
			"RELEASE_FAILED", "Failed to release upload", err.Error()))
		return
	}
	render.NoContent(w, r)
}

func (h *PaymentsHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	h.logger.WarnContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"status", apiErr.StatusCode,
		"code", apiErr.ErrorCode)
	if err := render.Render(w, r, apiErr); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// validFrequency accepts the calendars PrepareSeries understands.
func validFrequency(f forecast.Frequency) bool {
	if f == forecast.FreqNone || f == forecast.FreqDaily || f == forecast.FreqWeekly {
		return true
	}
	_, ok := f.Anchor()
	return ok
}
