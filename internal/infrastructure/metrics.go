package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, registered on the default registry and served by the
// /metrics endpoint in cmd/web.
var (
	// FilesParsed counts report workbooks that yielded a usable total block.
	FilesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagos_files_parsed_total",
		Help: "Number of report files successfully parsed into wide records.",
	})

	// FilesSkipped counts report workbooks excluded from a load, by reason.
	FilesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagos_files_skipped_total",
		Help: "Number of report files skipped during a load.",
	}, []string{"reason"})

	// FolderLoadDuration observes wall time of whole-folder loads.
	FolderLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagos_folder_load_duration_seconds",
		Help:    "Duration of folder load operations.",
		Buckets: prometheus.DefBuckets,
	})

	// ForecastFits counts forecast fits by model and outcome.
	ForecastFits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagos_forecast_fits_total",
		Help: "Number of forecast fits attempted.",
	}, []string{"model", "outcome"})
)
