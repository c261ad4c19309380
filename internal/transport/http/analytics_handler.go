package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "ssicli/internal/errors"
	"ssicli/internal/ssi"
)

// AnalyticsHandler serves the analysis snapshot computed at startup. The
// snapshot is immutable; recomputation is a process restart.
type AnalyticsHandler struct {
	analysis *ssi.Analysis
	records  []ssi.CanonicalRecord
	params   ssi.Params
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAnalyticsHandler creates the handler around a completed analysis. The
// canonical records are retained so /api/comparison can split at an
// arbitrary cutover date.
func NewAnalyticsHandler(analysis *ssi.Analysis, records []ssi.CanonicalRecord, params ssi.Params, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analysis: analysis,
		records:  records,
		params:   params,
		logger:   logger,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the reporting routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.GetHealth)
	r.Get("/summary", h.GetSummary)
	r.Get("/temporal", h.GetTemporal)
	r.Get("/categories", h.GetCategories)
	r.Get("/pareto", h.GetPareto)
	r.Get("/comparison", h.GetComparison)
	r.Get("/trend", h.GetTrend)
}

// GetHealth reports service liveness and which analysis run is being served
func (h *AnalyticsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":       "healthy",
		"run_id":       h.analysis.RunID,
		"generated_at": h.analysis.GeneratedAt,
		"record_count": h.analysis.RecordCount,
	})
}

// GetSummary returns the complete analysis snapshot
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.analysis)
}

// GetTemporal returns the temporal buckets for the requested granularity.
// Defaults to monthly.
func (h *AnalyticsHandler) GetTemporal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	granularity := r.URL.Query().Get("granularity")
	if granularity == "" {
		granularity = string(ssi.GranularityMonth)
	}
	if err := h.validate.Var(granularity, "oneof=month quarter"); err != nil {
		h.logger.WarnContext(ctx, "invalid granularity requested",
			slog.String("granularity", granularity))
		render.Render(w, r, apierrors.InvalidParameter("granularity", "use month or quarter"))
		return
	}

	buckets := h.analysis.Monthly
	if ssi.Granularity(granularity) == ssi.GranularityQuarter {
		buckets = h.analysis.Quarterly
	}

	render.JSON(w, r, map[string]interface{}{
		"granularity": granularity,
		"buckets":     buckets,
	})
}

// GetCategories returns the per-category metrics
func (h *AnalyticsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"categories": h.analysis.Categories,
	})
}

// GetPareto returns the Pareto ranking
func (h *AnalyticsHandler) GetPareto(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"threshold": h.params.ParetoThreshold,
		"entries":   h.analysis.Pareto,
	})
}

// GetComparison returns the pre/post test battery. An optional cutover
// query parameter (YYYY-MM-DD) re-splits the records at that date; without
// it the default median-date comparison from the snapshot is served.
func (h *AnalyticsHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.URL.Query().Get("cutover")
	if raw == "" {
		if h.analysis.Comparison == nil {
			render.Render(w, r, apierrors.InsufficientData("too little data for a pre/post comparison"))
			return
		}
		render.JSON(w, r, h.analysis.Comparison)
		return
	}

	cutover, err := time.Parse("2006-01-02", raw)
	if err != nil {
		render.Render(w, r, apierrors.InvalidParameter("cutover", "use YYYY-MM-DD"))
		return
	}

	comparison, err := ssi.CompareAt(h.records, cutover, h.params)
	if err != nil {
		h.logger.WarnContext(ctx, "comparison unavailable at requested cutover",
			slog.String("cutover", raw),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.InsufficientData(err.Error()))
		return
	}

	render.JSON(w, r, comparison)
}

// GetTrend returns the monthly trend regression
func (h *AnalyticsHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	if h.analysis.Trend == nil {
		render.Render(w, r, apierrors.InsufficientData("too few periods for a trend test"))
		return
	}
	render.JSON(w, r, h.analysis.Trend)
}
