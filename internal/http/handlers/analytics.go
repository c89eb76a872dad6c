package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"dreamvisualizer/internal/analytics"
	"dreamvisualizer/internal/domain"
)

const (
	defaultTopModels = 5
	maxTopModels     = 50
)

type timeseriesResponse struct {
	Metric string                   `json:"metric"`
	Points []domain.TimeseriesPoint `json:"points"`
}

type topModelsResponse struct {
	Models []domain.ModelUsage `json:"models"`
}

func (a *App) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := a.Analytics.Overview(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, ov)
}

func (a *App) AnalyticsTimeseries(w http.ResponseWriter, r *http.Request) {
	metric := strings.TrimSpace(r.URL.Query().Get("metric"))
	if metric == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "metric is required")
		return
	}
	points, err := a.Analytics.Timeseries(r.Context(), metric)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if points == nil {
		points = []domain.TimeseriesPoint{}
	}
	a.json(w, http.StatusOK, timeseriesResponse{Metric: metric, Points: points})
}

func (a *App) AnalyticsTopModels(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopModels
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopModels {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and 50")
			return
		}
		limit = n
	}
	models, err := a.Analytics.TopModels(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if models == nil {
		models = []domain.ModelUsage{}
	}
	a.json(w, http.StatusOK, topModelsResponse{Models: models})
}

// AnalyticsCSV exports raw events. The CSV is buffered so a failed scan still
// produces a JSON error instead of a truncated file.
func (a *App) AnalyticsCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := analytics.WriteCSV(r.Context(), a.EventLog, &buf); err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=analytics_events.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
