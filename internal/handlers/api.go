package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const (
	cacheControl = "public, max-age=300"

	defaultRecordLimit = 100
	maxRecordLimit     = 1000
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// parseFilters reads the dashboard filter set from the query string:
// start/end as ISO dates, regions/categories/products as comma-separated
// lists. Absent parameters leave the corresponding filter open.
func parseFilters(r *http.Request) (services.FilterOptions, error) {
	var opts services.FilterOptions
	q := r.URL.Query()

	if v := q.Get("start"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return opts, errors.BadRequestWrap(err, "invalid start date, expected YYYY-MM-DD")
		}
		opts.Start = start
	}

	if v := q.Get("end"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return opts, errors.BadRequestWrap(err, "invalid end date, expected YYYY-MM-DD")
		}
		opts.End = end
	}

	if !opts.Start.IsZero() && !opts.End.IsZero() && opts.End.Before(opts.Start) {
		return opts, errors.BadRequest("end date before start date")
	}

	opts.Regions = splitParam(q.Get("regions"))
	opts.Categories = splitParam(q.Get("categories"))
	opts.Products = splitParam(q.Get("products"))

	return opts, nil
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := services.OverviewOf(h.analytics.Filter(opts))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := services.MonthlyRevenueOf(h.analytics.Filter(opts))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleRegionRevenue(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := services.RegionRevenueOf(h.analytics.Filter(opts))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleProductPerformance(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := services.ProductPerformanceOf(h.analytics.Filter(opts))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleRepPerformance(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := services.RepPerformanceOf(h.analytics.Filter(opts))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleQuarterly(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	data := services.QuarterlyOf(h.analytics.Filter(opts))
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

// HandleRecords returns a page of filtered raw records for the preview
// table.
func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	limit := defaultRecordLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errors.WriteError(w, h.logger, errors.BadRequest("limit must be a positive integer"),
				observability.GetRequestID(r.Context()))
			return
		}
		limit = min(n, maxRecordLimit)
	}

	records := h.analytics.Filter(opts)
	if len(records) > limit {
		records = records[:limit]
	}

	errors.WriteSuccess(w, records)
}

// HandleExport streams the filtered records as a CSV download.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	records := h.analytics.Filter(opts)

	filename := fmt.Sprintf("sales_data_filtered_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteDataset(w, records); err != nil {
		h.logger.Error("export failed", "error", err,
			"request_id", observability.GetRequestID(r.Context()))
	}
}

func (h *APIHandlers) HandleCustomerSummary(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.CustomerSummaries(),
		map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleProductSummary(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.ProductSummaries(),
		map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleRepSummary(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.RepSummaries(),
		map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.MonthlySummaries(),
		map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
