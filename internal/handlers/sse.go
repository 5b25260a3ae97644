package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

var metricsTemplate = template.Must(template.New("metrics").Parse(`
<div id="metrics" class="metric-row">
<div class="metric-card"><span class="metric-label">Total Revenue</span><strong>${{printf "%.2f" .TotalRevenue}}</strong></div>
<div class="metric-card"><span class="metric-label">Total Orders</span><strong>{{.TotalOrders}}</strong></div>
<div class="metric-card"><span class="metric-label">Avg Order Value</span><strong>${{printf "%.2f" .AvgOrderValue}}</strong></div>
<div class="metric-card"><span class="metric-label">Products Sold</span><strong>{{.ProductsSold}}</strong></div>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderMetrics(overview models.Overview) (string, error) {
	var buf strings.Builder
	err := metricsTemplate.Execute(&buf, overview)
	return buf.String(), err
}

// HandleMetrics patches the headline metric cards for the current filter
// selection.
func (h *SSEHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	overview := services.OverviewOf(h.analytics.Filter(opts))
	html, err := h.renderMetrics(overview)
	if err != nil {
		h.logger.Error("render metrics", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleCharts pushes the chart datasets as signals; the page-side chart
// library redraws from them.
func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	records := h.analytics.Filter(opts)
	signals, err := json.Marshal(map[string]any{
		"monthlyData":   services.MonthlyRevenueOf(records),
		"regionsData":   services.RegionRevenueOf(records),
		"productsData":  services.ProductPerformanceOf(records),
		"repsData":      services.RepPerformanceOf(records),
		"quarterlyData": services.QuarterlyOf(records),
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	sse.PatchElements(`<div id="charts-status">Charts updated</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll recomputes metrics and charts in one stream, used on
// initial page load and whenever a filter widget changes.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilters(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	records := h.analytics.Filter(opts)

	html, err := h.renderMetrics(services.OverviewOf(records))
	if err != nil {
		h.logger.Error("render metrics", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"monthlyData":   services.MonthlyRevenueOf(records),
		"regionsData":   services.RegionRevenueOf(records),
		"productsData":  services.ProductPerformanceOf(records),
		"repsData":      services.RepPerformanceOf(records),
		"quarterlyData": services.QuarterlyOf(records),
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
