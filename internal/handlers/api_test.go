package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	a.SetData([]models.Sale{
		{
			OrderID: "ORD_000001", Date: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			CustomerID: "CUST_00001", Product: "Laptop", Category: "Electronics",
			Region: "North America", SalesRep: "John Smith", Quantity: 1,
			Revenue: 1000, FinalRevenue: 900, FinalProfit: 400,
			CustomerSatisfaction: 4.0, Year: 2023, Month: 1, Quarter: "Q1",
		},
		{
			OrderID: "ORD_000002", Date: time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC),
			CustomerID: "CUST_00002", Product: "Mouse", Category: "Accessories",
			Region: "Europe", SalesRep: "Sarah Johnson", Quantity: 2,
			Revenue: 120, FinalRevenue: 100, FinalProfit: 40,
			CustomerSatisfaction: 4.5, Year: 2023, Month: 2, Quarter: "Q1",
		},
	})
	return a
}

func newTestAPIHandlers() *APIHandlers {
	return NewAPIHandlers(testAnalytics(), testLogger())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

func TestHandleOverview(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/api/overview", nil)
	rec := httptest.NewRecorder()
	h.HandleOverview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatal("success = false")
	}

	var overview models.Overview
	if err := json.Unmarshal(env.Data, &overview); err != nil {
		t.Fatal(err)
	}
	if overview.TotalRevenue != 1120 {
		t.Errorf("TotalRevenue = %f, want 1120", overview.TotalRevenue)
	}
	if overview.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", overview.TotalOrders)
	}
}

func TestHandleOverview_Filtered(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/api/overview?regions=Europe", nil)
	rec := httptest.NewRecorder()
	h.HandleOverview(rec, req)

	env := decodeEnvelope(t, rec)
	var overview models.Overview
	if err := json.Unmarshal(env.Data, &overview); err != nil {
		t.Fatal(err)
	}
	if overview.TotalOrders != 1 {
		t.Errorf("TotalOrders = %d, want 1 after region filter", overview.TotalOrders)
	}
	if overview.TotalRevenue != 120 {
		t.Errorf("TotalRevenue = %f, want 120", overview.TotalRevenue)
	}
}

func TestHandleOverview_InvalidFilters(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad start date", "/api/overview?start=15-01-2023"},
		{"bad end date", "/api/overview?end=garbage"},
		{"end before start", "/api/overview?start=2023-06-01&end=2023-01-01"},
	}

	h := newTestAPIHandlers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()
			h.HandleOverview(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Success {
				t.Error("success should be false")
			}
			if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
				t.Errorf("error envelope = %+v, want BAD_REQUEST", env.Error)
			}
		})
	}
}

func TestHandleMonthlyRevenue(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/api/monthly-revenue", nil)
	rec := httptest.NewRecorder()
	h.HandleMonthlyRevenue(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var points []models.MonthlyPoint
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &points); err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Month != "2023-01" {
		t.Errorf("first month = %q, want 2023-01", points[0].Month)
	}
}

func TestHandleRegionRevenue(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/api/region-revenue", nil)
	rec := httptest.NewRecorder()
	h.HandleRegionRevenue(rec, req)

	var regions []models.RegionRevenue
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &regions); err != nil {
		t.Fatal(err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	// Revenue descending.
	if regions[0].Region != "North America" {
		t.Errorf("first region = %q, want North America", regions[0].Region)
	}
}

func TestHandleQuarterly(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/api/quarterly", nil)
	rec := httptest.NewRecorder()
	h.HandleQuarterly(rec, req)

	var quarters []models.QuarterlyPoint
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &quarters); err != nil {
		t.Fatal(err)
	}
	if len(quarters) != 1 {
		t.Fatalf("got %d quarters, want 1", len(quarters))
	}
	if quarters[0].Label != "2023 Q1" {
		t.Errorf("label = %q, want 2023 Q1", quarters[0].Label)
	}
}

func TestHandleRecords(t *testing.T) {
	h := newTestAPIHandlers()

	t.Run("default limit", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/records", nil)
		rec := httptest.NewRecorder()
		h.HandleRecords(rec, req)

		var records []models.Sale
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &records); err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 {
			t.Errorf("got %d records, want 2", len(records))
		}
	})

	t.Run("explicit limit", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/records?limit=1", nil)
		rec := httptest.NewRecorder()
		h.HandleRecords(rec, req)

		var records []models.Sale
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &records); err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
		if records[0].OrderID != "ORD_000001" {
			t.Errorf("first record = %q", records[0].OrderID)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		for _, v := range []string{"0", "-5", "abc"} {
			req := httptest.NewRequest("GET", "/api/records?limit="+v, nil)
			rec := httptest.NewRecorder()
			h.HandleRecords(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("limit=%s: status = %d, want 400", v, rec.Code)
			}
		}
	})
}

func TestHandleExport(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/api/export", nil)
	rec := httptest.NewRecorder()
	h.HandleExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "sales_data_filtered_") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 records", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Order_ID,Date,Customer_ID") {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestHandleSummaries(t *testing.T) {
	h := newTestAPIHandlers()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"customers", h.HandleCustomerSummary},
		{"products", h.HandleProductSummary},
		{"reps", h.HandleRepSummary},
		{"monthly", h.HandleMonthlySummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/summary/"+tt.name, nil)
			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var rows []json.RawMessage
			if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &rows); err != nil {
				t.Fatal(err)
			}
			if len(rows) != 2 {
				t.Errorf("got %d rows, want 2", len(rows))
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var data map[string]string
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", data["status"])
	}
}

func TestHandleStats(t *testing.T) {
	h := newTestAPIHandlers()

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats["record_count"] != float64(2) {
		t.Errorf("record_count = %v, want 2", stats["record_count"])
	}
}

func TestSplitParam(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Europe", []string{"Europe"}},
		{"Europe,Asia Pacific", []string{"Europe", "Asia Pacific"}},
		{" Europe , , Latin America ", []string{"Europe", "Latin America"}},
	}

	for _, tt := range tests {
		got := splitParam(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitParam(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitParam(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
