package services

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize    = 10000
	maxWorkers   = 10
	cacheVersion = "v1"
	cacheDir     = ".cache"

	datasetColumns = 28
)

// PrecomputedData holds the four summary tables derived from the full
// record set. Recomputed whenever the records change, never persisted
// independently of them.
type PrecomputedData struct {
	Customers    []models.CustomerSummary `json:"customers"`
	Products     []models.ProductSummary  `json:"products"`
	Reps         []models.RepSummary      `json:"reps"`
	Monthly      []models.MonthlySummary  `json:"monthly"`
	LastModified time.Time                `json:"last_modified"`
	RecordCount  int64                    `json:"record_count"`
}

type Analytics struct {
	mu               sync.RWMutex
	records          []models.Sale
	precomputed      *PrecomputedData
	csvPath          string
	recordsProcessed atomic.Int64
	logger           *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		precomputed: &PrecomputedData{},
		logger:      slog.Default(),
	}
}

// SetData replaces the record set and recomputes the summary tables.
func (a *Analytics) SetData(records []models.Sale) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = records
	a.precomputed = computeSummaries(records)
	a.recordsProcessed.Store(int64(len(records)))
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	a.csvPath = filename

	if cached, err := a.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) {
			a.SetData(cached.Records)
			a.logger.Info("loaded from cache", "records", len(cached.Records))
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing sales CSV", "filename", filename)

	records, err := a.streamProcessCSV(ctx, filename)
	if err != nil {
		return fmt.Errorf("process csv: %w", err)
	}
	a.SetData(records)

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	duration := time.Since(start)
	count := a.recordsProcessed.Load()
	a.logger.Info("csv processing complete",
		"records", count,
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(count)/duration.Seconds()))

	return nil
}

func (a *Analytics) streamProcessCSV(ctx context.Context, filename string) ([]models.Sale, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	// Skip header
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty file")
	}

	var records []models.Sale
	batch := make([]string, 0, batchSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		batch = append(batch, scanner.Text())

		if len(batch) >= batchSize {
			parsed, err := a.parseBatch(ctx, batch)
			if err != nil {
				return nil, err
			}
			records = append(records, parsed...)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		parsed, err := a.parseBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		records = append(records, parsed...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid records found")
	}

	return records, nil
}

// parseBatch parses lines in parallel but keeps input order, so a reloaded
// dataset preserves generation order for the first/last reductions.
func (a *Analytics) parseBatch(ctx context.Context, batch []string) ([]models.Sale, error) {
	parsed := make([]models.Sale, len(batch))
	valid := make([]bool, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, line := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			sale, err := parseSaleFast(strings.Split(line, ","))
			if err != nil {
				return nil // Skip invalid records
			}
			parsed[i] = sale
			valid[i] = true
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Sale, 0, len(batch))
	for i, ok := range valid {
		if ok {
			out = append(out, parsed[i])
		}
	}
	return out, nil
}

// parseSaleFast parses one dataset row. The sales CSV carries no embedded
// commas, so a plain split is safe and much cheaper than a full CSV reader.
func parseSaleFast(record []string) (models.Sale, error) {
	if len(record) < datasetColumns {
		return models.Sale{}, fmt.Errorf("insufficient columns: %d", len(record))
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[1]))
	if err != nil {
		return models.Sale{}, err
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(record[7]))
	if err != nil {
		return models.Sale{}, err
	}

	floats := make([]float64, 13)
	for i := range floats {
		floats[i], err = strconv.ParseFloat(strings.TrimSpace(record[8+i]), 64)
		if err != nil {
			return models.Sale{}, err
		}
	}

	deliveryDays, err := strconv.Atoi(strings.TrimSpace(record[21]))
	if err != nil {
		return models.Sale{}, err
	}

	isReturned, err := strconv.ParseBool(strings.TrimSpace(record[22]))
	if err != nil {
		return models.Sale{}, err
	}

	year, err := strconv.Atoi(strings.TrimSpace(record[23]))
	if err != nil {
		return models.Sale{}, err
	}

	month, err := strconv.Atoi(strings.TrimSpace(record[24]))
	if err != nil {
		return models.Sale{}, err
	}

	week, err := strconv.Atoi(strings.TrimSpace(record[27]))
	if err != nil {
		return models.Sale{}, err
	}

	return models.Sale{
		OrderID:              strings.TrimSpace(record[0]),
		Date:                 date,
		CustomerID:           strings.TrimSpace(record[2]),
		Product:              strings.TrimSpace(record[3]),
		Category:             strings.TrimSpace(record[4]),
		Region:               strings.TrimSpace(record[5]),
		SalesRep:             strings.TrimSpace(record[6]),
		Quantity:             quantity,
		UnitPrice:            floats[0],
		Revenue:              floats[1],
		Cost:                 floats[2],
		Profit:               floats[3],
		ProfitMargin:         floats[4],
		DiscountPercent:      floats[5],
		DiscountAmount:       floats[6],
		FinalRevenue:         floats[7],
		FinalProfit:          floats[8],
		FinalMargin:          floats[9],
		ShippingCost:         floats[10],
		TaxAmount:            floats[11],
		CustomerSatisfaction: floats[12],
		DeliveryDays:         deliveryDays,
		IsReturned:           isReturned,
		Year:                 year,
		Month:                month,
		Quarter:              strings.TrimSpace(record[25]),
		DayOfWeek:            strings.TrimSpace(record[26]),
		WeekNumber:           week,
	}, nil
}

// Cache management

type cachePayload struct {
	Records      []models.Sale
	LastModified time.Time
}

func (a *Analytics) getCacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func (a *Analytics) saveToCache(csvPath string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(a.getCacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()

	return gob.NewEncoder(file).Encode(cachePayload{
		Records:      a.records,
		LastModified: time.Now(),
	})
}

func (a *Analytics) loadFromCache(csvPath string) (*cachePayload, error) {
	file, err := os.Open(a.getCacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var payload cachePayload
	if err := gob.NewDecoder(file).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Records returns a copy of the full record set in generation order.
func (a *Analytics) Records() []models.Sale {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]models.Sale, len(a.records))
	copy(out, a.records)
	return out
}

// Summaries returns the four precomputed summary tables.
func (a *Analytics) Summaries() *PrecomputedData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed
}

func (a *Analytics) CustomerSummaries() []models.CustomerSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Customers
}

func (a *Analytics) ProductSummaries() []models.ProductSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Products
}

func (a *Analytics) RepSummaries() []models.RepSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Reps
}

func (a *Analytics) MonthlySummaries() []models.MonthlySummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Monthly
}

// Stats is a small monitoring snapshot for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   a.precomputed.RecordCount,
		"last_processed": a.precomputed.LastModified,
		"customers":      len(a.precomputed.Customers),
		"products":       len(a.precomputed.Products),
		"sales_reps":     len(a.precomputed.Reps),
		"months":         len(a.precomputed.Monthly),
	}
}
