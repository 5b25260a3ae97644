package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/models"
)

// FilterOptions is the dashboard's filter set. Zero dates mean an open
// bound; empty slices select everything. Filters combine by conjunction.
type FilterOptions struct {
	Start      time.Time
	End        time.Time
	Regions    []string
	Categories []string
	Products   []string
}

func (o FilterOptions) Match(s models.Sale) bool {
	if !o.Start.IsZero() && s.Date.Before(o.Start) {
		return false
	}
	if !o.End.IsZero() && s.Date.After(o.End) {
		return false
	}
	if len(o.Regions) > 0 && !slices.Contains(o.Regions, s.Region) {
		return false
	}
	if len(o.Categories) > 0 && !slices.Contains(o.Categories, s.Category) {
		return false
	}
	if len(o.Products) > 0 && !slices.Contains(o.Products, s.Product) {
		return false
	}
	return true
}

// Filter returns the records matching opts, in generation order.
func (a *Analytics) Filter(opts FilterOptions) []models.Sale {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]models.Sale, 0, len(a.records))
	for _, s := range a.records {
		if opts.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// The aggregates below are pure functions over a record slice, so the same
// code serves both the unfiltered dashboard load and every filter change.

func OverviewOf(records []models.Sale) models.Overview {
	var revenue float64
	products := make(map[string]struct{})
	for _, s := range records {
		revenue += s.Revenue
		products[s.Product] = struct{}{}
	}

	avg := 0.0
	if len(records) > 0 {
		avg = revenue / float64(len(records))
	}

	return models.Overview{
		TotalRevenue:  generator.Round2(revenue),
		TotalOrders:   len(records),
		AvgOrderValue: generator.Round2(avg),
		ProductsSold:  len(products),
	}
}

// MonthlyRevenueOf aggregates gross revenue per calendar month, sorted
// chronologically for the trend chart.
func MonthlyRevenueOf(records []models.Sale) []models.MonthlyPoint {
	groups := make(map[string]float64)
	for _, s := range records {
		groups[fmt.Sprintf("%04d-%02d", s.Year, s.Month)] += s.Revenue
	}

	result := make([]models.MonthlyPoint, 0, len(groups))
	for month, revenue := range groups {
		result = append(result, models.MonthlyPoint{Month: month, Revenue: generator.Round2(revenue)})
	}
	slices.SortFunc(result, func(a, b models.MonthlyPoint) int {
		return strings.Compare(a.Month, b.Month)
	})
	return result
}

func RegionRevenueOf(records []models.Sale) []models.RegionRevenue {
	groups := make(map[string]*models.RegionRevenue)
	for _, s := range records {
		if groups[s.Region] == nil {
			groups[s.Region] = &models.RegionRevenue{Region: s.Region}
		}
		groups[s.Region].Revenue += s.Revenue
		groups[s.Region].ItemsSold += s.Quantity
	}

	result := make([]models.RegionRevenue, 0, len(groups))
	for _, rr := range groups {
		rr.Revenue = generator.Round2(rr.Revenue)
		result = append(result, *rr)
	}
	sortByRevenueDesc(result, func(r models.RegionRevenue) float64 { return r.Revenue })
	return result
}

func ProductPerformanceOf(records []models.Sale) []models.ProductPerformance {
	groups := make(map[string]*models.ProductPerformance)
	for _, s := range records {
		if groups[s.Product] == nil {
			groups[s.Product] = &models.ProductPerformance{Product: s.Product}
		}
		groups[s.Product].Revenue += s.Revenue
		groups[s.Product].Quantity += s.Quantity
	}

	result := make([]models.ProductPerformance, 0, len(groups))
	for _, pp := range groups {
		pp.Revenue = generator.Round2(pp.Revenue)
		result = append(result, *pp)
	}
	sortByRevenueDesc(result, func(p models.ProductPerformance) float64 { return p.Revenue })
	return result
}

func RepPerformanceOf(records []models.Sale) []models.RepPerformance {
	groups := make(map[string]*models.RepPerformance)
	for _, s := range records {
		if groups[s.SalesRep] == nil {
			groups[s.SalesRep] = &models.RepPerformance{SalesRep: s.SalesRep}
		}
		groups[s.SalesRep].Revenue += s.Revenue
		groups[s.SalesRep].Orders++
	}

	result := make([]models.RepPerformance, 0, len(groups))
	for _, rp := range groups {
		rp.Revenue = generator.Round2(rp.Revenue)
		result = append(result, *rp)
	}
	sortByRevenueDesc(result, func(r models.RepPerformance) float64 { return r.Revenue })
	return result
}

// QuarterlyOf aggregates per (year, quarter) in chronological order and
// derives the revenue growth rate against the previous quarter.
func QuarterlyOf(records []models.Sale) []models.QuarterlyPoint {
	type key struct {
		year    int
		quarter string
	}
	groups := make(map[key]*models.QuarterlyPoint)
	for _, s := range records {
		k := key{s.Year, s.Quarter}
		if groups[k] == nil {
			groups[k] = &models.QuarterlyPoint{
				Label:   fmt.Sprintf("%d %s", s.Year, s.Quarter),
				Year:    s.Year,
				Quarter: s.Quarter,
			}
		}
		groups[k].Revenue += s.Revenue
		groups[k].Quantity += s.Quantity
		groups[k].Orders++
	}

	result := make([]models.QuarterlyPoint, 0, len(groups))
	for _, qp := range groups {
		qp.Revenue = generator.Round2(qp.Revenue)
		result = append(result, *qp)
	}
	slices.SortFunc(result, func(a, b models.QuarterlyPoint) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return strings.Compare(a.Quarter, b.Quarter)
	})

	for i := 1; i < len(result); i++ {
		if prev := result[i-1].Revenue; prev > 0 {
			result[i].Growth = generator.Round2((result[i].Revenue - prev) / prev * 100)
		}
	}
	return result
}

func sortByRevenueDesc[T any](items []T, revenue func(T) float64) {
	slices.SortFunc(items, func(a, b T) int {
		ra, rb := revenue(a), revenue(b)
		if ra > rb {
			return -1
		}
		if ra < rb {
			return 1
		}
		return 0
	})
}
