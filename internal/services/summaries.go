package services

import (
	"slices"
	"strings"
	"time"

	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/models"
)

// computeSummaries reduces the full record set into the four summary
// tables. Grouping keys: customer id, product, sales rep, (year, month).
// All monetary totals sum Final_Revenue / Final_Profit, matching the
// exported summary CSV contract.
func computeSummaries(records []models.Sale) *PrecomputedData {
	return &PrecomputedData{
		Customers:    customerSummaries(records),
		Products:     productSummaries(records),
		Reps:         repSummaries(records),
		Monthly:      monthlySummaries(records),
		LastModified: time.Now(),
		RecordCount:  int64(len(records)),
	}
}

type customerAcc struct {
	revenue      float64
	quantity     int
	orders       int
	satisfaction float64
	returns      int
	region       string
	first        time.Time
	last         time.Time
}

func customerSummaries(records []models.Sale) []models.CustomerSummary {
	groups := make(map[string]*customerAcc)

	for _, s := range records {
		acc := groups[s.CustomerID]
		if acc == nil {
			// Records arrive in generation order, so the first row seen
			// supplies the customer's region.
			acc = &customerAcc{region: s.Region, first: s.Date, last: s.Date}
			groups[s.CustomerID] = acc
		}
		acc.revenue += s.FinalRevenue
		acc.quantity += s.Quantity
		acc.orders++
		acc.satisfaction += s.CustomerSatisfaction
		if s.IsReturned {
			acc.returns++
		}
		if s.Date.Before(acc.first) {
			acc.first = s.Date
		}
		if s.Date.After(acc.last) {
			acc.last = s.Date
		}
	}

	result := make([]models.CustomerSummary, 0, len(groups))
	for id, acc := range groups {
		result = append(result, models.CustomerSummary{
			CustomerID:      id,
			TotalRevenue:    generator.Round2(acc.revenue),
			TotalQuantity:   acc.quantity,
			TotalOrders:     acc.orders,
			AvgSatisfaction: generator.Round2(acc.satisfaction / float64(acc.orders)),
			ReturnsCount:    acc.returns,
			Region:          acc.region,
			FirstOrderDate:  acc.first,
			LastOrderDate:   acc.last,
		})
	}
	slices.SortFunc(result, func(a, b models.CustomerSummary) int {
		return strings.Compare(a.CustomerID, b.CustomerID)
	})
	return result
}

type productAcc struct {
	revenue      float64
	quantity     int
	orders       int
	margin       float64
	satisfaction float64
	returns      int
}

func productSummaries(records []models.Sale) []models.ProductSummary {
	groups := make(map[string]*productAcc)

	for _, s := range records {
		acc := groups[s.Product]
		if acc == nil {
			acc = &productAcc{}
			groups[s.Product] = acc
		}
		acc.revenue += s.FinalRevenue
		acc.quantity += s.Quantity
		acc.orders++
		acc.margin += s.FinalMargin
		acc.satisfaction += s.CustomerSatisfaction
		if s.IsReturned {
			acc.returns++
		}
	}

	result := make([]models.ProductSummary, 0, len(groups))
	for product, acc := range groups {
		n := float64(acc.orders)
		result = append(result, models.ProductSummary{
			Product:         product,
			TotalRevenue:    generator.Round2(acc.revenue),
			TotalQuantity:   acc.quantity,
			TotalOrders:     acc.orders,
			AvgMargin:       generator.Round2(acc.margin / n),
			AvgSatisfaction: generator.Round2(acc.satisfaction / n),
			ReturnRate:      generator.Round2(float64(acc.returns) / n * 100),
		})
	}
	slices.SortFunc(result, func(a, b models.ProductSummary) int {
		return strings.Compare(a.Product, b.Product)
	})
	return result
}

type repAcc struct {
	revenue      float64
	orders       int
	margin       float64
	satisfaction float64
	customers    map[string]struct{}
}

func repSummaries(records []models.Sale) []models.RepSummary {
	groups := make(map[string]*repAcc)

	for _, s := range records {
		acc := groups[s.SalesRep]
		if acc == nil {
			acc = &repAcc{customers: make(map[string]struct{})}
			groups[s.SalesRep] = acc
		}
		acc.revenue += s.FinalRevenue
		acc.orders++
		acc.margin += s.FinalMargin
		acc.satisfaction += s.CustomerSatisfaction
		acc.customers[s.CustomerID] = struct{}{}
	}

	result := make([]models.RepSummary, 0, len(groups))
	for rep, acc := range groups {
		n := float64(acc.orders)
		result = append(result, models.RepSummary{
			SalesRep:        rep,
			TotalRevenue:    generator.Round2(acc.revenue),
			TotalOrders:     acc.orders,
			AvgMargin:       generator.Round2(acc.margin / n),
			AvgSatisfaction: generator.Round2(acc.satisfaction / n),
			UniqueCustomers: len(acc.customers),
		})
	}
	slices.SortFunc(result, func(a, b models.RepSummary) int {
		return strings.Compare(a.SalesRep, b.SalesRep)
	})
	return result
}

type monthlyAcc struct {
	revenue   float64
	profit    float64
	orders    int
	units     int
	customers map[string]struct{}
}

func monthlySummaries(records []models.Sale) []models.MonthlySummary {
	type key struct {
		year  int
		month int
	}
	groups := make(map[key]*monthlyAcc)

	for _, s := range records {
		k := key{s.Year, s.Month}
		acc := groups[k]
		if acc == nil {
			acc = &monthlyAcc{customers: make(map[string]struct{})}
			groups[k] = acc
		}
		acc.revenue += s.FinalRevenue
		acc.profit += s.FinalProfit
		acc.orders++
		acc.units += s.Quantity
		acc.customers[s.CustomerID] = struct{}{}
	}

	result := make([]models.MonthlySummary, 0, len(groups))
	for k, acc := range groups {
		result = append(result, models.MonthlySummary{
			Year:            k.year,
			Month:           k.month,
			Revenue:         generator.Round2(acc.revenue),
			Profit:          generator.Round2(acc.profit),
			Orders:          acc.orders,
			UniqueCustomers: len(acc.customers),
			UnitsSold:       acc.units,
		})
	}
	slices.SortFunc(result, func(a, b models.MonthlySummary) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return a.Month - b.Month
	})
	return result
}
