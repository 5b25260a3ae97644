// Package export serializes the dataset and the four summary tables as
// comma-separated files with header rows and ISO dates. Output files are
// overwritten on every run.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	DatasetFile         = "sales_data.csv"
	CustomerSummaryFile = "customer_summary.csv"
	ProductSummaryFile  = "product_performance.csv"
	RepSummaryFile      = "sales_rep_performance.csv"
	MonthlySummaryFile  = "monthly_summary.csv"
)

var datasetHeader = []string{
	"Order_ID", "Date", "Customer_ID", "Product", "Category", "Region",
	"Sales_Rep", "Quantity", "Unit_Price", "Revenue", "Cost", "Profit",
	"Profit_Margin", "Discount_Percent", "Discount_Amount", "Final_Revenue",
	"Final_Profit", "Final_Margin", "Shipping_Cost", "Tax_Amount",
	"Customer_Satisfaction", "Delivery_Days", "Is_Returned", "Year", "Month",
	"Quarter", "Day_of_Week", "Week_Number",
}

// WriteAll writes the five output files into dir, one goroutine per file.
func WriteAll(ctx context.Context, dir string, records []models.Sale, summaries *services.PrecomputedData) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		return writeFile(filepath.Join(dir, DatasetFile), func(w io.Writer) error {
			return WriteDataset(w, records)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, CustomerSummaryFile), func(w io.Writer) error {
			return WriteCustomerSummary(w, summaries.Customers)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, ProductSummaryFile), func(w io.Writer) error {
			return WriteProductSummary(w, summaries.Products)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, RepSummaryFile), func(w io.Writer) error {
			return WriteRepSummary(w, summaries.Reps)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, MonthlySummaryFile), func(w io.Writer) error {
			return WriteMonthlySummary(w, summaries.Monthly)
		})
	})

	return g.Wait()
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// WriteDataset writes the primary dataset, one row per transaction, in
// generation order.
func WriteDataset(w io.Writer, records []models.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(datasetHeader); err != nil {
		return err
	}
	for _, s := range records {
		row := []string{
			s.OrderID,
			isoDate(s.Date),
			s.CustomerID,
			s.Product,
			s.Category,
			s.Region,
			s.SalesRep,
			strconv.Itoa(s.Quantity),
			money(s.UnitPrice),
			money(s.Revenue),
			money(s.Cost),
			money(s.Profit),
			money(s.ProfitMargin),
			money(s.DiscountPercent),
			money(s.DiscountAmount),
			money(s.FinalRevenue),
			money(s.FinalProfit),
			money(s.FinalMargin),
			money(s.ShippingCost),
			money(s.TaxAmount),
			money(s.CustomerSatisfaction),
			strconv.Itoa(s.DeliveryDays),
			strconv.FormatBool(s.IsReturned),
			strconv.Itoa(s.Year),
			strconv.Itoa(s.Month),
			s.Quarter,
			s.DayOfWeek,
			strconv.Itoa(s.WeekNumber),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCustomerSummary(w io.Writer, customers []models.CustomerSummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Customer_ID", "Total_Revenue", "Total_Quantity", "Total_Orders",
		"Avg_Satisfaction", "Returns_Count", "Region", "First_Order_Date",
		"Last_Order_Date",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range customers {
		row := []string{
			c.CustomerID,
			money(c.TotalRevenue),
			strconv.Itoa(c.TotalQuantity),
			strconv.Itoa(c.TotalOrders),
			money(c.AvgSatisfaction),
			strconv.Itoa(c.ReturnsCount),
			c.Region,
			isoDate(c.FirstOrderDate),
			isoDate(c.LastOrderDate),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteProductSummary(w io.Writer, products []models.ProductSummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Product", "Total_Revenue", "Total_Quantity", "Total_Orders",
		"Avg_Margin", "Avg_Satisfaction", "Return_Rate",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range products {
		row := []string{
			p.Product,
			money(p.TotalRevenue),
			strconv.Itoa(p.TotalQuantity),
			strconv.Itoa(p.TotalOrders),
			money(p.AvgMargin),
			money(p.AvgSatisfaction),
			money(p.ReturnRate),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteRepSummary(w io.Writer, reps []models.RepSummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Sales_Rep", "Total_Revenue", "Total_Orders", "Avg_Margin",
		"Avg_Customer_Satisfaction", "Unique_Customers",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range reps {
		row := []string{
			r.SalesRep,
			money(r.TotalRevenue),
			strconv.Itoa(r.TotalOrders),
			money(r.AvgMargin),
			money(r.AvgSatisfaction),
			strconv.Itoa(r.UniqueCustomers),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthlySummary writes one row per (year, month); the Date column is
// the first day of that month.
func WriteMonthlySummary(w io.Writer, months []models.MonthlySummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Year", "Month", "Revenue", "Profit", "Orders", "Unique_Customers",
		"Units_Sold", "Date",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range months {
		first := time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
		row := []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(m.Month),
			money(m.Revenue),
			money(m.Profit),
			strconv.Itoa(m.Orders),
			strconv.Itoa(m.UniqueCustomers),
			strconv.Itoa(m.UnitsSold),
			isoDate(first),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
