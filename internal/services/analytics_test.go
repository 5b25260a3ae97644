package services

import (
	"context"
	"os"
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureSales() []models.Sale {
	return []models.Sale{
		{
			OrderID: "ORD_000001", Date: day(2023, 1, 15), CustomerID: "CUST_00001",
			Product: "Laptop", Category: "Electronics", Region: "North America",
			SalesRep: "John Smith", Quantity: 1,
			Revenue: 1000, FinalRevenue: 900, FinalProfit: 400, FinalMargin: 44.44,
			CustomerSatisfaction: 4.0, IsReturned: false,
			Year: 2023, Month: 1, Quarter: "Q1",
		},
		{
			OrderID: "ORD_000002", Date: day(2023, 1, 20), CustomerID: "CUST_00002",
			Product: "Laptop", Category: "Electronics", Region: "Europe",
			SalesRep: "Sarah Johnson", Quantity: 1,
			Revenue: 550, FinalRevenue: 500, FinalProfit: 200, FinalMargin: 40,
			CustomerSatisfaction: 3.0, IsReturned: false,
			Year: 2023, Month: 1, Quarter: "Q1",
		},
		{
			OrderID: "ORD_000003", Date: day(2023, 2, 10), CustomerID: "CUST_00001",
			Product: "Mouse", Category: "Accessories", Region: "North America",
			SalesRep: "John Smith", Quantity: 2,
			Revenue: 120, FinalRevenue: 100, FinalProfit: 40, FinalMargin: 40,
			CustomerSatisfaction: 5.0, IsReturned: true,
			Year: 2023, Month: 2, Quarter: "Q1",
		},
	}
}

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "test*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.precomputed == nil {
		t.Error("precomputed should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
}

func TestAnalytics_SetData(t *testing.T) {
	a := NewAnalytics()
	a.SetData(fixtureSales())

	if got := a.precomputed.RecordCount; got != 3 {
		t.Errorf("RecordCount = %d, want 3", got)
	}
	if got := len(a.Records()); got != 3 {
		t.Errorf("Records() length = %d, want 3", got)
	}
	if len(a.CustomerSummaries()) == 0 {
		t.Error("CustomerSummaries() should return data")
	}
	if len(a.ProductSummaries()) == 0 {
		t.Error("ProductSummaries() should return data")
	}
	if len(a.RepSummaries()) == 0 {
		t.Error("RepSummaries() should return data")
	}
	if len(a.MonthlySummaries()) == 0 {
		t.Error("MonthlySummaries() should return data")
	}
}

func TestAnalytics_CustomerSummaries(t *testing.T) {
	a := NewAnalytics()
	a.SetData(fixtureSales())

	customers := a.CustomerSummaries()
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}

	// Sorted by customer id ascending.
	first := customers[0]
	if first.CustomerID != "CUST_00001" {
		t.Fatalf("first customer = %q, want CUST_00001", first.CustomerID)
	}
	if first.TotalRevenue != 1000 {
		t.Errorf("TotalRevenue = %f, want 1000", first.TotalRevenue)
	}
	if first.TotalQuantity != 3 {
		t.Errorf("TotalQuantity = %d, want 3", first.TotalQuantity)
	}
	if first.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", first.TotalOrders)
	}
	if first.AvgSatisfaction != 4.5 {
		t.Errorf("AvgSatisfaction = %f, want 4.5", first.AvgSatisfaction)
	}
	if first.ReturnsCount != 1 {
		t.Errorf("ReturnsCount = %d, want 1", first.ReturnsCount)
	}
	if first.Region != "North America" {
		t.Errorf("Region = %q, want North America", first.Region)
	}
	if !first.FirstOrderDate.Equal(day(2023, 1, 15)) {
		t.Errorf("FirstOrderDate = %v, want 2023-01-15", first.FirstOrderDate)
	}
	if !first.LastOrderDate.Equal(day(2023, 2, 10)) {
		t.Errorf("LastOrderDate = %v, want 2023-02-10", first.LastOrderDate)
	}
}

func TestAnalytics_ProductSummaries(t *testing.T) {
	a := NewAnalytics()
	a.SetData(fixtureSales())

	products := a.ProductSummaries()
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	laptop := products[0]
	if laptop.Product != "Laptop" {
		t.Fatalf("first product = %q, want Laptop (sorted ascending)", laptop.Product)
	}
	if laptop.TotalRevenue != 1400 {
		t.Errorf("TotalRevenue = %f, want 1400", laptop.TotalRevenue)
	}
	if laptop.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", laptop.TotalOrders)
	}
	if laptop.AvgMargin != 42.22 {
		t.Errorf("AvgMargin = %f, want 42.22", laptop.AvgMargin)
	}
	if laptop.ReturnRate != 0 {
		t.Errorf("ReturnRate = %f, want 0", laptop.ReturnRate)
	}

	mouse := products[1]
	if mouse.ReturnRate != 100 {
		t.Errorf("mouse ReturnRate = %f, want 100", mouse.ReturnRate)
	}
}

func TestAnalytics_RepSummaries(t *testing.T) {
	a := NewAnalytics()
	a.SetData(fixtureSales())

	reps := a.RepSummaries()
	if len(reps) != 2 {
		t.Fatalf("got %d reps, want 2", len(reps))
	}

	// Sorted ascending by name: John Smith before Sarah Johnson.
	john := reps[0]
	if john.SalesRep != "John Smith" {
		t.Fatalf("first rep = %q, want John Smith", john.SalesRep)
	}
	if john.TotalRevenue != 1000 {
		t.Errorf("TotalRevenue = %f, want 1000", john.TotalRevenue)
	}
	if john.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", john.TotalOrders)
	}
	if john.UniqueCustomers != 1 {
		t.Errorf("UniqueCustomers = %d, want 1", john.UniqueCustomers)
	}
}

func TestAnalytics_MonthlySummaries(t *testing.T) {
	a := NewAnalytics()
	a.SetData(fixtureSales())

	months := a.MonthlySummaries()
	if len(months) != 2 {
		t.Fatalf("got %d months, want 2", len(months))
	}

	jan := months[0]
	if jan.Year != 2023 || jan.Month != 1 {
		t.Fatalf("first month = %d-%d, want 2023-1", jan.Year, jan.Month)
	}
	if jan.Revenue != 1400 {
		t.Errorf("January revenue = %f, want 1400", jan.Revenue)
	}
	if jan.Orders != 2 {
		t.Errorf("January orders = %d, want 2", jan.Orders)
	}
	if jan.UniqueCustomers != 2 {
		t.Errorf("January unique customers = %d, want 2", jan.UniqueCustomers)
	}

	feb := months[1]
	if feb.Month != 2 || feb.Revenue != 100 {
		t.Errorf("February = month %d revenue %f, want 2 / 100", feb.Month, feb.Revenue)
	}
}

func TestAnalytics_LoadFromCSV_ValidData(t *testing.T) {
	validCSV := `Order_ID,Date,Customer_ID,Product,Category,Region,Sales_Rep,Quantity,Unit_Price,Revenue,Cost,Profit,Profit_Margin,Discount_Percent,Discount_Amount,Final_Revenue,Final_Profit,Final_Margin,Shipping_Cost,Tax_Amount,Customer_Satisfaction,Delivery_Days,Is_Returned,Year,Month,Quarter,Day_of_Week,Week_Number
ORD_000001,2023-01-15,CUST_00001,Laptop,Electronics,North America,John Smith,1,999.99,999.99,500.00,499.99,50.00,0.00,0.00,999.99,499.99,50.00,5.50,80.00,4.50,3,false,2023,1,Q1,Sunday,2
ORD_000002,2023-02-10,CUST_00002,Mouse,Accessories,Europe,Sarah Johnson,2,30.00,60.00,30.00,30.00,50.00,10.00,6.00,54.00,24.00,44.44,12.00,8.10,3.80,5,true,2023,2,Q1,Friday,6`

	f := createTempCSV(t, validCSV)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() with valid data should not error, got: %v", err)
	}

	records := a.Records()
	if len(records) != 2 {
		t.Fatalf("loaded %d records, want 2", len(records))
	}
	if records[0].OrderID != "ORD_000001" {
		t.Errorf("first order id = %q", records[0].OrderID)
	}
	if records[1].IsReturned != true {
		t.Error("second record should be returned")
	}
	if len(a.ProductSummaries()) != 2 {
		t.Errorf("got %d product summaries, want 2", len(a.ProductSummaries()))
	}
}

func TestAnalytics_LoadFromCSV_InvalidData(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr bool
	}{
		{
			name:    "missing file",
			csv:     "", // handled below
			wantErr: true,
		},
		{
			name:    "header only",
			csv:     "h1,h2,h3",
			wantErr: true,
		},
		{
			name:    "too few columns",
			csv:     "header\nORD_000001,2023-01-15,CUST_00001",
			wantErr: true,
		},
		{
			name:    "invalid date",
			csv:     "header\nORD_000001,not-a-date,CUST_00001,Laptop,Electronics,North America,John Smith,1,1,1,1,1,1,0,0,1,1,1,1,1,4.5,3,false,2023,1,Q1,Sunday,2",
			wantErr: true,
		},
		{
			name:    "invalid quantity",
			csv:     "header\nORD_000001,2023-01-15,CUST_00001,Laptop,Electronics,North America,John Smith,x,1,1,1,1,1,0,0,1,1,1,1,1,4.5,3,false,2023,1,Q1,Sunday,2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalytics()

			var err error
			if tt.name == "missing file" {
				err = a.LoadFromCSV(context.Background(), "does/not/exist.csv")
			} else {
				err = a.LoadFromCSV(context.Background(), createTempCSV(t, tt.csv))
			}

			if (err != nil) != tt.wantErr {
				t.Errorf("LoadFromCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalytics_EmptyData(t *testing.T) {
	a := NewAnalytics()

	if got := a.CustomerSummaries(); len(got) != 0 {
		t.Errorf("CustomerSummaries() on empty data has length %d", len(got))
	}
	if got := a.ProductSummaries(); len(got) != 0 {
		t.Errorf("ProductSummaries() on empty data has length %d", len(got))
	}
	if got := a.Filter(FilterOptions{}); len(got) != 0 {
		t.Errorf("Filter() on empty data has length %d", len(got))
	}
}

func TestAnalytics_ConcurrentAccess(t *testing.T) {
	a := NewAnalytics()
	a.SetData(fixtureSales())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			_ = a.CustomerSummaries()
			_ = a.ProductSummaries()
			_ = a.RepSummaries()
			_ = a.MonthlySummaries()
			_ = a.Filter(FilterOptions{Regions: []string{"Europe"}})
			_ = a.Stats()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func BenchmarkAnalytics_SetData(b *testing.B) {
	base := fixtureSales()
	data := make([]models.Sale, 0, 3000)
	for i := 0; i < 1000; i++ {
		data = append(data, base...)
	}

	a := NewAnalytics()
	b.ResetTimer()
	for b.Loop() {
		a.SetData(data)
	}
}
