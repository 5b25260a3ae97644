package models

import "time"

// Sale is one generated transaction. All currency and percentage fields are
// rounded to two decimals when the record is assembled, so the values here
// are exactly what lands in the CSV output.
type Sale struct {
	OrderID              string    `json:"order_id"`
	Date                 time.Time `json:"date"`
	CustomerID           string    `json:"customer_id"`
	Product              string    `json:"product"`
	Category             string    `json:"category"`
	Region               string    `json:"region"`
	SalesRep             string    `json:"sales_rep"`
	Quantity             int       `json:"quantity"`
	UnitPrice            float64   `json:"unit_price"`
	Revenue              float64   `json:"revenue"`
	Cost                 float64   `json:"cost"`
	Profit               float64   `json:"profit"`
	ProfitMargin         float64   `json:"profit_margin"`
	DiscountPercent      float64   `json:"discount_percent"`
	DiscountAmount       float64   `json:"discount_amount"`
	FinalRevenue         float64   `json:"final_revenue"`
	FinalProfit          float64   `json:"final_profit"`
	FinalMargin          float64   `json:"final_margin"`
	ShippingCost         float64   `json:"shipping_cost"`
	TaxAmount            float64   `json:"tax_amount"`
	CustomerSatisfaction float64   `json:"customer_satisfaction"`
	DeliveryDays         int       `json:"delivery_days"`
	IsReturned           bool      `json:"is_returned"`
	Year                 int       `json:"year"`
	Month                int       `json:"month"`
	Quarter              string    `json:"quarter"`
	DayOfWeek            string    `json:"day_of_week"`
	WeekNumber           int       `json:"week_number"`
}

type CustomerSummary struct {
	CustomerID      string    `json:"customer_id"`
	TotalRevenue    float64   `json:"total_revenue"`
	TotalQuantity   int       `json:"total_quantity"`
	TotalOrders     int       `json:"total_orders"`
	AvgSatisfaction float64   `json:"avg_satisfaction"`
	ReturnsCount    int       `json:"returns_count"`
	Region          string    `json:"region"`
	FirstOrderDate  time.Time `json:"first_order_date"`
	LastOrderDate   time.Time `json:"last_order_date"`
}

type ProductSummary struct {
	Product         string  `json:"product"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalQuantity   int     `json:"total_quantity"`
	TotalOrders     int     `json:"total_orders"`
	AvgMargin       float64 `json:"avg_margin"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	ReturnRate      float64 `json:"return_rate"`
}

type RepSummary struct {
	SalesRep        string  `json:"sales_rep"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	AvgMargin       float64 `json:"avg_margin"`
	AvgSatisfaction float64 `json:"avg_customer_satisfaction"`
	UniqueCustomers int     `json:"unique_customers"`
}

type MonthlySummary struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	Orders          int     `json:"orders"`
	UniqueCustomers int     `json:"unique_customers"`
	UnitsSold       int     `json:"units_sold"`
}

// Overview holds the headline metrics shown at the top of the dashboard.
type Overview struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalOrders   int     `json:"total_orders"`
	AvgOrderValue float64 `json:"avg_order_value"`
	ProductsSold  int     `json:"products_sold"`
}

type MonthlyPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type RegionRevenue struct {
	Region    string  `json:"region"`
	Revenue   float64 `json:"total_revenue"`
	ItemsSold int     `json:"items_sold"`
}

type ProductPerformance struct {
	Product  string  `json:"product"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
}

type RepPerformance struct {
	SalesRep string  `json:"sales_rep"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

type QuarterlyPoint struct {
	Label    string  `json:"label"`
	Year     int     `json:"year"`
	Quarter  string  `json:"quarter"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
	Orders   int     `json:"orders"`
	Growth   float64 `json:"growth"`
}
