// Package catalog holds the fixed business reference data the generator
// samples from: the product catalog, the regions with their pricing and
// logistics parameters, and the sales rep roster.
package catalog

import "fmt"

type Region struct {
	Name            string
	Weight          float64
	PriceMultiplier float64
	ShippingMin     float64
	ShippingMax     float64
	TaxRate         float64
	DeliveryMinDays int
	DeliveryMaxDays int
}

type Rep struct {
	Name        string
	Weight      float64
	Performance float64
}

var Products = []string{
	"Laptop", "Desktop", "Monitor", "Keyboard",
	"Mouse", "Printer", "Scanner", "Tablet",
}

var basePrices = map[string]float64{
	"Laptop":   800,
	"Desktop":  600,
	"Monitor":  300,
	"Keyboard": 50,
	"Mouse":    25,
	"Printer":  150,
	"Scanner":  200,
	"Tablet":   400,
}

// Category is a function of the product, never sampled on its own.
var productCategories = map[string]string{
	"Laptop":   "Electronics",
	"Desktop":  "Electronics",
	"Monitor":  "Electronics",
	"Tablet":   "Electronics",
	"Keyboard": "Accessories",
	"Mouse":    "Accessories",
	"Printer":  "Peripherals",
	"Scanner":  "Peripherals",
}

// Regions carry a non-uniform sampling weight plus the pricing, shipping,
// tax, and delivery parameters tied to each market. North America is the
// primary market: cheapest shipping, lowest tax, fastest delivery.
var Regions = []Region{
	{"North America", 0.35, 1.2, 2, 10, 0.08, 1, 5},
	{"Europe", 0.25, 1.1, 5, 25, 0.15, 3, 8},
	{"Asia Pacific", 0.20, 0.9, 5, 25, 0.15, 5, 12},
	{"South America", 0.15, 0.8, 5, 25, 0.15, 7, 15},
	{"Africa", 0.05, 0.7, 5, 25, 0.15, 10, 20},
}

// Reps are weighted by how much volume they close; Performance feeds both
// the unit price and the satisfaction model.
var Reps = []Rep{
	{"John Smith", 0.15, 1.15},
	{"Sarah Johnson", 0.12, 1.12},
	{"Mike Wilson", 0.11, 1.08},
	{"Lisa Brown", 0.10, 1.05},
	{"Tom Davis", 0.10, 1.03},
	{"Maria Garcia", 0.09, 1.10},
	{"David Chen", 0.09, 1.07},
	{"Emma Thompson", 0.08, 1.06},
	{"Carlos Rodriguez", 0.08, 1.04},
	{"Anna Petrov", 0.08, 1.09},
}

// CustomerCount is the size of the fixed customer pool.
const CustomerCount = 1000

func BasePrice(product string) float64 {
	return basePrices[product]
}

func CategoryOf(product string) string {
	return productCategories[product]
}

// Categories returns the distinct category names in catalog order.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range Products {
		c := productCategories[p]
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// CustomerID formats the identifier for the nth customer, 1-based.
func CustomerID(n int) string {
	return fmt.Sprintf("CUST_%05d", n)
}

// OrderID formats the identifier for the nth order, 1-based.
func OrderID(n int) string {
	return fmt.Sprintf("ORD_%06d", n)
}
