// Package generator produces the synthetic sales dataset. The model is a
// multi-factor stochastic one: daily order volume follows a seasonal
// sinusoid with holiday/summer/slowdown overrides, a weekday effect, and a
// linear growth trend; each order samples product, region, rep, and
// customer, then derives the financial fields from them.
//
// Given the same Config (seed included) the generator emits an identical
// record sequence on every run. The random stream is owned by the Generator
// value, not by package-global state.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/catalog"
	"sales-dashboard/internal/models"
)

const (
	seasonalAmplitude = 0.3
	weekdayFactor     = 1.2
	weekendFactor     = 0.8
	annualGrowth      = 0.15

	bulkOrderChance = 0.1
	discountChance  = 0.2
)

type Config struct {
	Seed            int64
	Start           time.Time
	End             time.Time
	BaseDailyOrders int
	// DayStride generates every Nth calendar day. 1 covers the whole
	// range; the dashboard fallback uses 3 for a lighter dataset.
	DayStride int
}

// DefaultConfig is the full dataset: three calendar years at the standard
// base rate.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		Start:           time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		BaseDailyOrders: 15,
		DayStride:       1,
	}
}

// SampleConfig is the reduced invocation used when the dashboard has no CSV
// to load. Same model, smaller base rate, every third day.
func SampleConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseDailyOrders = 8
	cfg.DayStride = 3
	return cfg
}

func (c Config) Validate() error {
	if c.End.Before(c.Start) {
		return fmt.Errorf("end date %s before start date %s",
			c.End.Format("2006-01-02"), c.Start.Format("2006-01-02"))
	}
	if c.BaseDailyOrders < 1 {
		return fmt.Errorf("base daily orders must be at least 1, got %d", c.BaseDailyOrders)
	}
	if c.DayStride < 1 {
		return fmt.Errorf("day stride must be at least 1, got %d", c.DayStride)
	}
	return nil
}

type Generator struct {
	cfg Config
	rng *rand.Rand
}

func New(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate walks the date range in order and assembles one record per
// sampled order. Order ids are sequential from ORD_000001 with no gaps.
func (g *Generator) Generate() []models.Sale {
	var sales []models.Sale
	orderID := 1

	for date := g.cfg.Start; !date.After(g.cfg.End); date = date.AddDate(0, 0, g.cfg.DayStride) {
		mean := float64(g.cfg.BaseDailyOrders) *
			seasonalFactor(date) *
			dayFactor(date) *
			growthFactor(date.Sub(g.cfg.Start))

		// Never an empty day: the Poisson draw is floored at 1.
		count := g.poisson(mean)
		if count < 1 {
			count = 1
		}

		for i := 0; i < count; i++ {
			sales = append(sales, g.sale(date, orderID))
			orderID++
		}
	}

	return sales
}

// seasonalFactor is a sinusoid over the day of year with multiplicative
// month overrides: holiday season, summer sales, post-holiday slowdown.
// The month sets are disjoint so at most one override applies.
func seasonalFactor(date time.Time) float64 {
	factor := 1 + seasonalAmplitude*math.Sin(2*math.Pi*float64(date.YearDay())/365)

	switch date.Month() {
	case time.November, time.December:
		factor *= 1.8
	case time.June, time.July:
		factor *= 1.3
	case time.January, time.February:
		factor *= 0.7
	}
	return factor
}

func dayFactor(date time.Time) float64 {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return weekendFactor
	default:
		return weekdayFactor
	}
}

func growthFactor(sinceStart time.Duration) float64 {
	days := sinceStart.Hours() / 24
	return 1 + (days/365)*annualGrowth
}

// sale samples one transaction for the given day. The draw order is fixed:
// product, region, rep, customer, price variation, quantity, cost ratio,
// discount, shipping, satisfaction noise, delivery days, return flag.
// Reordering any of these would change every downstream record for a seed.
func (g *Generator) sale(date time.Time, orderID int) models.Sale {
	product := catalog.Products[g.rng.Intn(len(catalog.Products))]
	region := catalog.Regions[g.weightedRegion()]
	rep := catalog.Reps[g.weightedRep()]
	customer := catalog.CustomerID(1 + g.rng.Intn(catalog.CustomerCount))

	priceVariation := g.uniform(0.85, 1.25)
	unitPrice := catalog.BasePrice(product) * region.PriceMultiplier * rep.Performance * priceVariation

	var quantity int
	if g.rng.Float64() < bulkOrderChance {
		quantity = 5 + g.rng.Intn(15)
	} else {
		quantity = 1 + g.rng.Intn(3)
	}

	revenue := unitPrice * float64(quantity)
	costRatio := g.uniform(0.4, 0.7)
	cost := revenue * costRatio
	profit := revenue - cost
	profitMargin := profit / revenue * 100

	var discountPercent, discountAmount float64
	if g.rng.Float64() < discountChance {
		discountPercent = g.uniform(5, 25)
		discountAmount = revenue * discountPercent / 100
	}

	finalRevenue := revenue - discountAmount
	finalProfit := finalRevenue - cost
	finalMargin := 0.0
	if finalRevenue > 0 {
		finalMargin = finalProfit / finalRevenue * 100
	}

	shippingCost := g.uniform(region.ShippingMin, region.ShippingMax)
	taxAmount := finalRevenue * region.TaxRate

	satisfaction := 3.5 + (finalMargin/100)*0.5 + (rep.Performance-1)*2 + g.rng.NormFloat64()*0.3
	satisfaction = math.Min(5.0, math.Max(1.0, satisfaction))

	deliveryDays := region.DeliveryMinDays + g.rng.Intn(region.DeliveryMaxDays-region.DeliveryMinDays+1)

	returnProbability := math.Max(0.01, 0.15-(satisfaction-3)*0.03)
	isReturned := g.rng.Float64() < returnProbability

	_, week := date.ISOWeek()

	return models.Sale{
		OrderID:              catalog.OrderID(orderID),
		Date:                 date,
		CustomerID:           customer,
		Product:              product,
		Category:             catalog.CategoryOf(product),
		Region:               region.Name,
		SalesRep:             rep.Name,
		Quantity:             quantity,
		UnitPrice:            Round2(unitPrice),
		Revenue:              Round2(revenue),
		Cost:                 Round2(cost),
		Profit:               Round2(profit),
		ProfitMargin:         Round2(profitMargin),
		DiscountPercent:      Round2(discountPercent),
		DiscountAmount:       Round2(discountAmount),
		FinalRevenue:         Round2(finalRevenue),
		FinalProfit:          Round2(finalProfit),
		FinalMargin:          Round2(finalMargin),
		ShippingCost:         Round2(shippingCost),
		TaxAmount:            Round2(taxAmount),
		CustomerSatisfaction: Round2(satisfaction),
		DeliveryDays:         deliveryDays,
		IsReturned:           isReturned,
		Year:                 date.Year(),
		Month:                int(date.Month()),
		Quarter:              fmt.Sprintf("Q%d", (int(date.Month())-1)/3+1),
		DayOfWeek:            date.Weekday().String(),
		WeekNumber:           week,
	}
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + (high-low)*g.rng.Float64()
}

// poisson draws from a Poisson distribution via Knuth's method. Daily means
// stay well under 100 here, so exp(-mean) does not underflow.
func (g *Generator) poisson(mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func (g *Generator) weightedRegion() int {
	r := g.rng.Float64()
	acc := 0.0
	for i, region := range catalog.Regions {
		acc += region.Weight
		if r < acc {
			return i
		}
	}
	return len(catalog.Regions) - 1
}

func (g *Generator) weightedRep() int {
	r := g.rng.Float64()
	acc := 0.0
	for i, rep := range catalog.Reps {
		acc += rep.Weight
		if r < acc {
			return i
		}
	}
	return len(catalog.Reps) - 1
}

// Round2 rounds to two decimals. Part of the output contract for every
// currency and percentage field, not just display formatting.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
