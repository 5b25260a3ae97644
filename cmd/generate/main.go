// Command generate produces the synthetic sales dataset and the four
// summary tables, writing them as CSV files into the configured output
// directory. Existing files are overwritten.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	genCfg := generator.Config{
		Seed:            cfg.Generator.Seed,
		Start:           cfg.Generator.StartDate,
		End:             cfg.Generator.EndDate,
		BaseDailyOrders: cfg.Generator.BaseDailyOrders,
		DayStride:       1,
	}
	if err := genCfg.Validate(); err != nil {
		logger.Error("invalid generator configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("generating sales data",
		"seed", genCfg.Seed,
		"start", genCfg.Start.Format("2006-01-02"),
		"end", genCfg.End.Format("2006-01-02"),
		"base_daily_orders", genCfg.BaseDailyOrders,
	)

	start := time.Now()
	records := generator.New(genCfg).Generate()

	analytics := services.NewAnalytics()
	analytics.SetData(records)
	summaries := analytics.Summaries()

	var totalRevenue, totalProfit, totalMargin float64
	returned := 0
	for _, s := range records {
		totalRevenue += s.FinalRevenue
		totalProfit += s.FinalProfit
		totalMargin += s.FinalMargin
		if s.IsReturned {
			returned++
		}
	}

	logger.Info("sales data generated",
		"records", len(records),
		"customers", len(summaries.Customers),
		"total_revenue", generator.Round2(totalRevenue),
		"total_profit", generator.Round2(totalProfit),
		"avg_margin", generator.Round2(totalMargin/float64(len(records))),
		"return_rate", generator.Round2(float64(returned)/float64(len(records))*100),
		"duration", time.Since(start),
	)

	if err := export.WriteAll(context.Background(), cfg.Data.OutputDir, records, summaries); err != nil {
		logger.Error("failed to write output files", "error", err)
		os.Exit(1)
	}

	logger.Info("output files written",
		"dir", cfg.Data.OutputDir,
		"files", []string{
			export.DatasetFile,
			export.CustomerSummaryFile,
			export.ProductSummaryFile,
			export.RepSummaryFile,
			export.MonthlySummaryFile,
		},
	)
}
