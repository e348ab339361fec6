package main

import (
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"rfpsimulator/config"
	"rfpsimulator/handlers"
	"rfpsimulator/logging"
	"rfpsimulator/services"
)

func main() {
	cfgPath := os.Getenv("RFP_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// The logger is configured from cfg, so fall back to a bare one.
		zap.NewExample().Fatal("load config", zap.String("path", cfgPath), zap.Error(err))
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		zap.NewExample().Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	rates, err := cfg.RateTables()
	if err != nil {
		logger.Fatal("load rate tables", zap.Error(err))
	}
	calc := services.NewCalculator(rates)
	logger.Info("rate tables loaded",
		zap.Strings("technologies", rates.TechnologyIDs()),
		zap.String("rates_file", cfg.RatesFile),
	)

	app := pocketbase.New()

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Estimate ─────────────────────────────────────────────
		se.Router.GET("/api/estimate/options", handlers.HandleEstimateOptions(calc))
		se.Router.GET("/api/estimate/sample", handlers.HandleEstimateSample())
		se.Router.POST("/api/estimate", handlers.HandleEstimate(calc, logger))

		// ── Estimate export ──────────────────────────────────────
		se.Router.POST("/api/estimate/export/excel", handlers.HandleEstimateExportExcel(calc, logger))
		se.Router.POST("/api/estimate/export/pdf", handlers.HandleEstimateExportPDF(calc, logger))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/api/estimate/options")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
