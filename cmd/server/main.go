package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/config"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
	"github.com/prasadnk/dairydesk/internal/repository/sheets"
	"github.com/prasadnk/dairydesk/internal/scheduler"
	"github.com/prasadnk/dairydesk/internal/server/handlers"
	"github.com/prasadnk/dairydesk/internal/server/router"
	exportsvc "github.com/prasadnk/dairydesk/internal/service/export"
	procurementsvc "github.com/prasadnk/dairydesk/internal/service/procurement"
	productionsvc "github.com/prasadnk/dairydesk/internal/service/production"
	reportingsvc "github.com/prasadnk/dairydesk/internal/service/reporting"
	suppliersvc "github.com/prasadnk/dairydesk/internal/service/supplier"
	"github.com/prasadnk/dairydesk/pkg/clients/notify"
	"github.com/prasadnk/dairydesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(!cfg.Server.Production()))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := store.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	productionRepo := store.Productions()
	supplierRepo := store.Suppliers()
	procurementRepo := store.Procurements()
	summaryRepo := store.Summaries()

	productionService := productionsvc.NewService(productionRepo, baseLogger.Named("svc.production"))
	supplierService := suppliersvc.NewService(supplierRepo, cfg.Dairy.TSRateMin, cfg.Dairy.TSRateMax, baseLogger.Named("svc.supplier"))
	procurementService := procurementsvc.NewService(procurementRepo, supplierRepo, baseLogger.Named("svc.procurement"))
	reportingService := reportingsvc.NewService(productionRepo, procurementRepo, summaryRepo, baseLogger.Named("svc.reporting"))
	exportService := exportsvc.NewService(productionRepo, procurementRepo, supplierRepo, baseLogger.Named("svc.export"))

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("daily summary sheet mirror enabled")
	}

	var notifier *notify.Client
	if cfg.Reporting.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Reporting.WebhookURL)
		baseLogger.Info("daily summary webhook enabled")
	}

	exposeDetail := !cfg.Server.Production()
	engine := router.New(router.Handlers{
		Production:  handlers.NewProductionHandler(productionService, baseLogger.Named("handlers.production"), exposeDetail),
		Supplier:    handlers.NewSupplierHandler(supplierService, baseLogger.Named("handlers.supplier"), exposeDetail),
		Procurement: handlers.NewProcurementHandler(procurementService, baseLogger.Named("handlers.procurement"), exposeDetail),
		Export:      handlers.NewExportHandler(exportService, baseLogger.Named("handlers.export"), exposeDetail),
		Report:      handlers.NewReportHandler(reportingService, baseLogger.Named("handlers.report"), exposeDetail),
	}, cfg.CORS, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingService, sheetRepo, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
