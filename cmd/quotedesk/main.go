package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/quotedesk/quotedesk/internal/app"
	"github.com/quotedesk/quotedesk/internal/costs"
	"github.com/quotedesk/quotedesk/internal/files"
	"github.com/quotedesk/quotedesk/internal/inventory"
	"github.com/quotedesk/quotedesk/internal/masterdata/products"
	"github.com/quotedesk/quotedesk/internal/observability"
	"github.com/quotedesk/quotedesk/internal/platform/cache"
	"github.com/quotedesk/quotedesk/internal/platform/db"
	"github.com/quotedesk/quotedesk/internal/sales/customers"
	"github.com/quotedesk/quotedesk/internal/sales/proposals"
	"github.com/quotedesk/quotedesk/internal/sales/quotations"
	"github.com/quotedesk/quotedesk/internal/sales/reps"
	"github.com/quotedesk/quotedesk/jobs"
	"github.com/quotedesk/quotedesk/report"
)

// customerDirectory adapts the customers service to the snapshot
// lookup quotations need at save time.
type customerDirectory struct {
	svc *customers.Service
}

func (d customerDirectory) CustomerName(ctx context.Context, id string) (string, error) {
	c, err := d.svc.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

// revenueSource exposes quotation grand totals to the profit report.
type revenueSource struct {
	svc *quotations.Service
}

func (s revenueSource) Revenue(ctx context.Context, quotationID string) (map[string]float64, error) {
	q, err := s.svc.Get(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	revenue := make(map[string]float64, len(q.Totals))
	for currency, total := range q.Totals {
		revenue[currency] = total.GrandTotal
	}
	return revenue, nil
}

// pdfArchiver narrows the asynq client to the enqueue hook handlers use.
type pdfArchiver struct {
	client *jobs.Client
}

func (a pdfArchiver) EnqueuePDFArchive(ctx context.Context, quotationID string) error {
	_, err := a.client.EnqueuePDFArchive(ctx, quotationID)
	return err
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	repsRepo := reps.NewRepository(dbpool)
	repsHandler := reps.NewHandler(logger, repsRepo)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	directory := customerDirectory{svc: customersService}

	quotationsRepo := quotations.NewRepository(dbpool)
	quotationsService := quotations.NewService(quotationsRepo, directory, inventoryService)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	quotationsHandler := quotations.NewHandler(logger, quotationsService, pdfArchiver{client: jobsClient})

	proposalsRepo := proposals.NewRepository(dbpool)
	proposalsService := proposals.NewService(proposalsRepo, directory, quotationsService)
	proposalsHandler := proposals.NewHandler(logger, proposalsService)

	costsRepo := costs.NewRepository(dbpool)
	costsService := costs.NewService(costsRepo, revenueSource{svc: quotationsService}, redisClient, cfg.ReportPasswordHash)
	costsHandler := costs.NewHandler(logger, costsService)

	storage, err := files.NewStorage(cfg.FilesDir)
	if err != nil {
		logger.Error("init file storage", slog.Any("error", err))
		os.Exit(1)
	}
	filesRepo := files.NewRepository(dbpool)
	filesService := files.NewService(filesRepo, storage)
	filesHandler := files.NewHandler(logger, filesService)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(reportClient, quotationsService, filesService, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CustomersHandler:  customersHandler,
		RepsHandler:       repsHandler,
		QuotationsHandler: quotationsHandler,
		ProposalsHandler:  proposalsHandler,
		ProductsHandler:   productsHandler,
		CostsHandler:      costsHandler,
		FilesHandler:      filesHandler,
		InventoryHandler:  inventoryHandler,
		ReportHandler:     reportHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
