package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/rentbook/internal/config"
	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/database"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	rentbookHttp "github.com/MrJamesThe3rd/rentbook/internal/http"
	dashboardHandler "github.com/MrJamesThe3rd/rentbook/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/rentbook/internal/http/export"
	inflationHandler "github.com/MrJamesThe3rd/rentbook/internal/http/inflation"
	ownerHandler "github.com/MrJamesThe3rd/rentbook/internal/http/owner"
	propertyHandler "github.com/MrJamesThe3rd/rentbook/internal/http/property"
	"github.com/MrJamesThe3rd/rentbook/internal/importer"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	inflationStore "github.com/MrJamesThe3rd/rentbook/internal/inflation/store"
	"github.com/MrJamesThe3rd/rentbook/internal/logging"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
	ownerStore "github.com/MrJamesThe3rd/rentbook/internal/owner/store"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	propertyStore "github.com/MrJamesThe3rd/rentbook/internal/property/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		inflationService = inflation.NewService(inflationStore.New(db))
		propertyService  = property.NewService(propertyStore.New(db), inflationService)
		ownerService     = owner.NewService(ownerStore.New(db))
		dashboardService = dashboard.NewService(propertyService, ownerService)
		importService    = importer.NewService()
		exportService    = export.NewService(propertyService)
	)

	var (
		propertyH  = propertyHandler.NewHandler(propertyService)
		inflationH = inflationHandler.NewHandler(inflationService, importService)
		ownerH     = ownerHandler.NewHandler(ownerService, dashboardService)
		dashboardH = dashboardHandler.NewHandler(dashboardService)
		exportH    = exportHandler.NewHandler(exportService, dashboardService)
	)

	router := rentbookHttp.New(rentbookHttp.Options{
		CORSOrigins:     cfg.Server.CORSOrigins,
		ImportRateLimit: cfg.Server.ImportRateLimit,
	}, propertyH, inflationH, ownerH, dashboardH, exportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
