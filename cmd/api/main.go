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
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cashly/internal/config"
	"github.com/MrJamesThe3rd/cashly/internal/database"
	"github.com/MrJamesThe3rd/cashly/internal/export"
	"github.com/MrJamesThe3rd/cashly/internal/extract"
	cashlyHttp "github.com/MrJamesThe3rd/cashly/internal/http"
	exportHandler "github.com/MrJamesThe3rd/cashly/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/cashly/internal/http/imports"
	summaryHandler "github.com/MrJamesThe3rd/cashly/internal/http/summary"
	txHandler "github.com/MrJamesThe3rd/cashly/internal/http/transaction"
	"github.com/MrJamesThe3rd/cashly/internal/importer"
	"github.com/MrJamesThe3rd/cashly/internal/ocr"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
	txStore "github.com/MrJamesThe3rd/cashly/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		transactionService = transaction.NewService(txStore.New(db))
		importService      = importer.NewService(extract.New(), ocr.NewTesseract(cfg.OCR.Binary, cfg.OCR.Languages))
		exportService      = export.NewService(transactionService)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		importH      = importHandler.NewHandler(importService, transactionService, cfg.Import.MaxUploadBytes)
		summaryH     = summaryHandler.NewHandler(transactionService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := cashlyHttp.New(transactionH, importH, summaryH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.ImportTimeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}
