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

	"github.com/MrJamesThe3rd/fillbook/internal/auth"
	"github.com/MrJamesThe3rd/fillbook/internal/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/fillbook/internal/budget/store"
	"github.com/MrJamesThe3rd/fillbook/internal/category"
	categoryStore "github.com/MrJamesThe3rd/fillbook/internal/category/store"
	"github.com/MrJamesThe3rd/fillbook/internal/config"
	"github.com/MrJamesThe3rd/fillbook/internal/currency"
	currencyStore "github.com/MrJamesThe3rd/fillbook/internal/currency/store"
	"github.com/MrJamesThe3rd/fillbook/internal/database"
	"github.com/MrJamesThe3rd/fillbook/internal/export"
	fillbookHttp "github.com/MrJamesThe3rd/fillbook/internal/http"
	balanceHandler "github.com/MrJamesThe3rd/fillbook/internal/http/balance"
	budgetHandler "github.com/MrJamesThe3rd/fillbook/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/fillbook/internal/http/category"
	currencyHandler "github.com/MrJamesThe3rd/fillbook/internal/http/currency"
	exportHandler "github.com/MrJamesThe3rd/fillbook/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/fillbook/internal/http/importcsv"
	reportHandler "github.com/MrJamesThe3rd/fillbook/internal/http/report"
	scopeHandler "github.com/MrJamesThe3rd/fillbook/internal/http/scope"
	txHandler "github.com/MrJamesThe3rd/fillbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/fillbook/internal/importer"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	scopeStore "github.com/MrJamesThe3rd/fillbook/internal/scope/store"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/fillbook/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Defaults such as the current month follow the ledger's calendar.
	time.Local = loc

	authn, err := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to create authenticator", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	txRepo := txStore.New(db, loc)
	catRepo := categoryStore.New(db)

	var (
		scopeService       = scope.NewService(scopeStore.New(db))
		categoryService    = category.NewService(catRepo)
		currencyService    = currency.NewService(currencyStore.New(db), cfg.Ledger.BaseCurrency)
		transactionService = transaction.NewService(txRepo, categoryService, currencyService)
		reportService      = report.NewService(txRepo, catRepo)
		budgetService      = budget.NewService(budgetStore.New(db), reportService)
		balanceService     = balance.NewService(txRepo)
		calculator         = proportion.NewCalculator(proportion.Config{
			MinorUserID: cfg.Proportion.MinorUserID,
			MajorUserID: cfg.Proportion.MajorUserID,
		})
		overviewService = overview.NewService(scopeService, reportService, budgetService, calculator)
		importService   = importer.NewService(loc)
		exportService   = export.NewService(transactionService, reportService)
	)

	router := fillbookHttp.New(authn.Middleware, cfg.CORS.AllowedOrigins, fillbookHttp.Handlers{
		Scopes:       scopeHandler.NewHandler(scopeService),
		Categories:   categoryHandler.NewHandler(categoryService),
		Transactions: txHandler.NewHandler(transactionService),
		Reports:      reportHandler.NewHandler(overviewService),
		Budgets:      budgetHandler.NewHandler(budgetService),
		Balances:     balanceHandler.NewHandler(balanceService),
		Rates:        currencyHandler.NewHandler(currencyService),
		Import:       importHandler.NewHandler(importService, transactionService),
		Export:       exportHandler.NewHandler(exportService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "base_currency", currencyService.Base())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
