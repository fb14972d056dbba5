package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/spendings-app/spendings-backend/internal/adapter/http"
	"github.com/spendings-app/spendings-backend/internal/adapter/repository/postgres"
	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/config"
	"github.com/spendings-app/spendings-backend/internal/log"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
	"github.com/spendings-app/spendings-backend/internal/usecase/importer"
	"github.com/spendings-app/spendings-backend/internal/usecase/report"
	"github.com/spendings-app/spendings-backend/internal/usecase/timezone"
	"github.com/spendings-app/spendings-backend/internal/usecase/token"
	"github.com/spendings-app/spendings-backend/internal/usecase/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// .env is optional, real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	logger := log.New(cfg.Log.Level, cfg.Log.Format, "server")
	log.SetDefault(logger)

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.Database.ConnString())
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		stdlog.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("database ready", "host", cfg.Database.Host, "name", cfg.Database.Name)

	// 2. Initialize Repositories (Postgres)
	userRepo := postgres.NewUserRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	incomeRepo := postgres.NewIncomeRepository(db)
	billRepo := postgres.NewBillRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	// 3. Initialize Services (Use Cases)
	clk := clock.Real{}
	zones := timezone.NewResolver()

	aggService := aggregate.NewService(expenseRepo, incomeRepo, billRepo)
	reportService := report.NewService(aggService, expenseRepo, zones, clk)
	userService := user.NewService(userRepo, categoryRepo, clk, cfg.Security.BcryptCost)
	tokenService := token.NewService(
		[]byte(cfg.JWT.Secret),
		cfg.JWT.Issuer,
		cfg.JWT.AccessTTL(),
		cfg.JWT.RefreshTTL(),
		userRepo,
		refreshTokenRepo,
		clk,
	)
	importerService := importer.NewService(expenseRepo, categoryRepo, clk)

	// 4. Start HTTP Server
	server := httpadapter.NewServer(
		userService,
		tokenService,
		importerService,
		aggService,
		reportService,
		expenseRepo,
		incomeRepo,
		billRepo,
		categoryRepo,
		clk,
		logger,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(cfg.Server.Mode),
	}

	go func() {
		logger.Info("http server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to serve: %v", err)
		}
	}()

	waitForShutdown(httpServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server, logger *log.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("http server stopped")
}
