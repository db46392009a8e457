package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fisher821/opensea-erc1155/config"
	"github.com/fisher821/opensea-erc1155/gateway/middleware"
	"github.com/fisher821/opensea-erc1155/native/lootbox"
	"github.com/fisher821/opensea-erc1155/observability"
	"github.com/fisher821/opensea-erc1155/observability/logging"
	"github.com/fisher821/opensea-erc1155/storage"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to lootboxd configuration")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := os.Getenv("LOOTBOX_ENV")
	if env == "" {
		env = cfg.Env
	}
	logger := logging.Setup("lootboxd", env, cfg.LogFile)

	catalog, err := lootbox.NewCatalog(cfg.NumClasses, cfg.CatalogOptions())
	if err != nil {
		logger.Error("invalid catalog configuration", "error", err)
		os.Exit(1)
	}

	var db storage.Database
	if cfg.DataDir == ":memory:" {
		db = storage.NewMemDB()
	} else {
		db, err = storage.NewLevelDB(cfg.DataDir)
		if err != nil {
			logger.Error("open ledger database", "path", cfg.DataDir, "error", err)
			os.Exit(1)
		}
	}
	defer db.Close()

	ledger := storage.NewTokenLedger(db)
	engine := lootbox.NewEngine(catalog)
	engine.SetMinter(ledger)
	engine.SetProxyDirectory(ledger)
	engine.SetEmitter(logEmitter{logger: logger})

	srv := &server{
		engine:  engine,
		catalog: catalog,
		ledger:  ledger,
		metrics: observability.Lootbox(),
		logger:  logger,
	}
	limiter := middleware.NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           srv.router(limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("lootboxd listening", "address", cfg.ListenAddress, "options", catalog.NumOptions(), "classes", catalog.NumClasses())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		logger.Info("lootboxd stopped")
	}
}
