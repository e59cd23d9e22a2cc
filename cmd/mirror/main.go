package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tunichain/tunichain-contract/internal/config"
	"github.com/tunichain/tunichain-contract/mirror"
	"github.com/tunichain/tunichain-contract/mirror/httpapi"
	"github.com/tunichain/tunichain-contract/mirror/memstore"
	"github.com/tunichain/tunichain-contract/mirror/pgstore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Fatal("mirror failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	c, err := newRemoteBlockchain(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	contracts := cfg.ContractHashes()
	if err = checkContracts(logger, c, contracts); err != nil {
		return err
	}

	var store mirror.Store
	if cfg.DB.DSN == "" {
		logger.Warn("database is not configured, mirror is kept in memory")
		store = memstore.New()
	} else {
		pool, err := pgstore.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		s := pgstore.New(pool)
		if err = s.Migrate(ctx); err != nil {
			return err
		}
		store = s
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	listener := mirror.NewListener(mirror.ListenerPrm{
		Logger:       logger.With(zap.String("component", "listener")),
		Blockchain:   c,
		Store:        store,
		Contracts:    contracts,
		Metrics:      mirror.NewMetrics(reg),
		PollInterval: cfg.Listener.PollInterval,
		StartHeight:  cfg.Listener.StartHeight,
	})

	apiLogger := logger.With(zap.String("component", "api"))
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      httpapi.New(apiLogger, httpapi.NewHandler(apiLogger, store), reg),
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := listener.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		logger.Info("starting server", zap.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
