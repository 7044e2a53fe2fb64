package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/cache"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/cache/redis"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/eventbroker"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/eventbroker/nats"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi"
	backuphandler "github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/v1/backup"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/metrics"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/repository/postgres"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/storage"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/storage/breaker"
	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/service/backup"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/service/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	remoteStore, err := storage.NewRemoteStore(cfg, logger)
	if err != nil {
		logger.Error("failed to init remote store", "error", err)
		os.Exit(1)
	}
	logger.Info("remote store configured", "protocol", cfg.Remote.Protocol, "host", cfg.Remote.Host, "breaker", cfg.Breaker.Enabled)

	//token cache
	var clientCache port.ClientCache = cache.NoopClientCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := redis.NewClientCache(ctx, cfg.Redis)
		if err != nil {
			logger.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		clientCache = redisCache
		logger.Info("token cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TokenTTL)
	}

	//events
	var publisher port.EventPublisher = eventbroker.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to create NATS publisher", "error", err)
			os.Exit(1)
		}
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "subject", cfg.NATS.Subject)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close publisher", "error", err)
		}
	}()

	//metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	archiveMetrics := metrics.NewProm("api_envio_ftp", registry)

	//services
	clientService := client.NewClientService(postgres.NewSqlClientRepository(db), clientCache, logger)
	backupService := backup.NewBackupService(remoteStore, publisher, archiveMetrics, cfg.Remote, cfg.Upload, logger)

	//http
	backupHandler := backuphandler.NewBackupHandlerV1(backupService, cfg.Upload.FormField, cfg.Upload.MaxSize.Int64(), logger)

	routerOpts := chi.RouterOptions{
		Env:            cfg.Env.Env,
		MaxUploadSize:  cfg.Upload.MaxSize.Int64(),
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      cfg.RateLimit,
		MetricsHandler: metrics.Handler(registry),
	}
	if guarded, ok := remoteStore.(*breaker.Store); ok {
		routerOpts.BreakerState = guarded.State
	}
	router := chi.NewRouter(logger, clientService, backupHandler, routerOpts)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}
