package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contest-entry/internal/auth"
	"contest-entry/internal/config"
	"contest-entry/internal/database"
	"contest-entry/internal/handler"
	"contest-entry/internal/infrastructure/payment"
	"contest-entry/internal/infrastructure/storage"
	"contest-entry/internal/logger"
	"contest-entry/internal/metrics"
	"contest-entry/internal/repo"
	"contest-entry/internal/service"
	"contest-entry/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		logger.Log.Error("server exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "contest-entry: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Log
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(startCtx, cfg.DatabaseURL, log.Named("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := storage.NewMinioStore(storage.Options{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		UseSSL:        cfg.Storage.UseSSL,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(startCtx); err != nil {
		return err
	}

	var gateway payment.Gateway
	switch cfg.PaymentGateway {
	case "mock":
		log.Warn("using in-memory payment gateway")
		gateway = payment.NewMockGateway(cfg.RazorpayKeySecret)
	default:
		gateway = payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	submissions := repo.NewSubmissionRepo(db.DB())
	secret := auth.NewSecretAuthorizer(cfg.AdminKey)
	tokens := auth.NewTokenAuthorizer(cfg.AdminKey, cfg.AdminTokenTTL)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Deps{
		Orders: service.NewOrderService(gateway, cfg.RazorpayKeyID, m, log.Named("orders")),
		Submissions: service.NewSubmissionService(
			payment.NewVerifier(cfg.RazorpayKeySecret),
			store,
			submissions,
			m,
			log.Named("submissions"),
		),
		Records:        submissions,
		Health:         db,
		Login:          secret,
		Admin:          auth.Any(secret, tokens),
		Tokens:         tokens,
		Gatherer:       reg,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AllowOrigins:   cfg.CORSAllowOrigins,
		Log:            log.Named("http"),
	})

	if cfg.OrphanSweepInterval > 0 {
		sweeper := worker.NewOrphanSweeper(store, submissions, m, log.Named("sweeper"), cfg.OrphanSweepInterval, cfg.OrphanGrace)
		go sweeper.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("gateway", cfg.PaymentGateway))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
