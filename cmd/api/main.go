package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-booking/internal/db"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/jobs"
	"github.com/BruksfildServices01/barbershop-booking/internal/lock"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/payment"
	"github.com/BruksfildServices01/barbershop-booking/internal/routes"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	ucSchedule "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/validators"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validators.Register(); err != nil {
		return err
	}

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo, err := newRepository(cfg)
	if err != nil {
		return err
	}

	auditDispatcher := audit.NewDispatcher(audit.New(repo))
	defer auditDispatcher.Close()

	clock := timezone.NewClock(cfg.Location())

	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rl := lock.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rl.Ping(ctx); err != nil {
			return err
		}
		defer rl.Close()
		locker = rl
	}

	var uploader storage.Uploader = storage.NopUploader{BaseURL: "/uploads"}
	if cfg.HasS3() {
		uploader = storage.NewS3Uploader(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	} else {
		logger.Warn("S3 not configured, payment proofs are not persisted")
	}

	var gateway payment.Gateway = payment.Disabled{}
	if cfg.MercadoPagoToken != "" {
		mp, err := payment.NewMercadoPagoGateway(cfg.MercadoPagoToken)
		if err != nil {
			return err
		}
		gateway = mp
	}

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := jobs.NewScheduler(clock.Loc, locker, logger)

	reaper := jobs.NewReaper(repo, auditDispatcher, clock, jobs.ReaperConfig{
		RetentionDays:  cfg.RetentionDays,
		PaymentTimeout: cfg.PaymentTimeout,
	}, logger)
	regenerator := jobs.NewRegenerator(ucSchedule.NewGenerateSlots(repo, auditDispatcher, clock), clock)

	if err := jobs.RegisterAll(scheduler, jobs.Specs{
		Expire:         cfg.CronExpire,
		Retention:      cfg.CronRetention,
		Regenerate:     cfg.CronRegenerate,
		PaymentTimeout: cfg.CronPaymentTimeout,
	}, reaper, regenerator); err != nil {
		return err
	}

	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// ======================================================
	// HTTP
	// ======================================================
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	deps := routes.Deps{
		Config:   cfg,
		Repo:     repo,
		Audit:    auditDispatcher,
		Clock:    clock,
		Uploader: uploader,
		Gateway:  gateway,
	}
	if !cfg.IsDevelopment() {
		deps.EmailDomain = validators.NewEmailDomainChecker().Valid
	}
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Addr(), "timezone", clock.Loc.String())
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRepository(cfg *config.Config) (booking.Repository, error) {
	if cfg.UsesMemoryStore() {
		return memory.New(), nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	return infraRepo.NewBookingGormRepository(db), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
