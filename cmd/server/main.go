package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storyhub/internal/auth"
	"storyhub/internal/cache"
	"storyhub/internal/config"
	"storyhub/internal/db"
	"storyhub/internal/logger"
	"storyhub/internal/metrics"
	"storyhub/internal/router"
	"storyhub/internal/services"
	"storyhub/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg, found := config.Load()
	log := logger.NewLogger("storyhub", cfg.LogLevel)
	if !found {
		log.Info("No .env file found, using environment variables")
	}
	gin.SetMode(cfg.Server.GinMode)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	if _, err := db.SeedCategories(ctx, gdb, log); err != nil {
		log.WithError(err).Warn("Failed to seed categories")
	}

	c, closeCache, err := newCache(ctx, cfg.Cache, log)
	if err != nil {
		return err
	}
	defer closeCache()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessionStore, err := newSessionStore(cfg, gdb)
	if err != nil {
		return err
	}

	deps := router.Deps{
		Store:    store.New(gdb),
		Cache:    c,
		Log:      log,
		Metrics:  metrics.NewMetrics(reg),
		Sessions: sessionStore,
	}
	if cfg.GitHub.Enabled() {
		deps.GitHub = auth.NewGitHub(cfg.GitHub, cfg.Server.SiteURL)
	} else {
		log.Info("GitHub login disabled")
	}
	if cfg.MinIO.Enabled() {
		uploader, err := services.NewMinIOUploader(cfg.MinIO)
		if err != nil {
			return err
		}
		if err := uploader.EnsureBucket(ctx); err != nil {
			log.WithError(err).Warn("Failed to ensure avatar bucket")
		}
		deps.Uploader = uploader
	} else {
		log.Info("Avatar uploads disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server starting")
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

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, log logrus.FieldLogger) (cache.Cache, func(), error) {
	if cfg.RedisURL == "" {
		lru, err := cache.NewLRU(cfg.Size)
		return lru, func() {}, err
	}
	rc, err := cache.NewRedis(cfg.RedisURL, "storyhub:")
	if err != nil {
		return nil, nil, err
	}
	if err := rc.Ping(ctx); err != nil {
		log.WithError(err).Warn("Redis is not reachable yet")
	}
	return rc, func() { rc.Close() }, nil
}

// newSessionStore keeps sessions in postgres when asked to, or in "auto" mode
// when the main database already is postgres. Cookies otherwise.
func newSessionStore(cfg *config.Config, gdb *gorm.DB) (sessions.Store, error) {
	mode := strings.ToLower(cfg.Session.Store)
	usePostgres := mode == "postgres" || (mode == "auto" && cfg.Database.Driver == db.DriverPostgres)
	secure := strings.HasPrefix(cfg.Server.SiteURL, "https://")
	if !usePostgres {
		return auth.NewSessionStore(cfg.Session.Secret, false, nil, secure)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return auth.NewSessionStore(cfg.Session.Secret, true, sqlDB, secure)
}
