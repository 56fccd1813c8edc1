package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/api"
	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/analytics"
	"github.com/gcbaptista/candidate-search/internal/cache"
	"github.com/gcbaptista/candidate-search/internal/engine"
	"github.com/gcbaptista/candidate-search/internal/logging"
	"github.com/gcbaptista/candidate-search/internal/scheduler"
	"github.com/gcbaptista/candidate-search/internal/sqlstore"
	"github.com/gcbaptista/candidate-search/internal/terms"
)

const (
	shutdownTimeout = 15 * time.Second
	memoryCacheSize = 1000
)

func main() {
	// Define command-line flags
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		envFile = flag.String("env-file", ".env", "Optional file of environment variables")
		port    = flag.String("port", "", "Port to run the server on (overrides PORT)")
		dataDir = flag.String("data-dir", "", "Directory to store pool data (overrides DATA_DIR)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Candidate Search - ranks candidate pools against free-text job and location queries\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment:\n")
		fmt.Printf("  PORT, DATA_DIR, LOG_LEVEL, LOG_FORMAT, TERMS_FILE, DATABASE_DRIVER, DATABASE_URL,\n")
		fmt.Printf("  REDIS_ADDR, REDIS_DB, CACHE_TTL, RATE_LIMIT_RPS, RATE_LIMIT_BURST, SNAPSHOT_SCHEDULE,\n")
		fmt.Printf("  MAX_WORKERS, MAX_REQUEST_BYTES\n")
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                  # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  DATABASE_URL=... %s             # Enable pool sync from PostgreSQL\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Candidate Search v1.0.0\n")
		return
	}

	cfg, err := config.LoadServerConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if err := run(cfg); err != nil {
		logrus.WithError(err).Fatal("candidate search stopped")
	}
}

func run(cfg config.ServerConfig) error {
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	log := logrus.WithField("component", "main")

	opts := []engine.Option{engine.WithMaxWorkers(cfg.MaxWorkers)}

	if cfg.TermsFile != "" {
		dict, err := terms.LoadFile(cfg.TermsFile)
		if err != nil {
			return fmt.Errorf("load terms: %w", err)
		}
		log.WithFields(logrus.Fields{"file": cfg.TermsFile, "phrases": dict.Len()}).Info("term dictionary loaded")
		opts = append(opts, engine.WithDictionary(dict))
	}

	var resultCache cache.Cache = cache.NewMemory(cfg.CacheTTL, memoryCacheSize)
	if cfg.CacheEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)
		cancel()
		if err != nil {
			// searches still work without the shared tier
			log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, using in-memory cache only")
		} else {
			defer redisCache.Close()
			resultCache = cache.NewTiered(resultCache, redisCache)
			log.WithField("addr", cfg.RedisAddr).Info("redis result cache enabled")
		}
	}
	opts = append(opts, engine.WithCache(resultCache))

	if cfg.DatabaseEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := sqlstore.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err == nil {
			err = store.Migrate(ctx)
		}
		cancel()
		if err != nil {
			return fmt.Errorf("candidate database: %w", err)
		}
		defer store.Close()
		opts = append(opts, engine.WithSource(store))
		log.WithField("driver", cfg.DatabaseDriver).Info("sql candidate source enabled")
	}

	log.WithField("data_dir", cfg.DataDir).Info("loading pools")
	eng := engine.NewEngine(cfg.DataDir, opts...)
	analyticsService := analytics.NewService(eng, cfg.DataDir)

	sched, err := scheduler.New(cfg.SnapshotSpec, eng, eng.GetJobManager())
	if err != nil {
		return err
	}
	sched.Start()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewAPI(eng, analyticsService), api.RouterOptions{
		MaxRequestBytes: cfg.MaxRequestBytes,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}
	if err := sched.Stop(ctx); err != nil {
		log.WithError(err).Warn("scheduled tasks still running")
	}
	saved, err := eng.PersistAll()
	if err != nil {
		log.WithError(err).Error("failed to persist pools")
	}
	log.WithField("pools", saved).Info("pools persisted")
	eng.Stop()
	if err := analyticsService.Close(); err != nil {
		log.WithError(err).Warn("failed to save analytics")
	}
	return nil
}
