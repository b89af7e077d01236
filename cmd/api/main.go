package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/logger"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/routes"
	"github.com/01moynul/storefront-golang/internal/services"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, foundEnvFile, err := config.Load()
	if err != nil {
		boot := logger.NewStdout("info")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.NewStdout(cfg.LogLevel)
	if !foundEnvFile {
		log.Warn().Msg("no .env file found, relying on system environment variables")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Database Connection & Schema ---
	db, err := database.OpenDBWithDSN(ctx, cfg.DatabaseDSN, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Apply(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Int("tables", database.TableCount()).Msg("schema ready")

	// 2. --- Session Store ---
	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		sessions = auth.NewRedisStore(rdb, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("sessions stored in redis")
	} else {
		sessions = auth.NewMemoryStore(cfg.SessionTTL)
		log.Warn().Msg("REDIS_ADDR not set, sessions kept in process memory")
	}

	// 3. --- Services ---
	accounts, err := services.NewAccounts(db, sessions, logger.Component(log, "accounts"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize accounts")
	}

	app := &handlers.Handlers{
		DB:           db,
		Accounts:     accounts,
		Catalog:      services.NewCatalog(db, logger.Component(log, "catalog")),
		Submissions:  services.NewSubmissions(db, logger.Component(log, "submissions")),
		Tokens:       auth.NewSigner([]byte(cfg.SessionSecret), cfg.SessionTTL),
		Log:          logger.Component(log, "http"),
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
		UploadDir:    cfg.UploadDir,
		BaseURL:      cfg.BaseURL,
	}

	// 4. --- Background Worker ---
	// Forget idle clients of the login limiter.
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst, logger.Component(log, "ratelimit"))
	limiter.StartCleanup(ctx, time.Minute, 3*time.Minute)

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AuthLimiter:    limiter,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("starting storefront server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
