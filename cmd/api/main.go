// Command api serves the studyforge learning API.
//
// @title                      studyforge learning API
// @version                    1.0
// @description                Accounts, cookie sessions, password resets and the metered AI usage gate.
// @BasePath                   /
// @securityDefinitions.apikey CookieAuth
// @in                         cookie
// @name                       token
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/studyforge/learning-api/docs"
	"github.com/studyforge/learning-api/internal/api"
	"github.com/studyforge/learning-api/internal/api/handler"
	"github.com/studyforge/learning-api/internal/core/service"
	"github.com/studyforge/learning-api/internal/infrastructure/config"
	"github.com/studyforge/learning-api/internal/infrastructure/db/mongo"
	"github.com/studyforge/learning-api/internal/infrastructure/db/redis"
	"github.com/studyforge/learning-api/internal/infrastructure/mail"
	"github.com/studyforge/learning-api/internal/infrastructure/queue"
	"github.com/studyforge/learning-api/internal/infrastructure/security"
	"github.com/studyforge/learning-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "learning-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "learning-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer dcancel()
		if err := mongo.Disconnect(dctx, client); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}

	// --- Reset delivery ---
	dispatcher := queue.NewDispatcher(cfg.Reset.Workers, mail.NewLogMailer(cfg.AppURL, log), log)
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(users, hasher, tokens, log)
	resetService := service.NewPasswordResetService(
		users,
		hasher,
		security.NewResetTokenGenerator(),
		dispatcher,
		redis.NewResetThrottle(rdb, cfg.Reset.Throttle),
		cfg.Reset.TokenTTL,
		log,
	)
	usageService := service.NewUsageService(users, cfg.Usage.DailyLimit, cfg.Usage.Window, log)
	accountService := service.NewAccountService(users, log)

	e := api.NewRouter(api.Deps{
		Auth:    authService,
		Reset:   resetService,
		Usage:   usageService,
		Account: accountService,
		Tokens:  tokens,
		Cookie:  handler.CookieConfig{Secure: cfg.IsProduction(), MaxAge: tokens.TTL()},
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return pingRedis(ctx, rdb) },
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	return e.Shutdown(sctx)
}

func pingRedis(ctx context.Context, rdb *goredis.Client) error {
	return rdb.Ping(ctx).Err()
}
