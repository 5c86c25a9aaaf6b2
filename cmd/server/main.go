// @title                       Job Board API
// @version                     1.0
// @description                 Employee and company accounts, job postings and applications.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/api"
	"github.com/palaup/jobboard/internal/api/handler"
	"github.com/palaup/jobboard/internal/core/ports"
	"github.com/palaup/jobboard/internal/core/service"
	"github.com/palaup/jobboard/internal/infrastructure/config"
	"github.com/palaup/jobboard/internal/infrastructure/db/mongo"
	"github.com/palaup/jobboard/internal/infrastructure/db/redis"
	"github.com/palaup/jobboard/internal/infrastructure/queue"
	"github.com/palaup/jobboard/internal/infrastructure/security"
	"github.com/palaup/jobboard/pkg/logger"
)

func main() {
	// Existing variables win; .env.local shadows .env.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load(ctx)
	if err != nil {
		stop()
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "jobboard",
	})

	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run wires the server and blocks until ctx is cancelled or the listener
// fails. Every resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokens, err := security.NewJWTManager(cfg.Auth.JWTSecret, security.DefaultTokenTTL)
	if err != nil {
		return fmt.Errorf("token signer: %w", err)
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "jobboard",
	})
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	employees := mongo.NewEmployeeRepository(db)
	companies := mongo.NewCompanyRepository(db)
	jobs := mongo.NewJobRepository(db)
	if err := mongo.EnsureIndexes(ctx, employees, companies, jobs); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	health := map[string]handler.Pinger{"mongodb": employees}

	var denylist ports.TokenDenylist
	if cfg.Auth.TokenDenylist {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()

		denylist = redis.NewTokenDenylist(rdb)
		health["redis"] = redisPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token denylist enabled")
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	views := queue.NewDispatcher(cfg.ViewWorkers, jobs, log)
	views.Start(workerCtx)
	defer func() {
		stopWorkers()
		views.Wait()
	}()

	authService := service.NewAuthService(service.AuthDeps{
		Employees: employees,
		Companies: companies,
		Hasher:    security.NewBcryptHasher(security.DefaultBcryptCost),
		Issuer:    tokens,
		Verifier:  tokens,
		Denylist:  denylist,
	}, log)
	authenticator := service.NewAuthenticator(tokens, authService.Resolver(), denylist, log)
	profileService := service.NewProfileService(authService.Resolver(), log)
	jobService := service.NewJobService(service.JobDeps{
		Jobs:      jobs,
		Employees: employees,
		Activity:  employees,
		Counters:  companies,
		Views:     views,
	}, log)

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Authenticator: authenticator,
		Profiles:      profileService,
		Jobs:          jobService,
		Health:        health,
		CORSOrigins:   cfg.CORSAllow,
		LoginRate:     cfg.Auth.LoginRate,
		LoginBurst:    cfg.Auth.LoginBurst,
		Log:           log,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func redisPinger(rdb *goredis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
