// @title                       Identity Gateway API
// @version                     1.0
// @description                 Registration, login and role-gated access backed by an OpenID Connect provider.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/99minutos/identity-gateway/docs"
	"github.com/99minutos/identity-gateway/internal/api"
	"github.com/99minutos/identity-gateway/internal/api/handler"
	"github.com/99minutos/identity-gateway/internal/api/middleware"
	"github.com/99minutos/identity-gateway/internal/core/service"
	"github.com/99minutos/identity-gateway/internal/infrastructure/config"
	mongodb "github.com/99minutos/identity-gateway/internal/infrastructure/db/mongo"
	"github.com/99minutos/identity-gateway/internal/infrastructure/db/postgres"
	redisdb "github.com/99minutos/identity-gateway/internal/infrastructure/db/redis"
	"github.com/99minutos/identity-gateway/internal/infrastructure/keycloak"
	"github.com/99minutos/identity-gateway/internal/infrastructure/queue"
	"github.com/99minutos/identity-gateway/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Profile store ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	userRepo := postgres.NewUserRepository(pool)

	// --- Provisioning journal ---
	journalStore, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = journalStore.Close() }()

	journal := mongodb.NewJournalRepository(journalStore.DB)
	if err := journal.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("journal index not created")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(0, journal, log)
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	// --- Coordination ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Identity provider ---
	kc := keycloakConfig(cfg, log)
	idp := keycloak.NewClient(kc, log)

	verifier, err := middleware.NewTokenVerifier(middleware.VerifierConfig{
		PublicKeyPEM: cfg.Token.PublicKey,
		Secret:       cfg.Token.Secret,
		Issuer:       cfg.Token.Issuer,
		ClientID:     cfg.Keycloak.ClientID,
	})
	if err != nil {
		return err
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, idp, dispatcher, log)
	userService := service.NewUserService(userRepo, journal, log)

	if cfg.Reconcile.Interval > 0 {
		hostname, _ := os.Hostname()
		locker := redisdb.NewLocker(rdb, cfg.Redis.LockTTL, hostname)
		reconciler := service.NewReconciler(userRepo, locker, dispatcher, cfg.Reconcile.Grace, log)

		reconcileCtx, cancelReconcile := context.WithCancel(ctx)
		var reconcileWG sync.WaitGroup
		reconcileWG.Add(1)
		go func() {
			defer reconcileWG.Done()
			reconciler.Run(reconcileCtx, cfg.Reconcile.Interval)
		}()
		// Runs before the pool, journal and redis defers above.
		defer func() {
			cancelReconcile()
			reconcileWG.Wait()
		}()
		log.Info().Dur("interval", cfg.Reconcile.Interval).Dur("grace", cfg.Reconcile.Grace).Msg("reconciler enabled")
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		UserService: userService,
		Verifier:    verifier,
		Checks: []handler.Check{
			{Name: "postgres", Ping: pool.Ping},
			{Name: "mongodb", Ping: journalStore.Ping},
			{Name: "redis", Ping: redisdb.Ping(rdb)},
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("gateway listening")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func keycloakConfig(cfg *config.Config, log zerolog.Logger) keycloak.Config {
	base, realm, fellBack := keycloak.ResolveEndpoint(cfg.Keycloak.BaseURL, cfg.Keycloak.Realm, cfg.Keycloak.AuthServerURL)
	if fellBack {
		log.Warn().
			Str("base_url", base).
			Str("auth_server_url", cfg.Keycloak.AuthServerURL).
			Msg("no realm configured, using realm master")
	}

	if cfg.Keycloak.UsesDefaultAdmin() {
		ev := log.Info()
		if cfg.IsProduction() {
			ev = log.Warn()
		}
		ev.Msg("provisioning uses the default admin-cli/admin/admin credentials")
	}

	return keycloak.Config{
		BaseURL:           base,
		Realm:             realm,
		ClientID:          cfg.Keycloak.ClientID,
		ClientSecret:      cfg.Keycloak.ClientSecret,
		AdminRealm:        cfg.Keycloak.AdminRealm,
		AdminClientID:     cfg.Keycloak.AdminClientID,
		AdminClientSecret: cfg.Keycloak.AdminClientSecret,
		AdminUsername:     cfg.Keycloak.AdminUsername,
		AdminPassword:     cfg.Keycloak.AdminPassword,
		Timeout:           cfg.Keycloak.Timeout,
	}
}
