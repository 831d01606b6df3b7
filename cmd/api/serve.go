package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/authgate/internal/api/http"
	"github.com/spec-kit/authgate/internal/api/http/handlers"
	"github.com/spec-kit/authgate/internal/auth"
	"github.com/spec-kit/authgate/internal/config"
	"github.com/spec-kit/authgate/internal/events"
	"github.com/spec-kit/authgate/internal/observability"
	"github.com/spec-kit/authgate/internal/persistence"
	"github.com/spec-kit/authgate/internal/repository"
	"github.com/spec-kit/authgate/internal/service"
	"github.com/spec-kit/authgate/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return oops.With("operation", "init logger").Wrap(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.app.Listen(cfg.App.Addr()); err != nil {
			return oops.With("operation", "listen").Wrap(err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.app.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}

// server holds the wired application and the resources it owns.
type server struct {
	app     *fiber.App
	closers []func()
}

// Close releases owned resources in reverse order.
func (s *server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *server, err error) {
	srv := &server{}
	defer func() {
		if err != nil {
			srv.Close()
		}
	}()

	metrics := observability.NewMetrics()
	dependencies := map[string]handlers.Pinger{}

	users := repository.NewMemoryUserRepository()
	if cfg.Store.Backend == config.BackendPostgres {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
		}
		srv.closers = append(srv.closers, pg.Close)

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				return nil, oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
			}
		}
		users = repository.NewPostgresUserRepository(pg.PoolHandle())
		dependencies["postgres"] = pg
	}

	strategy, err := newSessionStrategy(ctx, cfg, logger, srv, dependencies)
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	store := service.NewCredentialStore(users, cfg.Auth.BcryptCost)
	authService := service.NewAuthService(service.AuthDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	if err := authService.Bootstrap(ctx, cfg.Auth.SeedUsers); err != nil {
		return nil, oops.Code("BOOTSTRAP_FAILED").Wrap(err)
	}

	gate := auth.NewGate(strategy, auth.GateConfig{
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		LoginPath:    cfg.Auth.LoginPath,
	}, logger, metrics)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		Production:     cfg.App.Env == "production",
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:             handlers.NewAuthHandler(authService, gate, cfg.Auth.HomePath, logger),
		Pages:            handlers.NewPagesHandler(),
		Gate:             gate,
		Metrics:          metrics,
		AuthRateLimitMin: cfg.App.AuthRateLimitPerMin,
	})
	srv.app = app

	logger.Info("server configured",
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("session_strategy", strategy.Name()),
		zap.String("session_backend", cfg.Session.Backend),
	)
	return srv, nil
}

func newSessionStrategy(ctx context.Context, cfg *config.Config, logger *zap.Logger, srv *server, dependencies map[string]handlers.Pinger) (auth.SessionStrategy, error) {
	if cfg.Session.Strategy == config.StrategyToken {
		return auth.NewTokenStrategy(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Session.TTL)), nil
	}

	if cfg.Session.Backend == config.BackendRedis {
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, oops.Code("REDIS_CONNECT_FAILED").With("operation", "connect to redis").Wrap(err)
		}
		srv.closers = append(srv.closers, rdb.Close)
		dependencies["redis"] = rdb
		return auth.NewStoredSessionStrategy(repository.NewRedisSessionRepository(rdb.Client), cfg.Session.TTL, logger), nil
	}

	sessions := repository.NewMemorySessionRepository()
	sweepCtx, stop := context.WithCancel(ctx)
	done := worker.StartSessionSweeper(sweepCtx, sessions, cfg.Session.SweepInterval(), logger)
	srv.closers = append(srv.closers, func() {
		stop()
		<-done
	})
	return auth.NewStoredSessionStrategy(sessions, cfg.Session.TTL, logger), nil
}
