package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"warden/config"
	"warden/internal/delivery"
	"warden/internal/delivery/http"
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/router/handler"
	"warden/internal/infra/auth"
	logs "warden/internal/infra/log"
	"warden/internal/infra/metrics"
	"warden/internal/infra/persistence/memory"
	"warden/internal/infra/persistence/postgres"
	"warden/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	// The store driver decides which providers exist, so config is loaded before the graph.
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	fx.New(
		fx.Supply(cfg),
		injectInfra(),
		injectRepo(cfg),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		logs.New,
		context.Background,
		metrics.NewRecorder,
		metrics.NewAuthMetrics,
	)
}

func injectRepo(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageMemory {
		return fx.Options(
			fx.Provide(
				memory.NewStore,
				memory.NewUserRepository,
				memory.NewTransactionManager,
			),
		)
	}

	return fx.Options(
		fx.Provide(
			postgres.New,
			postgres.NewUserRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewPasswordHasher,
			auth.NewJWTSigner,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
