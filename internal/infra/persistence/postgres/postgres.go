package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"warden/config"
	"warden/internal/domain/lifecycle"
	"warden/internal/errors"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the PostgreSQL primary, registers read replicas and hooks the pool into the fx lifecycle.
func New(params Params) (*gorm.DB, error) {
	pgCfg := params.Config.Postgres
	if pgCfg == nil {
		return nil, errors.New("postgres config must be provided")
	}

	db, err := gorm.Open(postgres.Open(pgCfg.Master.DSN(pgCfg.DBName, pgCfg.SSLMode)), &gorm.Config{
		// Disable GORM's per-statement implicit transaction.
		// We keep explicit transactions via txManager.Execute for multi-step atomic operations.
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}

	if len(pgCfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(pgCfg.Replicas))
		for _, replica := range pgCfg.Replicas {
			replicas = append(replicas, postgres.Open(replica.DSN(pgCfg.DBName, pgCfg.SSLMode)))
		}

		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: params.Config.Env.Debug,
		})); err != nil {
			return nil, errors.Wrap(err, "failed to register PostgreSQL replicas")
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	configurePool(sqlDB, pgCfg)

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	// Add lifecycle management
	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			if pgCfg.AutoMigrate {
				if err := RunMigrations(ctx, sqlDB); err != nil {
					return err
				}
				params.Logger.Info("PostgreSQL migrations applied")
			}

			go monitorDBPool(monitorCtx, params.Logger, sqlDB, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

func configurePool(sqlDB *sql.DB, cfg *config.PostgresConfig) {
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			if attrs, warn, ok := poolWaitAttrs(prev, cur); ok {
				level := slog.LevelDebug
				if warn {
					level = slog.LevelWarn
				}
				logger.LogAttrs(ctx, level, "Postgres pool wait detected", attrs...)
			}

			prev = cur
		}
	}
}

// poolWaitAttrs reports the connection waits that happened between two stats snapshots.
// warn is set when the accumulated wait crosses dbPoolWarnDurationThreshold.
func poolWaitAttrs(prev, cur sql.DBStats) (attrs []slog.Attr, warn bool, ok bool) {
	waitDelta := cur.WaitCount - prev.WaitCount
	if waitDelta <= 0 {
		return nil, false, false
	}
	waitDurationDelta := cur.WaitDuration - prev.WaitDuration

	attrs = []slog.Attr{
		slog.Int64("waitCountDelta", waitDelta),
		slog.Duration("waitDurationDelta", waitDurationDelta),
		slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
		slog.Int("maxOpenConns", cur.MaxOpenConnections),
		slog.Int("openConns", cur.OpenConnections),
		slog.Int("inUseConns", cur.InUse),
		slog.Int("idleConns", cur.Idle),
	}

	return attrs, waitDurationDelta >= dbPoolWarnDurationThreshold, true
}
