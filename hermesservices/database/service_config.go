package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lunagic/hermes/hermesservices/cache"
	"go.uber.org/zap"
)

type ServiceConfigFunc func(service *Service) error

func WithPostConnectFunc(callback func(db *sql.DB) error) ServiceConfigFunc {
	return func(service *Service) error {
		return callback(service.standardLibraryDB)
	}
}

func WithPreRunFunc(preRunFunc func(ctx context.Context, statement string, args []any) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.preRunFuncs = append(service.preRunFuncs, preRunFunc)
		return nil
	}
}

func WithPostRunFunc(postRunFunc func(ctx context.Context) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.postRunFuncs = append(service.postRunFuncs, postRunFunc)
		return nil
	}
}

func WithLogger(logger *slog.Logger) ServiceConfigFunc {
	return func(service *Service) error {
		service.preRunFuncs = append(service.preRunFuncs, func(ctx context.Context, statement string, args []any) error {
			logger.InfoContext(ctx, "Database Run",
				"dialect", service.dialect.String(),
				"statement", statement,
				"args", args,
			)

			return nil
		})

		return nil
	}
}

func WithZapLogger(logger *zap.Logger) ServiceConfigFunc {
	return WithPreRunFunc(func(ctx context.Context, statement string, args []any) error {
		logger.Debug("Database Run",
			zap.String("statement", statement),
			zap.Any("args", args),
		)

		return nil
	})
}

// WithTableCache caches ListTables for ttl.
func WithTableCache(driver cache.Driver, ttl time.Duration) ServiceConfigFunc {
	return func(service *Service) error {
		service.tableCache = cache.NewRepository[string, []string](driver, "hermes-tables")
		service.tableCacheTTL = ttl
		return nil
	}
}
