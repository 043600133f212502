package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/migrations"
	"github.com/yigit/deptportal/internal/config"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/docstore/memory"
	mongostore "github.com/yigit/deptportal/internal/docstore/mongo"
	pgstore "github.com/yigit/deptportal/internal/docstore/postgres"
)

// OpenStore connects the backend selected by store.driver. For postgres the
// embedded migrations run before the store is returned.
func OpenStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		var opts []memory.Option
		if !cfg.Store.Memory.CompositeIndexes {
			opts = append(opts, memory.WithoutCompositeIndexes())
		}
		lgr.Warn().Msg("Using the in-memory document store; data is lost on exit")
		return memory.New(opts...), nil

	case config.DriverPostgres:
		pg, err := NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := migrations.NewMigrator(pg.Pool, lgr).Migrate(ctx, migrations.Files()); err != nil {
			pg.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Str("host", cfg.Store.Postgres.Host).Str("db", cfg.Store.Postgres.DBName).Msg("Postgres document store ready")
		return pgstore.New(pg.Pool), nil

	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		lgr.Info().Str("db", cfg.Store.Mongo.Database).Msg("MongoDB document store ready")
		return mongostore.New(client, cfg.Store.Mongo.Database), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
