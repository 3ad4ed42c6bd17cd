package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lookup-cli/internal/store"
)

// initStore opens the run catalog configured by store.driver.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = "lookup.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DSN, &store.PoolConfig{
			MaxConns: int32(cfg.Store.Pool.MaxConns),
			MinConns: int32(cfg.Store.Pool.MinConns),
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
