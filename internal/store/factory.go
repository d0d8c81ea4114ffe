// Package store opens the repository.Store selected by configuration.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/store/memstore"
	"github.com/Project-Legacy-LA/legacy-la/internal/store/pg"
)

type Config struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	Postgres    struct {
		MaxConns int32
		MinConns int32
	}
}

// Open returns the configured store. With AutoMigrate the embedded
// migrations run before the store is handed out.
func Open(ctx context.Context, cfg Config) (repository.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "pg", "postgresql":
		s, err := pg.New(ctx, pg.Config{
			DSN:      cfg.DSN,
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		})
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if _, err := s.Migrate(ctx); err != nil {
				s.Close()
				return nil, err
			}
		}
		return s, nil
	case "memory", "mem":
		logger.From(ctx).Warn("store: using in-memory driver, data is not persisted")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
