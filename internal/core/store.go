package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/duynhne/vchartered/config"
	"github.com/duynhne/vchartered/internal/core/domain"
	"github.com/duynhne/vchartered/internal/core/repository"
)

// Store bundles the repositories of one backend together with its lifecycle.
type Store struct {
	Users    domain.UserRepository
	Results  domain.ResultRepository
	Activity domain.ActivityRepository

	ping      func(ctx context.Context) error
	close     func()
	closeOnce sync.Once
}

// Open connects to the configured backend, migrates it and returns the
// repositories bound to it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Users:    repository.NewUserRepository(pool),
			Results:  repository.NewResultRepository(pool),
			Activity: repository.NewActivityRepository(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := MigrateSQLite(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{
			Users:    repository.NewSQLiteUserRepository(db),
			Results:  repository.NewSQLiteResultRepository(db),
			Activity: repository.NewSQLiteActivityRepository(db),
			ping:     db.PingContext,
			close:    func() { _ = db.Close() },
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the underlying connections. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(s.close)
}
