package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yndnr/restgate-go/internal/core/service"
	"github.com/yndnr/restgate-go/internal/server/config"
	"github.com/yndnr/restgate-go/internal/server/httpserver/handler"
	"github.com/yndnr/restgate-go/internal/storage/badgerstore"
	"github.com/yndnr/restgate-go/internal/storage/memstore"
	"github.com/yndnr/restgate-go/internal/storage/pgstore"
	"github.com/yndnr/restgate-go/internal/storage/sqlitestore"
	"github.com/yndnr/restgate-go/internal/telemetry/metric"
	"github.com/yndnr/restgate-go/pkg/crypto/adaptive"
)

// relationalStore is implemented by sqlitestore.Store and pgstore.Store.
type relationalStore interface {
	service.AccountStore
	service.TokenStore
	service.UserStore
	service.CustomerStore
	service.CountryStore
	service.PhraseStore
	Ping(ctx context.Context) error
	Close() error
}

// backends holds the opened storage and everything needed to stop it.
type backends struct {
	stores  handler.Stores
	checks  map[string]handler.ReadyCheck
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func (b *backends) onClose(name string, fn func() error) {
	b.closers = append(b.closers, namedCloser{name: name, close: fn})
}

// Close closes the backends in reverse order of opening.
func (b *backends) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", b.closers[i].name, err)
		}
	}
	b.closers = nil
	return first
}

// openBackends opens the relational store and the token store selected by
// cfg.
func openBackends(ctx context.Context, cfg *config.ServerConfig, m *metric.Registry, logger *slog.Logger) (*backends, error) {
	b := &backends{checks: make(map[string]handler.ReadyCheck)}

	rel, err := openRelational(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	b.onClose(cfg.Storage.Driver, rel.Close)
	b.checks[cfg.Storage.Driver] = rel.Ping

	b.stores = handler.Stores{
		Accounts:  rel,
		Tokens:    rel,
		Users:     rel,
		Customers: rel,
		Countries: rel,
		Phrases:   rel,
	}

	switch cfg.Storage.TokenDriver() {
	case config.DriverBadger:
		store, err := openBadger(cfg.Storage.Badger, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.onClose(config.DriverBadger, store.Close)
		if m != nil {
			if err := store.RegisterMetrics(m.Registerer()); err != nil {
				logger.Warn("badger metrics not registered", "error", err)
			}
		}
		b.stores.Tokens = store

	case config.DriverMemory:
		b.stores.Tokens = memstore.New()
	}

	logger.Info("storage opened",
		"driver", cfg.Storage.Driver,
		"tokens", cfg.Storage.TokenDriver())
	return b, nil
}

func openRelational(ctx context.Context, s config.StorageSection, logger *slog.Logger) (relationalStore, error) {
	switch s.Driver {
	case config.DriverPostgres:
		store, err := pgstore.Connect(ctx, s.Postgres.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if s.Postgres.Migrate {
			if err := store.Migrate(ctx); err != nil {
				store.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		return store, nil

	case config.DriverSQLite:
		store, err := sqlitestore.Open(ctx, sqlitestore.Config{
			Path:     s.SQLite.Path,
			PoolSize: s.SQLite.PoolSize,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", s.Driver)
}

func openBadger(bc config.BadgerConfig, logger *slog.Logger) (*badgerstore.Store, error) {
	key, err := bc.Key()
	if err != nil {
		return nil, err
	}
	var cipher adaptive.Cipher
	if key != nil {
		if cipher, err = adaptive.New(key); err != nil {
			return nil, fmt.Errorf("token cipher: %w", err)
		}
	}
	store, err := badgerstore.Open(badgerstore.Config{
		Dir:         bc.Dir,
		GCInterval:  bc.GCInterval,
		GCThreshold: bc.GCThreshold,
		SyncWrites:  bc.SyncWrites,
		Cipher:      cipher,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return store, nil
}
