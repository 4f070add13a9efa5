package sqlitestore

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yndnr/restgate-go/internal/core/service"
)

// Config holds the parameters for opening a Store.
type Config struct {
	Path     string
	PoolSize int
	Logger   *slog.Logger
}

// Store implements the storage ports of package service on SQLite.
type Store struct {
	pool   *Pool
	logger *slog.Logger
}

// Open opens or creates the database at cfg.Path and applies the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := OpenPool(PoolConfig{
		Path:      cfg.Path,
		PoolSize:  cfg.PoolSize,
		Logger:    logger,
		OnConnect: applySchema,
	})
	if err != nil {
		return nil, err
	}

	s := &Store{pool: pool, logger: logger}

	// Take one connection now so schema errors surface at startup.
	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	pool.Put(conn)

	return s, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Ping takes and returns a connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.ExecuteTransient(conn, "SELECT 1", nil)
	})
}

func (s *Store) exec(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	defer s.pool.Put(conn)
	return fn(conn)
}

func isUniqueViolation(err error) bool {
	return sqlite.ErrCode(err) == sqlite.ResultConstraintUnique
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func likeTerm(term string) string {
	return "%" + term + "%"
}

var (
	_ service.AccountStore  = (*Store)(nil)
	_ service.TokenStore    = (*Store)(nil)
	_ service.UserStore     = (*Store)(nil)
	_ service.CustomerStore = (*Store)(nil)
	_ service.CountryStore  = (*Store)(nil)
	_ service.PhraseStore   = (*Store)(nil)
)
