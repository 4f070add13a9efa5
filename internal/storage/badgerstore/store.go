package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/service"
	"github.com/yndnr/restgate-go/pkg/crypto/adaptive"
)

const (
	tokenPrefix  = "tok/"
	sequenceKey  = "seq/tokens"
	sequenceSize = 100
)

// Config holds Badger tuning parameters.
type Config struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in memory. Used by tests.
	InMemory bool

	// GCInterval is the interval between value log GC runs (default: 10m).
	GCInterval time.Duration

	// GCThreshold is the discard ratio that triggers a rewrite (default: 0.5).
	GCThreshold float64

	SyncWrites bool

	// Cipher, when set, seals every stored record. The token value is
	// bound as additional data so records cannot be swapped between keys.
	Cipher adaptive.Cipher
}

// Store implements service.TokenStore on Badger.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	cfg    Config
	logger *slog.Logger

	metricsSize prometheus.GaugeFunc

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// Open opens the database and starts the GC loop.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badgerstore: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 || cfg.GCThreshold >= 1 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(&badgerLogger{logger: logger})
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open db: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), sequenceSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badgerstore: sequence: %w", err)
	}

	s := &Store{
		db:     db,
		seq:    seq,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.InMemory {
		close(s.doneCh)
	} else {
		go s.gcLoop()
	}

	logger.Info("badger token store opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory,
		"gc_interval", cfg.GCInterval)

	return s, nil
}

// InsertToken implements service.TokenStore.
func (s *Store) InsertToken(_ context.Context, t *domain.Token) (int64, error) {
	next, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("badgerstore: next id: %w", err)
	}
	stored := *t
	stored.ID = int64(next) + 1

	key := []byte(tokenPrefix + t.Value)
	data, err := s.encode(key, &stored)
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return domain.ErrTokenConflict
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrConflict) {
		return 0, domain.ErrTokenConflict
	}
	if err != nil {
		if errors.Is(err, domain.ErrTokenConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("badgerstore: insert token: %w", err)
	}
	return stored.ID, nil
}

// FindValidToken implements service.TokenStore.
func (s *Store) FindValidToken(_ context.Context, value, ip string, notBefore time.Time) (*domain.Token, error) {
	var tok domain.Token
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tokenPrefix + value))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return s.decode(item.Key(), val, &tok)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badgerstore: find token: %w", err)
	}

	if tok.RemoteIP != ip || !tok.CreatedAt.After(notBefore) {
		return nil, domain.ErrTokenNotFound
	}
	return &tok, nil
}

func (s *Store) encode(key []byte, t *domain.Token) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: encode token: %w", err)
	}
	if s.cfg.Cipher == nil {
		return data, nil
	}
	sealed, err := s.cfg.Cipher.Encrypt(data, key)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: seal token: %w", err)
	}
	return sealed, nil
}

func (s *Store) decode(key, val []byte, t *domain.Token) error {
	if s.cfg.Cipher != nil {
		plain, err := s.cfg.Cipher.Decrypt(val, key)
		if err != nil {
			return fmt.Errorf("badgerstore: open token: %w", err)
		}
		val = plain
	}
	return json.Unmarshal(val, t)
}

// Count returns the number of stored tokens, live or expired.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(tokenPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// GC runs value log GC until nothing more can be rewritten.
func (s *Store) GC() error {
	for {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badgerstore: gc: %w", err)
		}
	}
}

// RegisterMetrics exposes the on-disk size through registerer.
func (s *Store) RegisterMetrics(registerer prometheus.Registerer) error {
	s.metricsSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "restgate",
		Subsystem: "badger",
		Name:      "size_bytes",
		Help:      "Badger LSM plus value log size in bytes.",
	}, func() float64 {
		lsm, vlog := s.db.Size()
		return float64(lsm + vlog)
	})
	return registerer.Register(s.metricsSize)
}

// Close stops the GC loop and closes the database.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		if relErr := s.seq.Release(); relErr != nil {
			s.logger.Warn("release badger sequence", "error", relErr)
		}
		err = s.db.Close()
	})
	return err
}

func (s *Store) gcLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.GC(); err != nil {
				s.logger.Error("badger gc failed", "error", err)
			}
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

var _ service.TokenStore = (*Store)(nil)
