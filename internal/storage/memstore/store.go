// Package memstore keeps issued tokens in process memory.
//
// Tokens do not survive a restart. Use it for tests and single-node
// deployments where a lost session only means logging in again. Like the
// relational tables the store is append-only: expired tokens stay until
// the process exits, so a value is never issued twice.
package memstore

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/service"
	"github.com/yndnr/restgate-go/pkg/cmap"
)

// Store implements service.TokenStore on a sharded map keyed by token value.
type Store struct {
	tokens *cmap.Map[string, domain.Token]
	lastID atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{tokens: cmap.New[string, domain.Token]()}
}

// InsertToken implements service.TokenStore.
func (s *Store) InsertToken(_ context.Context, t *domain.Token) (int64, error) {
	stored := *t
	stored.ID = s.lastID.Add(1)
	if !s.tokens.SetIfAbsent(t.Value, stored) {
		return 0, domain.ErrTokenConflict
	}
	return stored.ID, nil
}

// FindValidToken implements service.TokenStore.
func (s *Store) FindValidToken(_ context.Context, value, ip string, notBefore time.Time) (*domain.Token, error) {
	tok, ok := s.tokens.Get(value)
	if !ok || tok.RemoteIP != ip || !tok.CreatedAt.After(notBefore) {
		return nil, domain.ErrTokenNotFound
	}
	return &tok, nil
}

// Len returns the number of stored tokens.
func (s *Store) Len() int {
	return s.tokens.Count()
}

var _ service.TokenStore = (*Store)(nil)
