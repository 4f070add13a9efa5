package sqlitestore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// FindAccount implements service.AccountStore.
func (s *Store) FindAccount(ctx context.Context, username, publicKey string) (*domain.Account, error) {
	var account *domain.Account
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT id, username, public_key, password FROM users
			 WHERE username = ? AND public_key = ?`,
			&sqlitex.ExecOptions{
				Args: []any{username, publicKey},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					account = &domain.Account{
						ID:           stmt.ColumnInt64(0),
						Username:     stmt.ColumnText(1),
						PublicKey:    stmt.ColumnText(2),
						PasswordHash: stmt.ColumnText(3),
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: find account")
	}
	if account == nil {
		return nil, domain.ErrRecordNotFound
	}
	return account, nil
}

// InsertToken implements service.TokenStore.
func (s *Store) InsertToken(ctx context.Context, t *domain.Token) (int64, error) {
	var id int64
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`INSERT INTO tokens (user_id, token, remote_ip, date_created) VALUES (?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{t.UserID, t.Value, t.RemoteIP, t.CreatedAt.UnixNano()},
			})
		if err != nil {
			return err
		}
		id = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrTokenConflict
		}
		return 0, errors.Wrap(err, "sqlitestore: insert token")
	}
	return id, nil
}

// FindValidToken implements service.TokenStore.
func (s *Store) FindValidToken(ctx context.Context, value, ip string, notBefore time.Time) (*domain.Token, error) {
	var tok *domain.Token
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT id, user_id, token, remote_ip, date_created FROM tokens
			 WHERE token = ? AND remote_ip = ? AND date_created > ?
			 LIMIT 1`,
			&sqlitex.ExecOptions{
				Args: []any{value, ip, notBefore.UnixNano()},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					tok = &domain.Token{
						ID:        stmt.ColumnInt64(0),
						UserID:    stmt.ColumnInt64(1),
						Value:     stmt.ColumnText(2),
						RemoteIP:  stmt.ColumnText(3),
						CreatedAt: fromNanos(stmt.ColumnInt64(4)),
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: find token")
	}
	if tok == nil {
		return nil, domain.ErrTokenNotFound
	}
	return tok, nil
}
