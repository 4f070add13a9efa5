package sqlitestore

import (
	"context"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// ListPhrases implements service.PhraseStore.
func (s *Store) ListPhrases(ctx context.Context, lang string) ([]domain.Phrase, error) {
	phrases := []domain.Phrase{}
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT var_name, lang_code, value FROM language WHERE lang_code = ? ORDER BY var_name",
			&sqlitex.ExecOptions{
				Args: []any{lang},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					phrases = append(phrases, domain.Phrase{
						VarName: stmt.ColumnText(0),
						Lang:    stmt.ColumnText(1),
						Value:   stmt.ColumnText(2),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: list phrases")
	}
	return phrases, nil
}

// FindPhrase implements service.PhraseStore.
func (s *Store) FindPhrase(ctx context.Context, varName, lang string) (*domain.Phrase, error) {
	var p *domain.Phrase
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT value FROM language WHERE var_name = ? AND lang_code = ?",
			&sqlitex.ExecOptions{
				Args: []any{varName, lang},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					p = &domain.Phrase{VarName: varName, Lang: lang, Value: stmt.ColumnText(0)}
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: find phrase")
	}
	if p == nil {
		return nil, domain.ErrRecordNotFound
	}
	return p, nil
}

// AddPhrase implements service.PhraseStore. An existing translation is
// replaced.
func (s *Store) AddPhrase(ctx context.Context, p *domain.Phrase) error {
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO language (var_name, lang_code, value) VALUES (?, ?, ?)
			 ON CONFLICT (var_name, lang_code) DO UPDATE SET value = excluded.value`,
			&sqlitex.ExecOptions{Args: []any{p.VarName, p.Lang, p.Value}})
	})
	if err != nil {
		return errors.Wrap(err, "sqlitestore: add phrase")
	}
	return nil
}
