package sqlitestore

import (
	"context"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// ListCountries implements service.CountryStore.
func (s *Store) ListCountries(ctx context.Context) ([]domain.Country, error) {
	countries := []domain.Country{}
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT id, code, name FROM countries ORDER BY name",
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					countries = append(countries, domain.Country{
						ID:   stmt.ColumnInt64(0),
						Code: stmt.ColumnText(1),
						Name: stmt.ColumnText(2),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: list countries")
	}
	return countries, nil
}

// ListStates implements service.CountryStore.
func (s *Store) ListStates(ctx context.Context, countryCode string) ([]domain.State, error) {
	states := []domain.State{}
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT s.id, s.country_id, s.code, s.name FROM states s
			 JOIN countries c ON c.id = s.country_id
			 WHERE c.code = ?
			 ORDER BY s.name`,
			&sqlitex.ExecOptions{
				Args: []any{countryCode},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					states = append(states, domain.State{
						ID:        stmt.ColumnInt64(0),
						CountryID: stmt.ColumnInt64(1),
						Code:      stmt.ColumnText(2),
						Name:      stmt.ColumnText(3),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: list states")
	}
	return states, nil
}

// AddCountry inserts a country with its states in one transaction.
func (s *Store) AddCountry(ctx context.Context, code, name string, states ...string) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return errors.Wrap(err, "sqlitestore: begin transaction")
	}
	defer endTransaction(&err)

	if err = sqlitex.Execute(conn, "INSERT INTO countries (code, name) VALUES (?, ?)",
		&sqlitex.ExecOptions{Args: []any{code, name}}); err != nil {
		return errors.Wrap(err, "sqlitestore: add country")
	}
	countryID := conn.LastInsertRowID()

	for _, state := range states {
		if err = sqlitex.Execute(conn, "INSERT INTO states (country_id, name) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{countryID, state}}); err != nil {
			return errors.Wrap(err, "sqlitestore: add state")
		}
	}
	return nil
}
