package sqlitestore

import (
	"context"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

func scanRef(stmt *sqlite.Stmt) domain.CustomerRef {
	return domain.CustomerRef{
		ID:   stmt.ColumnInt64(0),
		Name: stmt.ColumnText(1),
		TIN:  stmt.ColumnText(2),
	}
}

func (s *Store) queryRefs(ctx context.Context, query string, args ...any) ([]domain.CustomerRef, error) {
	refs := []domain.CustomerRef{}
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				refs = append(refs, scanRef(stmt))
				return nil
			},
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: query customers")
	}
	return refs, nil
}

// ListCustomers implements service.CustomerStore.
func (s *Store) ListCustomers(ctx context.Context, limit int) ([]domain.CustomerRef, error) {
	return s.queryRefs(ctx, "SELECT id, name, tin FROM customers ORDER BY name LIMIT ?", limit)
}

const customerMatch = ` FROM customers
	WHERE name LIKE ?1 OR tin LIKE ?1 OR contact_name LIKE ?1 OR email LIKE ?1`

// SearchCustomers implements service.CustomerStore.
func (s *Store) SearchCustomers(ctx context.Context, term string, offset, limit int) ([]domain.CustomerRef, int, error) {
	like := likeTerm(term)

	var total int
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT COUNT(*)"+customerMatch, &sqlitex.ExecOptions{
			Args: []any{like},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				total = int(stmt.ColumnInt64(0))
				return nil
			},
		})
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "sqlitestore: count customers")
	}

	refs, err := s.queryRefs(ctx, "SELECT id, name, tin"+customerMatch+" ORDER BY name, id LIMIT ?2 OFFSET ?3",
		like, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return refs, total, nil
}

// GetCustomer implements service.CustomerStore.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c *domain.Customer
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT c.id, c.name, c.tin, c.contact_name, c.email, c.phone, c.address,
			        c.parent_customer_id, COALESCE(p.name, ''), c.date_created
			 FROM customers c
			 LEFT JOIN customers p ON p.id = c.parent_customer_id
			 WHERE c.id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{id},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					c = &domain.Customer{
						ID:               stmt.ColumnInt64(0),
						Name:             stmt.ColumnText(1),
						TIN:              stmt.ColumnText(2),
						ContactName:      stmt.ColumnText(3),
						Email:            stmt.ColumnText(4),
						Phone:            stmt.ColumnText(5),
						Address:          stmt.ColumnText(6),
						ParentCustomerID: stmt.ColumnInt64(7),
						ParentName:       stmt.ColumnText(8),
						CreatedAt:        fromNanos(stmt.ColumnInt64(9)),
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: get customer")
	}
	if c == nil {
		return nil, domain.ErrRecordNotFound
	}
	return c, nil
}

// ListChildren implements service.CustomerStore.
func (s *Store) ListChildren(ctx context.Context, parentID int64) ([]domain.CustomerRef, error) {
	return s.queryRefs(ctx,
		"SELECT id, name, tin FROM customers WHERE parent_customer_id = ? ORDER BY name", parentID)
}

// CustomerExists implements service.CustomerStore.
func (s *Store) CustomerExists(ctx context.Context, name, tin string, excludeID int64) (bool, error) {
	var exists bool
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT 1 FROM customers WHERE (name = ? OR tin = ?) AND id <> ? LIMIT 1",
			&sqlitex.ExecOptions{
				Args: []any{name, tin, excludeID},
				ResultFunc: func(*sqlite.Stmt) error {
					exists = true
					return nil
				},
			})
	})
	if err != nil {
		return false, errors.Wrap(err, "sqlitestore: check customer")
	}
	return exists, nil
}

// CreateCustomer implements service.CustomerStore.
func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) (int64, error) {
	var id int64
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`INSERT INTO customers (name, tin, contact_name, email, phone, address, parent_customer_id, date_created)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{c.Name, c.TIN, c.ContactName, c.Email, c.Phone, c.Address,
					c.ParentCustomerID, c.CreatedAt.UnixNano()},
			})
		if err != nil {
			return err
		}
		id = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "sqlitestore: create customer")
	}
	return id, nil
}

// UpdateCustomer implements service.CustomerStore.
func (s *Store) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	var changed int
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`UPDATE customers SET name = ?, tin = ?, contact_name = ?, email = ?, phone = ?,
			        address = ?, parent_customer_id = ?
			 WHERE id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{c.Name, c.TIN, c.ContactName, c.Email, c.Phone, c.Address,
					c.ParentCustomerID, c.ID},
			})
		if err != nil {
			return err
		}
		changed = conn.Changes()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "sqlitestore: update customer")
	}
	if changed == 0 {
		return domain.ErrNotModified
	}
	return nil
}

// DeleteCustomer implements service.CustomerStore. Children are detached
// from the deleted parent in the same transaction.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) (err error) {
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

	if err = sqlitex.Execute(conn, "DELETE FROM customers WHERE id = ?",
		&sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return errors.Wrap(err, "sqlitestore: delete customer")
	}
	if conn.Changes() == 0 {
		return domain.ErrRecordNotFound
	}

	if err = sqlitex.Execute(conn, "UPDATE customers SET parent_customer_id = 0 WHERE parent_customer_id = ?",
		&sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return errors.Wrap(err, "sqlitestore: detach children")
	}
	return nil
}
