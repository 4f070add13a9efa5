package sqlitestore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

const userColumns = `u.id, u.username, u.full_name, u.company_id, COALESCE(c.name, ''),
	u.role, COALESCE(r.role_name, ''), u.phone, u.lang, u.date_created`

const userFrom = ` FROM users u
	LEFT JOIN companies c ON c.id = u.company_id
	LEFT JOIN user_roles r ON r.id = u.role`

func scanUser(stmt *sqlite.Stmt) *domain.User {
	return &domain.User{
		ID:          stmt.ColumnInt64(0),
		Username:    stmt.ColumnText(1),
		FullName:    stmt.ColumnText(2),
		CompanyID:   stmt.ColumnInt64(3),
		CompanyName: stmt.ColumnText(4),
		Role:        domain.Role(stmt.ColumnInt64(5)),
		RoleName:    stmt.ColumnText(6),
		Phone:       stmt.ColumnText(7),
		Lang:        stmt.ColumnText(8),
		CreatedAt:   fromNanos(stmt.ColumnInt64(9)),
	}
}

func (s *Store) queryUsers(ctx context.Context, where string, args ...any) ([]*domain.User, error) {
	users := []*domain.User{}
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT "+userColumns+userFrom+where+" ORDER BY u.username",
			&sqlitex.ExecOptions{
				Args: args,
				ResultFunc: func(stmt *sqlite.Stmt) error {
					users = append(users, scanUser(stmt))
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: query users")
	}
	return users, nil
}

// GetUser implements service.UserStore.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	users, err := s.queryUsers(ctx, " WHERE u.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return users[0], nil
}

// ListUsers implements service.UserStore.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.queryUsers(ctx, "")
}

// ListUsersByRole implements service.UserStore.
func (s *Store) ListUsersByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.queryUsers(ctx, " WHERE u.role = ?", int64(role))
}

// SearchUsers implements service.UserStore.
func (s *Store) SearchUsers(ctx context.Context, term string) ([]*domain.User, error) {
	like := likeTerm(term)
	return s.queryUsers(ctx, " WHERE u.username LIKE ? OR u.full_name LIKE ?", like, like)
}

// ListRoles implements service.UserStore.
func (s *Store) ListRoles(ctx context.Context) ([]domain.UserRole, error) {
	roles := []domain.UserRole{}
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT id, role_name FROM user_roles ORDER BY id",
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					roles = append(roles, domain.UserRole{
						ID:   domain.Role(stmt.ColumnInt64(0)),
						Name: stmt.ColumnText(1),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, errors.Wrap(err, "sqlitestore: list roles")
	}
	return roles, nil
}

// UsernameExists implements service.UserStore.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT 1 FROM users WHERE username = ? LIMIT 1",
			&sqlitex.ExecOptions{
				Args: []any{username},
				ResultFunc: func(*sqlite.Stmt) error {
					exists = true
					return nil
				},
			})
	})
	if err != nil {
		return false, errors.Wrap(err, "sqlitestore: check username")
	}
	return exists, nil
}

// NewUser describes a user to create.
type NewUser struct {
	Username     string
	PublicKey    string
	PasswordHash string
	FullName     string
	CompanyID    int64
	Role         domain.Role
	Phone        string
	Lang         string
	CreatedAt    time.Time
}

// CreateUser inserts a user and returns its id.
func (s *Store) CreateUser(ctx context.Context, u *NewUser) (int64, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	var id int64
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`INSERT INTO users (username, public_key, password, full_name, company_id, role, phone, lang, date_created)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{u.Username, u.PublicKey, u.PasswordHash, u.FullName, u.CompanyID,
					int64(u.Role), u.Phone, u.Lang, u.CreatedAt.UnixNano()},
			})
		if err != nil {
			return err
		}
		id = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrInvalidArgument.WithDetails("username already exists")
		}
		return 0, errors.Wrap(err, "sqlitestore: create user")
	}
	return id, nil
}

// CreateCompany inserts a company and returns its id.
func (s *Store) CreateCompany(ctx context.Context, name, publicKey string) (int64, error) {
	var id int64
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, "INSERT INTO companies (name, public_key) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{name, publicKey}})
		if err != nil {
			return err
		}
		id = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "sqlitestore: create company")
	}
	return id, nil
}
