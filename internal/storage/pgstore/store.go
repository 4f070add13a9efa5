package pgstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/service"
)

// Store implements the storage ports of package service on PostgreSQL.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Connect opens a connection pool for dsn and pings it.
func Connect(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pgstore: dsn is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("pgstore: resolve sql handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}

	logger.Info("postgres store connected")
	return New(db, logger), nil
}

// New wraps an open gorm handle.
func New(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates missing tables and seeds the role catalog.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(allModels()...); err != nil {
		return errors.Wrap(err, "pgstore: migrate")
	}
	roles := []roleModel{
		{ID: int64(domain.RoleAdmin), RoleName: "admin"},
		{ID: int64(domain.RoleOperator), RoleName: "operator"},
		{ID: int64(domain.RoleReader), RoleName: "reader"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return errors.Wrap(err, "pgstore: seed roles")
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.PingContext(ctx))
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindAccount implements service.AccountStore.
func (s *Store) FindAccount(ctx context.Context, username, publicKey string) (*domain.Account, error) {
	var row userModel
	err := s.db.WithContext(ctx).
		Where("username = ? AND public_key = ?", username, publicKey).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "pgstore: find account")
	}
	return &domain.Account{
		ID:           row.ID,
		Username:     row.Username,
		PublicKey:    row.PublicKey,
		PasswordHash: row.Password,
	}, nil
}

// InsertToken implements service.TokenStore.
func (s *Store) InsertToken(ctx context.Context, t *domain.Token) (int64, error) {
	row := tokenModelFromDomain(t)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrTokenConflict
		}
		return 0, errors.Wrap(err, "pgstore: insert token")
	}
	return row.ID, nil
}

// FindValidToken implements service.TokenStore.
func (s *Store) FindValidToken(ctx context.Context, value, ip string, notBefore time.Time) (*domain.Token, error) {
	var row tokenModel
	err := s.db.WithContext(ctx).
		Where("token = ? AND remote_ip = ? AND date_created > ?", value, ip, notBefore).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, errors.Wrap(err, "pgstore: find token")
	}
	return row.toDomain(), nil
}

func (s *Store) users(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("users u").
		Select("u.*, COALESCE(c.name, '') AS company_name, COALESCE(r.role_name, '') AS role_name").
		Joins("LEFT JOIN companies c ON c.id = u.company_id").
		Joins("LEFT JOIN user_roles r ON r.id = u.role")
}

func (s *Store) scanUsers(tx *gorm.DB) ([]*domain.User, error) {
	var rows []userRow
	if err := tx.Order("u.username").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "pgstore: query users")
	}
	users := make([]*domain.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toDomain())
	}
	return users, nil
}

// GetUser implements service.UserStore.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	users, err := s.scanUsers(s.users(ctx).Where("u.id = ?", id))
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
	return s.scanUsers(s.users(ctx))
}

// ListUsersByRole implements service.UserStore.
func (s *Store) ListUsersByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.scanUsers(s.users(ctx).Where("u.role = ?", int64(role)))
}

// SearchUsers implements service.UserStore.
func (s *Store) SearchUsers(ctx context.Context, term string) ([]*domain.User, error) {
	like := "%" + term + "%"
	return s.scanUsers(s.users(ctx).Where("u.username ILIKE ? OR u.full_name ILIKE ?", like, like))
}

// ListRoles implements service.UserStore.
func (s *Store) ListRoles(ctx context.Context) ([]domain.UserRole, error) {
	var rows []roleModel
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "pgstore: list roles")
	}
	roles := make([]domain.UserRole, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, domain.UserRole{ID: domain.Role(r.ID), Name: r.RoleName})
	}
	return roles, nil
}

// UsernameExists implements service.UserStore.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&userModel{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "pgstore: check username")
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ service.AccountStore  = (*Store)(nil)
	_ service.TokenStore    = (*Store)(nil)
	_ service.UserStore     = (*Store)(nil)
	_ service.CustomerStore = (*Store)(nil)
	_ service.CountryStore  = (*Store)(nil)
	_ service.PhraseStore   = (*Store)(nil)
)
