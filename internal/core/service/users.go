package service

import (
	"context"
	"strings"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// UsersService serves user profiles and the role catalog.
type UsersService struct {
	store UserStore
}

// NewUsersService creates a UsersService.
func NewUsersService(store UserStore) *UsersService {
	return &UsersService{store: store}
}

// GetByID returns the profile of user id, including language and role.
func (s *UsersService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("user id must be positive")
	}
	return s.store.GetUser(ctx, id)
}

// List returns every user.
func (s *UsersService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// ListByRole returns the users holding role.
func (s *UsersService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.store.ListUsersByRole(ctx, role)
}

// Search matches term against username and full name.
func (s *UsersService) Search(ctx context.Context, term string) ([]*domain.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrMissingArgument.WithDetails("search term")
	}
	return s.store.SearchUsers(ctx, term)
}

// Roles returns the role catalog.
func (s *UsersService) Roles(ctx context.Context) ([]domain.UserRole, error) {
	return s.store.ListRoles(ctx)
}

// Exists reports whether username is taken.
func (s *UsersService) Exists(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.ErrMissingArgument.WithDetails("no user specified")
	}
	return s.store.UsernameExists(ctx, username)
}
