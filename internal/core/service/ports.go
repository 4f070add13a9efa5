package service

import (
	"context"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// AccountStore looks up login accounts.
type AccountStore interface {
	// FindAccount returns the account matching both username and public key,
	// or domain.ErrRecordNotFound.
	FindAccount(ctx context.Context, username, publicKey string) (*domain.Account, error)
}

// TokenStore persists issued tokens. Tokens are append-only.
type TokenStore interface {
	// InsertToken stores t and returns its row id. A zero id with a nil
	// error means nothing was stored.
	InsertToken(ctx context.Context, t *domain.Token) (int64, error)

	// FindValidToken returns the token with the given value, issued to ip
	// strictly after notBefore, or domain.ErrTokenNotFound.
	FindValidToken(ctx context.Context, value, ip string, notBefore time.Time) (*domain.Token, error)
}

// UserStore reads user profiles.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListUsersByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]*domain.User, error)
	ListRoles(ctx context.Context) ([]domain.UserRole, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// CustomerStore reads and writes customers.
type CustomerStore interface {
	ListCustomers(ctx context.Context, limit int) ([]domain.CustomerRef, error)

	// SearchCustomers matches term against name, TIN, contact name and email.
	// It returns one page and the total number of matches.
	SearchCustomers(ctx context.Context, term string, offset, limit int) ([]domain.CustomerRef, int, error)

	// GetCustomer returns the customer with its parent's name filled in,
	// or domain.ErrRecordNotFound.
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListChildren(ctx context.Context, parentID int64) ([]domain.CustomerRef, error)

	// CustomerExists reports whether another customer has the same name or
	// TIN. The record with id excludeID is ignored.
	CustomerExists(ctx context.Context, name, tin string, excludeID int64) (bool, error)
	CreateCustomer(ctx context.Context, c *domain.Customer) (int64, error)

	// UpdateCustomer returns domain.ErrNotModified when no row matched.
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

// CountryStore reads countries and states.
type CountryStore interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListStates(ctx context.Context, countryCode string) ([]domain.State, error)
}

// PhraseStore reads and writes translated phrases.
type PhraseStore interface {
	ListPhrases(ctx context.Context, lang string) ([]domain.Phrase, error)

	// FindPhrase returns the phrase for varName in lang, or
	// domain.ErrRecordNotFound.
	FindPhrase(ctx context.Context, varName, lang string) (*domain.Phrase, error)
	AddPhrase(ctx context.Context, p *domain.Phrase) error
}

// Clock supplies the current time.
type Clock func() time.Time
