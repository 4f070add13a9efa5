package service

import (
	"context"
	"strings"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// DefaultMaxResults caps list and search pages.
const DefaultMaxResults = 1000

// Results is the paged result envelope.
type Results[T any] struct {
	Results   []T `json:"results"`
	From      int `json:"from"`
	To        int `json:"to"`
	RowCount  int `json:"row_count"`
	TotalRows int `json:"total_rows"`
}

// NewResults wraps one page of rows.
func NewResults[T any](rows []T, total, from, to int) *Results[T] {
	if rows == nil {
		rows = []T{}
	}
	return &Results[T]{
		Results:   rows,
		From:      from,
		To:        to,
		RowCount:  len(rows),
		TotalRows: total,
	}
}

// CustomersService manages customer records.
type CustomersService struct {
	store      CustomerStore
	maxResults int
	now        Clock
}

// NewCustomersService creates a CustomersService. maxResults <= 0 uses
// DefaultMaxResults; a nil now uses the wall clock.
func NewCustomersService(store CustomerStore, maxResults int, now Clock) *CustomersService {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if now == nil {
		now = time.Now
	}
	return &CustomersService{store: store, maxResults: maxResults, now: now}
}

// List returns up to maxResults customers ordered by name.
func (s *CustomersService) List(ctx context.Context) ([]domain.CustomerRef, error) {
	return s.store.ListCustomers(ctx, s.maxResults)
}

// Search returns one page of customers matching term, starting at offset.
func (s *CustomersService) Search(ctx context.Context, term string, offset int) (*Results[domain.CustomerRef], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrMissingArgument.WithDetails("search term")
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.store.SearchCustomers(ctx, term, offset, s.maxResults)
	if err != nil {
		return nil, err
	}
	return NewResults(rows, total, offset, offset+s.maxResults), nil
}

// Get returns customer id with its parent's name.
func (s *CustomersService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("customer id must be positive")
	}
	return s.store.GetCustomer(ctx, id)
}

// Children returns the customers whose parent is id.
func (s *CustomersService) Children(ctx context.Context, id int64) ([]domain.CustomerRef, error) {
	children, err := s.store.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []domain.CustomerRef{}
	}
	return children, nil
}

// Create stores c and returns the stored record. A customer sharing the
// name or TIN of an existing one is rejected with domain.ErrCustomerExists.
func (s *CustomersService) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	if err := validateCustomer(c); err != nil {
		return nil, err
	}

	exists, err := s.store.CustomerExists(ctx, c.Name, c.TIN, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrCustomerExists
	}

	c.ID = 0
	c.CreatedAt = s.now()
	id, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.store.GetCustomer(ctx, id)
}

// Update replaces customer id with c.
func (s *CustomersService) Update(ctx context.Context, id int64, c *domain.Customer) (*domain.Customer, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("customer id must be positive")
	}
	if err := validateCustomer(c); err != nil {
		return nil, err
	}
	if c.ParentCustomerID == id {
		return nil, domain.ErrInvalidArgument.WithDetails("customer cannot be its own parent")
	}

	exists, err := s.store.CustomerExists(ctx, c.Name, c.TIN, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrCustomerExists
	}

	c.ID = id
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return s.store.GetCustomer(ctx, id)
}

// Delete removes customer id.
func (s *CustomersService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidArgument.WithDetails("customer id must be positive")
	}
	return s.store.DeleteCustomer(ctx, id)
}

// MaxResults returns the page size.
func (s *CustomersService) MaxResults() int {
	return s.maxResults
}

func validateCustomer(c *domain.Customer) error {
	if c == nil {
		return domain.ErrMissingArgument.WithDetails("customer")
	}
	c.Name = strings.TrimSpace(c.Name)
	c.TIN = strings.TrimSpace(c.TIN)
	if c.Name == "" {
		return domain.ErrMissingArgument.WithDetails("name")
	}
	if c.TIN == "" {
		return domain.ErrMissingArgument.WithDetails("tin")
	}
	return nil
}
