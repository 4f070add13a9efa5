package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// mockStore implements every port over plain maps.
type mockStore struct {
	mu        sync.Mutex
	accounts  []*domain.Account
	tokens    []*domain.Token
	users     map[int64]*domain.User
	roles     []domain.UserRole
	customers map[int64]*domain.Customer
	countries []domain.Country
	states    map[string][]domain.State
	phrases   map[string]string // lang + "/" + var_name -> value

	nextID    int64
	insertErr error
	zeroID    bool
	failWith  error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[int64]*domain.User),
		customers: make(map[int64]*domain.Customer),
		states:    make(map[string][]domain.State),
		phrases:   make(map[string]string),
	}
}

func (m *mockStore) FindAccount(_ context.Context, username, publicKey string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.accounts {
		if a.Username == username && a.PublicKey == publicKey {
			return a, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockStore) InsertToken(_ context.Context, t *domain.Token) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	if m.zeroID {
		return 0, nil
	}
	for _, existing := range m.tokens {
		if existing.Value == t.Value {
			return 0, domain.ErrTokenConflict
		}
	}
	m.nextID++
	stored := *t
	stored.ID = m.nextID
	m.tokens = append(m.tokens, &stored)
	return stored.ID, nil
}

func (m *mockStore) FindValidToken(_ context.Context, value, ip string, notBefore time.Time) (*domain.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.Value == value && t.RemoteIP == ip && t.CreatedAt.After(notBefore) {
			return t, nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (m *mockStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockStore) ListUsers(context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockStore) ListUsersByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockStore) SearchUsers(_ context.Context, term string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		if strings.Contains(u.Username, term) || strings.Contains(u.FullName, term) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockStore) ListRoles(context.Context) ([]domain.UserRole, error) {
	return m.roles, nil
}

func (m *mockStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) ListCustomers(_ context.Context, limit int) ([]domain.CustomerRef, error) {
	var out []domain.CustomerRef
	for _, c := range m.customers {
		if len(out) == limit {
			break
		}
		out = append(out, domain.CustomerRef{ID: c.ID, Name: c.Name, TIN: c.TIN})
	}
	return out, nil
}

func (m *mockStore) SearchCustomers(_ context.Context, term string, offset, limit int) ([]domain.CustomerRef, int, error) {
	var all []domain.CustomerRef
	for id := int64(1); id <= m.nextID; id++ {
		c, ok := m.customers[id]
		if ok && strings.Contains(c.Name+" "+c.TIN, term) {
			all = append(all, domain.CustomerRef{ID: c.ID, Name: c.Name, TIN: c.TIN})
		}
	}
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockStore) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	out := *c
	if p, ok := m.customers[c.ParentCustomerID]; ok {
		out.ParentName = p.Name
	}
	return &out, nil
}

func (m *mockStore) ListChildren(_ context.Context, parentID int64) ([]domain.CustomerRef, error) {
	var out []domain.CustomerRef
	for _, c := range m.customers {
		if c.ParentCustomerID == parentID {
			out = append(out, domain.CustomerRef{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

func (m *mockStore) CustomerExists(_ context.Context, name, tin string, excludeID int64) (bool, error) {
	for _, c := range m.customers {
		if c.ID != excludeID && (c.Name == name || c.TIN == tin) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) CreateCustomer(_ context.Context, c *domain.Customer) (int64, error) {
	m.nextID++
	stored := *c
	stored.ID = m.nextID
	m.customers[stored.ID] = &stored
	return stored.ID, nil
}

func (m *mockStore) UpdateCustomer(_ context.Context, c *domain.Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return domain.ErrNotModified
	}
	stored := *c
	m.customers[c.ID] = &stored
	return nil
}

func (m *mockStore) DeleteCustomer(_ context.Context, id int64) error {
	if _, ok := m.customers[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *mockStore) ListCountries(context.Context) ([]domain.Country, error) {
	return m.countries, nil
}

func (m *mockStore) ListStates(_ context.Context, code string) ([]domain.State, error) {
	return m.states[code], nil
}

func (m *mockStore) ListPhrases(_ context.Context, lang string) ([]domain.Phrase, error) {
	var out []domain.Phrase
	for k, v := range m.phrases {
		l, name, _ := strings.Cut(k, "/")
		if l == lang {
			out = append(out, domain.Phrase{VarName: name, Lang: l, Value: v})
		}
	}
	return out, nil
}

func (m *mockStore) FindPhrase(_ context.Context, varName, lang string) (*domain.Phrase, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	v, ok := m.phrases[lang+"/"+varName]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &domain.Phrase{VarName: varName, Lang: lang, Value: v}, nil
}

func (m *mockStore) AddPhrase(_ context.Context, p *domain.Phrase) error {
	m.phrases[p.Lang+"/"+p.VarName] = p.Value
	return nil
}

var (
	_ AccountStore  = (*mockStore)(nil)
	_ TokenStore    = (*mockStore)(nil)
	_ UserStore     = (*mockStore)(nil)
	_ CustomerStore = (*mockStore)(nil)
	_ CountryStore  = (*mockStore)(nil)
	_ PhraseStore   = (*mockStore)(nil)
)
