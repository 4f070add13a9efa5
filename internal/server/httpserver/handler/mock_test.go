package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// fakeDB implements every record store port in memory.
type fakeDB struct {
	mu        sync.Mutex
	accounts  []*domain.Account
	users     map[int64]*domain.User
	roles     []domain.UserRole
	customers map[int64]*domain.Customer
	nextID    int64
	countries []domain.Country
	states    map[string][]domain.State
	phrases   map[string]string // lang + "/" + var_name
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:     make(map[int64]*domain.User),
		customers: make(map[int64]*domain.Customer),
		states:    make(map[string][]domain.State),
		phrases:   make(map[string]string),
	}
}

func (db *fakeDB) FindAccount(_ context.Context, username, publicKey string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.accounts {
		if a.Username == username && a.PublicKey == publicKey {
			return a, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (db *fakeDB) GetUser(_ context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (db *fakeDB) filterUsers(keep func(*domain.User) bool) []*domain.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*domain.User
	for _, u := range db.users {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (db *fakeDB) ListUsers(context.Context) ([]*domain.User, error) {
	return db.filterUsers(func(*domain.User) bool { return true }), nil
}

func (db *fakeDB) ListUsersByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	return db.filterUsers(func(u *domain.User) bool { return u.Role == role }), nil
}

func (db *fakeDB) SearchUsers(_ context.Context, term string) ([]*domain.User, error) {
	return db.filterUsers(func(u *domain.User) bool {
		return strings.Contains(u.Username, term) || strings.Contains(u.FullName, term)
	}), nil
}

func (db *fakeDB) ListRoles(context.Context) ([]domain.UserRole, error) {
	return db.roles, nil
}

func (db *fakeDB) UsernameExists(_ context.Context, username string) (bool, error) {
	return len(db.filterUsers(func(u *domain.User) bool { return u.Username == username })) > 0, nil
}

func (db *fakeDB) refs(keep func(*domain.Customer) bool) []domain.CustomerRef {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []domain.CustomerRef
	for _, c := range db.customers {
		if keep(c) {
			out = append(out, domain.CustomerRef{ID: c.ID, Name: c.Name, TIN: c.TIN})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (db *fakeDB) ListCustomers(_ context.Context, limit int) ([]domain.CustomerRef, error) {
	rows := db.refs(func(*domain.Customer) bool { return true })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (db *fakeDB) SearchCustomers(_ context.Context, term string, offset, limit int) ([]domain.CustomerRef, int, error) {
	rows := db.refs(func(c *domain.Customer) bool {
		return strings.Contains(c.Name, term) || strings.Contains(c.TIN, term)
	})
	total := len(rows)
	if offset >= total {
		return nil, total, nil
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, total, nil
}

func (db *fakeDB) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.customers[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *c
	if p, ok := db.customers[c.ParentCustomerID]; ok {
		cp.ParentName = p.Name
	}
	return &cp, nil
}

func (db *fakeDB) ListChildren(_ context.Context, parentID int64) ([]domain.CustomerRef, error) {
	return db.refs(func(c *domain.Customer) bool { return c.ParentCustomerID == parentID }), nil
}

func (db *fakeDB) CustomerExists(_ context.Context, name, tin string, excludeID int64) (bool, error) {
	rows := db.refs(func(c *domain.Customer) bool {
		return c.ID != excludeID && (c.Name == name || c.TIN == tin)
	})
	return len(rows) > 0, nil
}

func (db *fakeDB) CreateCustomer(_ context.Context, c *domain.Customer) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID++
	cp := *c
	cp.ID = db.nextID
	db.customers[cp.ID] = &cp
	return cp.ID, nil
}

func (db *fakeDB) UpdateCustomer(_ context.Context, c *domain.Customer) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	old, ok := db.customers[c.ID]
	if !ok {
		return domain.ErrNotModified
	}
	cp := *c
	cp.CreatedAt = old.CreatedAt
	db.customers[c.ID] = &cp
	return nil
}

func (db *fakeDB) DeleteCustomer(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.customers[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(db.customers, id)
	return nil
}

func (db *fakeDB) ListCountries(context.Context) ([]domain.Country, error) {
	return db.countries, nil
}

func (db *fakeDB) ListStates(_ context.Context, code string) ([]domain.State, error) {
	return db.states[code], nil
}

func (db *fakeDB) ListPhrases(_ context.Context, lang string) ([]domain.Phrase, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []domain.Phrase
	for key, value := range db.phrases {
		l, name, _ := strings.Cut(key, "/")
		if l == lang {
			out = append(out, domain.Phrase{VarName: name, Lang: l, Value: value})
		}
	}
	return out, nil
}

func (db *fakeDB) FindPhrase(_ context.Context, varName, lang string) (*domain.Phrase, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	value, ok := db.phrases[lang+"/"+varName]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &domain.Phrase{VarName: varName, Lang: lang, Value: value}, nil
}

func (db *fakeDB) AddPhrase(_ context.Context, p *domain.Phrase) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.phrases[p.Lang+"/"+p.VarName] = p.Value
	return nil
}

// fixedClock returns a clock pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
