package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/pkg/token"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Path:     filepath.Join(t.TempDir(), "restgate.db"),
		PoolSize: 2,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Accounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	companyID, err := s.CreateCompany(ctx, "Acme", "acme-key")
	if err != nil {
		t.Fatalf("CreateCompany() error = %v", err)
	}
	id, err := s.CreateUser(ctx, &NewUser{
		Username:     "ana@example.com",
		PublicKey:    "acme-key",
		PasswordHash: token.Digest("s3cret"),
		FullName:     "Ana Ruiz",
		CompanyID:    companyID,
		Role:         domain.RoleOperator,
		Lang:         "en",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	acct, err := s.FindAccount(ctx, "ana@example.com", "acme-key")
	if err != nil {
		t.Fatalf("FindAccount() error = %v", err)
	}
	if acct.ID != id || acct.PasswordHash != token.Digest("s3cret") {
		t.Errorf("FindAccount() = %+v", acct)
	}

	if _, err := s.FindAccount(ctx, "ana@example.com", "other-key"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("FindAccount(wrong key) error = %v", err)
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.CompanyName != "Acme" || u.RoleName != "operator" || u.Lang != "en" {
		t.Errorf("GetUser() = %+v", u)
	}

	if _, err := s.CreateUser(ctx, &NewUser{Username: "ana@example.com", PublicKey: "k", PasswordHash: "h"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("duplicate CreateUser() error = %v", err)
	}

	exists, err := s.UsernameExists(ctx, "ana@example.com")
	if err != nil || !exists {
		t.Errorf("UsernameExists() = %v, %v", exists, err)
	}
	found, err := s.SearchUsers(ctx, "Ruiz")
	if err != nil || len(found) != 1 {
		t.Errorf("SearchUsers() = %v, %v", found, err)
	}
	byRole, err := s.ListUsersByRole(ctx, domain.RoleAdmin)
	if err != nil || len(byRole) != 0 {
		t.Errorf("ListUsersByRole(admin) = %v, %v", byRole, err)
	}
	roles, err := s.ListRoles(ctx)
	if err != nil || len(roles) != 3 {
		t.Errorf("ListRoles() = %v, %v", roles, err)
	}
}

func TestStore_Tokens(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	issued := time.Date(2024, 5, 1, 8, 0, 0, 123, time.UTC)

	id, err := s.InsertToken(ctx, &domain.Token{UserID: 4, Value: "abc", RemoteIP: "10.0.0.1", CreatedAt: issued})
	if err != nil {
		t.Fatalf("InsertToken() error = %v", err)
	}
	if id == 0 {
		t.Fatal("InsertToken() returned zero id")
	}

	if _, err := s.InsertToken(ctx, &domain.Token{UserID: 5, Value: "abc", RemoteIP: "10.0.0.2", CreatedAt: issued}); !errors.Is(err, domain.ErrTokenConflict) {
		t.Errorf("duplicate InsertToken() error = %v, want ErrTokenConflict", err)
	}

	ttl := domain.DefaultTokenTTL
	tests := []struct {
		name  string
		ip    string
		now   time.Time
		valid bool
	}{
		{"fresh", "10.0.0.1", issued.Add(time.Minute), true},
		{"one nanosecond before expiry", "10.0.0.1", issued.Add(ttl - time.Nanosecond), true},
		{"exactly ten days", "10.0.0.1", issued.Add(ttl), false},
		{"expired", "10.0.0.1", issued.Add(ttl + time.Hour), false},
		{"other ip", "10.0.0.9", issued.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindValidToken(ctx, "abc", tt.ip, tt.now.Add(-ttl))
			if !tt.valid {
				if !errors.Is(err, domain.ErrTokenNotFound) {
					t.Errorf("FindValidToken() error = %v, want ErrTokenNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindValidToken() error = %v", err)
			}
			if got.UserID != 4 || !got.CreatedAt.Equal(issued) {
				t.Errorf("FindValidToken() = %+v", got)
			}
		})
	}
}

func TestStore_ConcurrentTokenInserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.InsertToken(ctx, &domain.Token{
				UserID:    1,
				Value:     fmt.Sprintf("tok-%d", i),
				RemoteIP:  "10.0.0.1",
				CreatedAt: time.Now(),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("InsertToken() error = %v", err)
		}
	}
}

func TestStore_Customers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	parentID, err := s.CreateCustomer(ctx, &domain.Customer{Name: "Acme", TIN: "900", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	childID, err := s.CreateCustomer(ctx, &domain.Customer{
		Name: "Acme North", TIN: "901", Email: "north@acme.test", ParentCustomerID: parentID, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCustomer(child) error = %v", err)
	}
	for i := 0; i < 3; i++ {
		s.CreateCustomer(ctx, &domain.Customer{Name: fmt.Sprintf("Zeta %d", i), TIN: fmt.Sprintf("Z%d", i), CreatedAt: now})
	}

	child, err := s.GetCustomer(ctx, childID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if child.ParentName != "Acme" || child.Email != "north@acme.test" {
		t.Errorf("GetCustomer() = %+v", child)
	}

	children, err := s.ListChildren(ctx, parentID)
	if err != nil || len(children) != 1 || children[0].ID != childID {
		t.Errorf("ListChildren() = %v, %v", children, err)
	}

	t.Run("exists", func(t *testing.T) {
		tests := []struct {
			name, cname, tin string
			exclude          int64
			want             bool
		}{
			{"same name", "Acme", "x", 0, true},
			{"same tin", "x", "901", 0, true},
			{"self excluded", "Acme", "900", parentID, false},
			{"new", "New Co", "777", 0, false},
		}
		for _, tt := range tests {
			got, err := s.CustomerExists(ctx, tt.cname, tt.tin, tt.exclude)
			if err != nil || got != tt.want {
				t.Errorf("%s: CustomerExists() = %v, %v; want %v", tt.name, got, err, tt.want)
			}
		}
	})

	t.Run("search", func(t *testing.T) {
		page, total, err := s.SearchCustomers(ctx, "Zeta", 1, 1)
		if err != nil {
			t.Fatalf("SearchCustomers() error = %v", err)
		}
		if total != 3 || len(page) != 1 || page[0].Name != "Zeta 1" {
			t.Errorf("SearchCustomers() = %v, %d", page, total)
		}
		byEmail, total, _ := s.SearchCustomers(ctx, "north@", 0, 10)
		if total != 1 || byEmail[0].ID != childID {
			t.Errorf("search by email = %v, %d", byEmail, total)
		}
	})

	t.Run("list cap", func(t *testing.T) {
		list, err := s.ListCustomers(ctx, 2)
		if err != nil || len(list) != 2 || list[0].Name != "Acme" {
			t.Errorf("ListCustomers() = %v, %v", list, err)
		}
	})

	t.Run("update", func(t *testing.T) {
		child.Phone = "555-0100"
		if err := s.UpdateCustomer(ctx, child); err != nil {
			t.Fatalf("UpdateCustomer() error = %v", err)
		}
		got, _ := s.GetCustomer(ctx, childID)
		if got.Phone != "555-0100" {
			t.Errorf("Phone = %q", got.Phone)
		}
		if err := s.UpdateCustomer(ctx, &domain.Customer{ID: 9999, Name: "x", TIN: "y"}); !errors.Is(err, domain.ErrNotModified) {
			t.Errorf("UpdateCustomer(missing) error = %v", err)
		}
	})

	t.Run("delete detaches children", func(t *testing.T) {
		if err := s.DeleteCustomer(ctx, parentID); err != nil {
			t.Fatalf("DeleteCustomer() error = %v", err)
		}
		if _, err := s.GetCustomer(ctx, parentID); !errors.Is(err, domain.ErrRecordNotFound) {
			t.Errorf("GetCustomer(deleted) error = %v", err)
		}
		got, _ := s.GetCustomer(ctx, childID)
		if got.ParentCustomerID != 0 || got.ParentName != "" {
			t.Errorf("child still attached: %+v", got)
		}
		if err := s.DeleteCustomer(ctx, parentID); !errors.Is(err, domain.ErrRecordNotFound) {
			t.Errorf("second DeleteCustomer() error = %v", err)
		}
	})
}

func TestStore_CountriesAndPhrases(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddCountry(ctx, "CO", "Colombia", "Antioquia", "Cundinamarca"); err != nil {
		t.Fatalf("AddCountry() error = %v", err)
	}
	if err := s.AddCountry(ctx, "CO", "Duplicate"); err == nil {
		t.Error("duplicate country code should fail")
	}

	countries, err := s.ListCountries(ctx)
	if err != nil || len(countries) != 1 {
		t.Errorf("ListCountries() = %v, %v", countries, err)
	}
	states, err := s.ListStates(ctx, "CO")
	if err != nil || len(states) != 2 || states[0].Name != "Antioquia" {
		t.Errorf("ListStates() = %v, %v", states, err)
	}

	if _, err := s.FindPhrase(ctx, "hello", "es"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("FindPhrase(missing) error = %v", err)
	}
	s.AddPhrase(ctx, &domain.Phrase{VarName: "hello", Lang: "es", Value: "Hola"})
	s.AddPhrase(ctx, &domain.Phrase{VarName: "hello", Lang: "es", Value: "Buenas"})
	s.AddPhrase(ctx, &domain.Phrase{VarName: "hello", Lang: "en", Value: "Hello"})

	p, err := s.FindPhrase(ctx, "hello", "es")
	if err != nil || p.Value != "Buenas" {
		t.Errorf("FindPhrase() = %+v, %v", p, err)
	}
	all, _ := s.ListPhrases(ctx, "en")
	if len(all) != 1 || all[0].Value != "Hello" {
		t.Errorf("ListPhrases(en) = %v", all)
	}

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestOpenPool_RequiresPath(t *testing.T) {
	if _, err := OpenPool(PoolConfig{}); err == nil {
		t.Error("OpenPool() without path should fail")
	}
}
