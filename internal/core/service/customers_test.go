package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

func newCustomersFixture(maxResults int) (*CustomersService, *mockStore) {
	store := newMockStore()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewCustomersService(store, maxResults, func() time.Time { return now }), store
}

func TestCustomersService_Create(t *testing.T) {
	svc, _ := newCustomersFixture(0)
	ctx := context.Background()

	parent, err := svc.Create(ctx, &domain.Customer{Name: " Acme ", TIN: "900123"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if parent.ID == 0 || parent.Name != "Acme" || parent.CreatedAt.IsZero() {
		t.Errorf("Create() = %+v", parent)
	}

	child, err := svc.Create(ctx, &domain.Customer{Name: "Acme North", TIN: "900124", ParentCustomerID: parent.ID})
	if err != nil {
		t.Fatalf("Create(child) error = %v", err)
	}
	if child.ParentName != "Acme" {
		t.Errorf("ParentName = %q, want Acme", child.ParentName)
	}

	tests := []struct {
		name string
		in   *domain.Customer
		want error
	}{
		{"duplicate name", &domain.Customer{Name: "Acme", TIN: "1"}, domain.ErrCustomerExists},
		{"duplicate tin", &domain.Customer{Name: "Other", TIN: "900123"}, domain.ErrCustomerExists},
		{"missing name", &domain.Customer{TIN: "2"}, domain.ErrMissingArgument},
		{"missing tin", &domain.Customer{Name: "Other"}, domain.ErrMissingArgument},
		{"nil", nil, domain.ErrMissingArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}

	children, err := svc.Children(ctx, parent.ID)
	if err != nil || len(children) != 1 || children[0].ID != child.ID {
		t.Errorf("Children() = %v, %v", children, err)
	}
}

func TestCustomersService_Update(t *testing.T) {
	svc, _ := newCustomersFixture(0)
	ctx := context.Background()

	a, _ := svc.Create(ctx, &domain.Customer{Name: "Alpha", TIN: "1"})
	b, _ := svc.Create(ctx, &domain.Customer{Name: "Beta", TIN: "2"})

	got, err := svc.Update(ctx, a.ID, &domain.Customer{Name: "Alpha", TIN: "1", Email: "ops@alpha.test"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Email != "ops@alpha.test" {
		t.Errorf("Email = %q", got.Email)
	}

	if _, err := svc.Update(ctx, a.ID, &domain.Customer{Name: "Beta", TIN: "1"}); !errors.Is(err, domain.ErrCustomerExists) {
		t.Errorf("rename onto Beta error = %v, want ErrCustomerExists", err)
	}
	if _, err := svc.Update(ctx, b.ID, &domain.Customer{Name: "Beta", TIN: "2", ParentCustomerID: b.ID}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("self parent error = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Update(ctx, 999, &domain.Customer{Name: "Gamma", TIN: "3"}); !errors.Is(err, domain.ErrNotModified) {
		t.Errorf("missing record error = %v, want ErrNotModified", err)
	}
}

func TestCustomersService_Search(t *testing.T) {
	svc, _ := newCustomersFixture(2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, &domain.Customer{Name: fmt.Sprintf("Shop %d", i), TIN: fmt.Sprintf("T%d", i)}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := svc.Search(ctx, "Shop", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.From != 2 || page.To != 4 || page.RowCount != 2 || page.TotalRows != 5 {
		t.Errorf("envelope = %+v", page)
	}
	if page.Results[0].Name != "Shop 2" {
		t.Errorf("first result = %q, want Shop 2", page.Results[0].Name)
	}

	empty, err := svc.Search(ctx, "nothing", -3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if empty.From != 0 || empty.Results == nil || empty.RowCount != 0 {
		t.Errorf("empty envelope = %+v", empty)
	}

	if _, err := svc.Search(ctx, "  ", 0); !errors.Is(err, domain.ErrMissingArgument) {
		t.Errorf("blank term error = %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Errorf("List() returned %d rows, err %v; want cap 2", len(list), err)
	}
}

func TestCustomersService_GetDelete(t *testing.T) {
	svc, _ := newCustomersFixture(0)
	ctx := context.Background()

	c, _ := svc.Create(ctx, &domain.Customer{Name: "Solo", TIN: "9"})
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
	if _, err := svc.Get(ctx, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Get(0) error = %v", err)
	}
	if err := svc.Delete(ctx, -1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Delete(-1) error = %v", err)
	}
	if svc.MaxResults() != DefaultMaxResults {
		t.Errorf("MaxResults() = %d", svc.MaxResults())
	}
}
