package pgstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenModel(t *testing.T) {
	created := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	in := &domain.Token{UserID: 3, Value: "abc", RemoteIP: "10.0.0.1", CreatedAt: created}

	row := tokenModelFromDomain(in)
	row.ID = 11
	out := row.toDomain()

	if out.ID != 11 || out.UserID != 3 || out.Value != "abc" || out.RemoteIP != "10.0.0.1" || !out.CreatedAt.Equal(created) {
		t.Errorf("round trip = %+v", out)
	}
}

func TestCustomerRow(t *testing.T) {
	row := customerRow{
		customerModel: customerModelFromDomain(&domain.Customer{ID: 2, Name: "Acme North", TIN: "901", ParentCustomerID: 1}),
		ParentName:    "Acme",
	}
	c := row.toDomain()
	if c.ParentName != "Acme" || c.ParentCustomerID != 1 || c.Name != "Acme North" {
		t.Errorf("toDomain() = %+v", c)
	}
}

func TestUserRow(t *testing.T) {
	row := userRow{
		userModel:   userModel{ID: 5, Username: "ana", Role: 2, Lang: "en"},
		CompanyName: "Acme",
		RoleName:    "operator",
	}
	u := row.toDomain()
	if u.Role != domain.RoleOperator || u.CompanyName != "Acme" || u.Lang != "en" {
		t.Errorf("toDomain() = %+v", u)
	}
}

func TestTableNames(t *testing.T) {
	want := map[string]bool{
		"user_roles": true, "companies": true, "users": true, "tokens": true,
		"customers": true, "countries": true, "states": true, "language": true,
	}
	for _, m := range allModels() {
		tn, ok := m.(interface{ TableName() string })
		if !ok {
			t.Fatalf("%T has no TableName", m)
		}
		if !want[tn.TableName()] {
			t.Errorf("unexpected table %q", tn.TableName())
		}
		delete(want, tn.TableName())
	}
	if len(want) != 0 {
		t.Errorf("missing tables: %v", want)
	}
}

func TestConnect_RequiresDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "", nil); err == nil {
		t.Error("Connect() without dsn should fail")
	}
}
