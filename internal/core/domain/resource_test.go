package domain

import "testing"

func TestParseResourceName(t *testing.T) {
	tests := []struct {
		in   string
		want ResourceName
	}{
		{"customers", "customers"},
		{"customers.service", "customers"},
		{"customers.controller", "customers"},
		{"user-roles", "user-roles"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseResourceName(tt.in)
			if got != tt.want {
				t.Errorf("ParseResourceName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := ParseResourceName(string(got)); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestResourceName_Keys(t *testing.T) {
	n := ResourceName("login")
	if n.ServiceKey() != "login.service" {
		t.Errorf("ServiceKey() = %q", n.ServiceKey())
	}
	if n.ControllerKey() != "login.controller" {
		t.Errorf("ControllerKey() = %q", n.ControllerKey())
	}
}

func TestNameFromType(t *testing.T) {
	tests := []struct {
		typeName string
		suffix   string
		want     ResourceName
	}{
		{"CustomersService", "Service", "customers"},
		{"CustomersController", "Controller", "customers"},
		{"UserRolesController", "Controller", "user-roles"},
		{"Login", "Service", "login"},
		{"customers", "Service", "customers"},
		{"user-roles", "Controller", "user-roles"},
		{"Api2Keys", "", "api2-keys"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			if got := NameFromType(tt.typeName, tt.suffix); got != tt.want {
				t.Errorf("NameFromType(%q, %q) = %q, want %q", tt.typeName, tt.suffix, got, tt.want)
			}
		})
	}
}
