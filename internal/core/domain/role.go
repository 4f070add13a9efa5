package domain

import (
	"net/http"
	"strings"
)

// Role is the integer role identifier stored on a user.
type Role int

// Built-in roles.
const (
	RoleAdmin    Role = 1
	RoleOperator Role = 2
	RoleReader   Role = 3
)

// AllMethods is the wildcard permission.
const AllMethods = "*"

// RolePolicy maps each role to its allowed HTTP methods. The same set
// applies to every resource.
type RolePolicy map[Role][]string

// DefaultRolePolicy returns the built-in role permissions.
func DefaultRolePolicy() RolePolicy {
	return RolePolicy{
		RoleAdmin:    {AllMethods},
		RoleOperator: {http.MethodGet, http.MethodPost},
		RoleReader:   {http.MethodGet},
	}
}

// Allows reports whether role may issue requests with method.
// Unknown roles are denied.
func (p RolePolicy) Allows(role Role, method string) bool {
	for _, m := range p[role] {
		if m == AllMethods || strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
