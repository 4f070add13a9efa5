package domain

import (
	"strings"
	"unicode"
)

// Canonical suffixes of registry keys.
const (
	ServiceSuffix    = ".service"
	ControllerSuffix = ".controller"
)

// ResourceName identifies a dispatchable resource, e.g. "customers".
type ResourceName string

// String implements fmt.Stringer.
func (n ResourceName) String() string {
	return string(n)
}

// ServiceKey returns the registry key of the resource's service.
func (n ResourceName) ServiceKey() string {
	return string(n) + ServiceSuffix
}

// ControllerKey returns the registry key of the resource's controller.
func (n ResourceName) ControllerKey() string {
	return string(n) + ControllerSuffix
}

// ParseResourceName strips a canonical service or controller suffix from
// name. Already canonical names are returned unchanged.
func ParseResourceName(name string) ResourceName {
	name = strings.TrimSuffix(name, ServiceSuffix)
	name = strings.TrimSuffix(name, ControllerSuffix)
	return ResourceName(name)
}

// NameFromType derives a resource name from a type name by removing
// suffix and hyphenating lower to upper case transitions:
//
//	NameFromType("CustomersService", "Service")     // "customers"
//	NameFromType("UserRolesController", "Controller") // "user-roles"
//
// Applying it to an already canonical name returns the name unchanged.
func NameFromType(typeName, suffix string) ResourceName {
	base := strings.TrimSuffix(typeName, suffix)

	var b strings.Builder
	b.Grow(len(base) + 4)

	var prev rune
	for i, r := range base {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return ResourceName(b.String())
}
