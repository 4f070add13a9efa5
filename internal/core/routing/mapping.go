package routing

import (
	"fmt"
	"sort"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// Mapping is the immutable route mapping from resource name to
// implementation identifier, e.g. "customers" -> "Customers".
type Mapping struct {
	workspace string
	entries   map[domain.ResourceName]string
}

// NewMapping copies entries into a Mapping under workspace.
func NewMapping(workspace string, entries map[string]string) *Mapping {
	m := &Mapping{
		workspace: workspace,
		entries:   make(map[domain.ResourceName]string, len(entries)),
	}
	for name, impl := range entries {
		m.entries[domain.ResourceName(name)] = impl
	}
	return m
}

// Lookup returns the implementation identifier mapped to name.
func (m *Mapping) Lookup(name domain.ResourceName) (string, bool) {
	impl, ok := m.entries[name]
	return impl, ok
}

// ServiceID returns the catalog key of the service implementation,
// e.g. "Rest.Customers.CustomersService".
func (m *Mapping) ServiceID(impl string) string {
	return fmt.Sprintf("%s.%s.%sService", m.workspace, impl, impl)
}

// ControllerID returns the catalog key of the controller implementation.
func (m *Mapping) ControllerID(impl string) string {
	return fmt.Sprintf("%s.%s.%sController", m.workspace, impl, impl)
}

// Names returns the mapped resource names in sorted order.
func (m *Mapping) Names() []domain.ResourceName {
	names := make([]domain.ResourceName, 0, len(m.entries))
	for n := range m.entries {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Workspace returns the namespace fragment shared by all implementations.
func (m *Mapping) Workspace() string {
	return m.workspace
}
