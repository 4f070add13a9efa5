// Package service holds the business logic of every dispatched resource.
//
// Services depend on the storage ports declared in ports.go and never on
// a concrete backend, so the same service runs over sqlite, postgres or
// an in-memory token store.
//
// This package contains:
//
//   - LoginService: two-step challenge/response login, token issuance and
//     token validation
//   - UsersService: user profiles and the role catalog
//   - CustomersService: customer records with duplicate detection
//   - CountriesService: countries and their states
//   - LanguageService: translated phrases with a humanized fallback
//
// Services are safe for concurrent use. The registry builds exactly one
// of each per process.
package service
