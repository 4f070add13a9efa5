// Package main provides the entry point for restgate-cli.
//
// The CLI talks to a restgate-server over its REST API:
//
//   - Profile management (connect, profile list/use/remove)
//   - Challenge login and logout
//   - Raw requests (get, post, put, delete) on resource paths
//   - Shortcuts for users, customers, countries and language
//   - Health and readiness probes
//
// Usage:
//
//	restgate-cli connect http://localhost:8080
//	restgate-cli --public-key PK login --email admin@acme.test --password secret
//	restgate-cli -o json customers search acme
//	restgate-cli post --data '{"name":"Acme","tin":"900"}' customers
//	restgate-cli shell
package main
