// Package config defines the restgate-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation run before anything is opened
//   - sanitize.go: Copy with secrets masked, for logging
//
// Configuration is loaded via internal/infra/confloader from a YAML
// file and RESTGATE_ environment variables.
package config
