// Package config holds the restgate-cli configuration file
// (~/.restgate/cli.yaml): named connection profiles, the active profile
// and output preferences. Files are read with koanf and written as YAML
// with 0600 permissions because profiles carry session tokens.
package config
