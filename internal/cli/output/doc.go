// Package output renders API responses for restgate-cli.
//
// Responses arrive as decoded JSON, so the table formatter works on
// []any of map[string]any records as well as on plain Go structs:
//
//   - table: aligned columns, nested values summarized unless wide
//   - json:  indented JSON, unchanged payload
//   - yaml:  YAML via go.yaml.in/yaml/v3
//
// Spinner shows progress while the CLI polls the server.
package output
