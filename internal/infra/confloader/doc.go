// Package confloader loads configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Maps loaded with LoadMap (command-line flags)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Values already present in the target struct
//
// Environment names are matched against the koanf tags of the target, so
// RESTGATE_API_MAX_RESULTS sets api.max_results and
// RESTGATE_API_ROUTE_MAPPING_ORDERS sets the "orders" entry of the
// api.route_mapping map.
//
// Watcher reports file changes so callers can re-apply settings that are
// safe to change at runtime.
package confloader
