// Package command defines the restgate-cli commands.
//
// Commands are built with urfave/cli/v2. Each command resolves the active
// profile through connection.Manager, sends its request with
// connection.HTTPClient and prints the result with the output package:
//
//   - root.go: App, global flags and shared helpers
//   - connect.go: connect, disconnect and profile management
//   - login.go: challenge login and logout
//   - request.go: raw get, post, put and delete on resource paths
//   - resources.go: shortcuts for the built-in resources
//   - system.go: health and readiness probes
//   - shell.go: interactive mode
package command
