// Package localserver provides the local management socket of
// restgate-server.
//
// It listens on a Unix domain socket and accepts one command line per
// connection. No session token is required: file system permissions on
// the socket control access.
//
// Commands:
//
//   - status: version, uptime, log level and materialized resources (JSON)
//   - log-level [LEVEL]: show or change the log level
//   - reload: re-read the configuration file
//   - shutdown: stop the server gracefully
//   - help: list the commands
//
// A reply is the command output. Failures are a single line starting
// with "ERR ".
package localserver
