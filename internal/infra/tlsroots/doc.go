// Package tlsroots loads TLS material for the server and the CLI.
//
// Pool builds client configurations that trust the system roots plus any
// extra CA files. Reloader serves a certificate pair that is re-read
// whenever either file changes, so certificates can be rotated without
// restarting the server.
package tlsroots
