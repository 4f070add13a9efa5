// Package sqlitestore is the default relational backend. It implements
// every storage port of package service on a single SQLite file through
// zombiezen.com/go/sqlite.
//
// Connections come from a fixed-size pool with WAL journaling and a busy
// timeout. The schema is applied on every new connection and is
// idempotent. Timestamps are stored as INTEGER unix nanoseconds so that
// token expiry compares exactly.
//
// Tokens are append-only; nothing in this package updates or deletes them.
package sqlitestore
