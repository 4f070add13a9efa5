package sqlitestore

import (
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_roles (
	id        INTEGER PRIMARY KEY,
	role_name TEXT NOT NULL
);

INSERT OR IGNORE INTO user_roles (id, role_name) VALUES
	(1, 'admin'),
	(2, 'operator'),
	(3, 'reader');

CREATE TABLE IF NOT EXISTS companies (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	public_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	username     TEXT NOT NULL UNIQUE,
	public_key   TEXT NOT NULL,
	password     TEXT NOT NULL,
	full_name    TEXT NOT NULL DEFAULT '',
	company_id   INTEGER NOT NULL DEFAULT 0,
	role         INTEGER NOT NULL DEFAULT 3,
	phone        TEXT NOT NULL DEFAULT '',
	lang         TEXT NOT NULL DEFAULT '',
	date_created INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tokens (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL,
	token        TEXT NOT NULL UNIQUE,
	remote_ip    TEXT NOT NULL,
	date_created INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS tokens_lookup ON tokens (token, remote_ip, date_created);

CREATE TABLE IF NOT EXISTS customers (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL,
	tin                TEXT NOT NULL,
	contact_name       TEXT NOT NULL DEFAULT '',
	email              TEXT NOT NULL DEFAULT '',
	phone              TEXT NOT NULL DEFAULT '',
	address            TEXT NOT NULL DEFAULT '',
	parent_customer_id INTEGER NOT NULL DEFAULT 0,
	date_created       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS customers_parent ON customers (parent_customer_id);

CREATE TABLE IF NOT EXISTS countries (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS states (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	country_id INTEGER NOT NULL,
	code       TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS language (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	var_name  TEXT NOT NULL,
	lang_code TEXT NOT NULL,
	value     TEXT NOT NULL,
	UNIQUE (var_name, lang_code)
);
`

func applySchema(conn *sqlite.Conn) error {
	return sqlitex.ExecuteScript(conn, schema, nil)
}
