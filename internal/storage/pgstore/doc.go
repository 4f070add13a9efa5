// Package pgstore implements the storage ports of package service on
// PostgreSQL through gorm and the pgx driver.
//
// It mirrors sqlitestore table for table. Migrate creates the tables and
// seeds the role catalog.
package pgstore
