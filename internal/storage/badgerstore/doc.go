// Package badgerstore keeps issued tokens in an embedded Badger database.
//
// Each token is stored under "tok/<value>" as JSON. Row ids come from a
// Badger sequence. Expiry is evaluated on read; tokens are never
// rewritten.
package badgerstore
