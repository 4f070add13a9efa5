// Package credential provides password protection primitives for restgate.
//
// It implements a constant-time comparator and a PBKDF2 key derivation
// with a packed, self-describing storage format:
//
//	algorithm:iterations:salt:base64(derived-key)
//
// Usage:
//
//	packed, err := credential.Derive("s3cret")
//	ok, err := credential.Validate("s3cret", packed)
//
// The salt segment is stored base64 encoded and the encoded text itself is
// what the derivation consumes. Hashes produced by other systems using the
// same convention therefore validate unchanged.
package credential
