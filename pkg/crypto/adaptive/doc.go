// Package adaptive seals small records with an AEAD cipher chosen for the
// host CPU: AES-GCM where the platform has AES instructions, otherwise
// ChaCha20-Poly1305.
//
// The nonce is prepended to every sealed record, so Decrypt needs nothing
// but the key and the additional data used at Encrypt time.
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(record, aad)
//	record, err := c.Decrypt(sealed, aad)
package adaptive
