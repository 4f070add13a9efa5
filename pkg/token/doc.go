// Package token provides session token generation and the SHA-1 digests
// used by the login challenge.
//
// Token formats:
//
//   - Legacy: 40 hex characters, SHA-1 of two small random integers
//     concatenated in decimal. The value space is only 10 * 701 tokens,
//     so a legacy token is guessable. It is the default because existing
//     clients depend on its format.
//   - Random: Base64 RawURL encoding of crypto/rand bytes.
//
// Challenge response:
//
//	response = hex(SHA1(publicKey + storedPasswordHash))
package token
