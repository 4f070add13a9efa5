package token

import (
	"crypto/sha1"
	"encoding/hex"
)

// Digest returns the hex encoded SHA-1 of s.
func Digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ChallengeResponse computes the value a client submits as its login
// password: the digest of the account public key followed by the stored
// password hash.
func ChallengeResponse(publicKey, passwordHash string) string {
	return Digest(publicKey + passwordHash)
}
