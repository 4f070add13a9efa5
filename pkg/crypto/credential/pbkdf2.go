package credential

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Defaults for newly derived hashes.
const (
	DefaultAlgorithm  = "sha256"
	DefaultIterations = 1000
	DefaultSaltBytes  = 24
	DefaultKeyBytes   = 24
)

// Positions of the packed sections.
const (
	sectionAlgorithm = iota
	sectionIterations
	sectionSalt
	sectionKey
	sectionCount
)

var (
	// ErrMalformedHash is returned when a packed hash cannot be parsed.
	ErrMalformedHash = errors.New("credential: malformed packed hash")

	// ErrUnsupportedAlgorithm is returned for an unknown hash algorithm name.
	ErrUnsupportedAlgorithm = errors.New("credential: unsupported algorithm")
)

var algorithms = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Params controls a derivation.
type Params struct {
	Algorithm  string
	Iterations int
	SaltBytes  int
	KeyBytes   int
}

// DefaultParams returns the parameters used by Derive.
func DefaultParams() Params {
	return Params{
		Algorithm:  DefaultAlgorithm,
		Iterations: DefaultIterations,
		SaltBytes:  DefaultSaltBytes,
		KeyBytes:   DefaultKeyBytes,
	}
}

// Derive hashes password with DefaultParams and a fresh random salt.
func Derive(password string) (string, error) {
	return DeriveWith(password, DefaultParams())
}

// DeriveWith hashes password with the given parameters and a fresh salt.
func DeriveWith(password string, p Params) (string, error) {
	newHash, ok := algorithms[strings.ToLower(p.Algorithm)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, p.Algorithm)
	}
	if p.Iterations <= 0 || p.SaltBytes <= 0 || p.KeyBytes <= 0 {
		return "", fmt.Errorf("credential: invalid params %+v", p)
	}

	raw := make([]byte, p.SaltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("credential: read salt: %w", err)
	}
	salt := base64.StdEncoding.EncodeToString(raw)

	key := pbkdf2.Key([]byte(password), []byte(salt), p.Iterations, p.KeyBytes, newHash)

	return strings.Join([]string{
		strings.ToLower(p.Algorithm),
		strconv.Itoa(p.Iterations),
		salt,
		base64.StdEncoding.EncodeToString(key),
	}, ":"), nil
}

// Validate reports whether password matches the packed hash.
//
// The derived key length is taken from the stored key, so hashes created
// with non-default sizes validate as well.
func Validate(password, packed string) (bool, error) {
	sections := strings.Split(packed, ":")
	if len(sections) < sectionCount {
		return false, ErrMalformedHash
	}

	newHash, ok := algorithms[strings.ToLower(sections[sectionAlgorithm])]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, sections[sectionAlgorithm])
	}

	iterations, err := strconv.Atoi(sections[sectionIterations])
	if err != nil || iterations <= 0 {
		return false, ErrMalformedHash
	}

	stored, err := base64.StdEncoding.DecodeString(sections[sectionKey])
	if err != nil || len(stored) == 0 {
		return false, ErrMalformedHash
	}

	derived := pbkdf2.Key([]byte(password), []byte(sections[sectionSalt]), iterations, len(stored), newHash)
	return SlowEquals(stored, derived), nil
}
