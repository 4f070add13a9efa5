package token

import (
	"crypto/rand"
	"encoding/base64"
	mrand "math/rand/v2"
	"strconv"
)

// DefaultLength is the default random token length in bytes.
const DefaultLength = 32

// Bounds of the two integers mixed into a legacy token.
const (
	legacyLowMin  = 1
	legacyLowMax  = 10
	legacyHighMin = 300
	legacyHighMax = 1000
)

// Generator produces opaque session tokens.
type Generator interface {
	Generate() (string, error)
}

// LegacyGenerator produces tokens compatible with existing clients.
type LegacyGenerator struct {
	intN func(n int) int
}

// NewLegacyGenerator returns a LegacyGenerator backed by math/rand/v2.
func NewLegacyGenerator() *LegacyGenerator {
	return &LegacyGenerator{intN: mrand.IntN}
}

// Generate implements Generator.
func (g *LegacyGenerator) Generate() (string, error) {
	intN := g.intN
	if intN == nil {
		intN = mrand.IntN
	}
	lo := legacyLowMin + intN(legacyLowMax-legacyLowMin+1)
	hi := legacyHighMin + intN(legacyHighMax-legacyHighMin+1)
	return Digest(strconv.Itoa(lo) + strconv.Itoa(hi)), nil
}

// RandomGenerator produces crypto/rand tokens of Length bytes.
type RandomGenerator struct {
	Length int
}

// Generate implements Generator.
func (g RandomGenerator) Generate() (string, error) {
	length := g.Length
	if length <= 0 {
		length = DefaultLength
	}
	return GenerateWithLength(length)
}

// GenerateWithLength generates a random token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewGenerator returns the generator registered under kind.
// Unknown kinds fall back to the legacy generator.
func NewGenerator(kind string) Generator {
	if kind == "random" {
		return RandomGenerator{Length: DefaultLength}
	}
	return NewLegacyGenerator()
}
