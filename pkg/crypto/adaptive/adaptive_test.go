package adaptive

import (
	"bytes"
	"errors"
	"testing"
)

func testKey(n int) []byte {
	k := make([]byte, n)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func TestNewWithType(t *testing.T) {
	tests := []struct {
		name    string
		typ     CipherType
		keyLen  int
		wantErr bool
	}{
		{"aes-128", CipherAESGCM, 16, false},
		{"aes-192", CipherAESGCM, 24, false},
		{"aes-256", CipherAESGCM, 32, false},
		{"aes bad key", CipherAESGCM, 20, true},
		{"chacha", CipherChaCha20, 32, false},
		{"chacha short key", CipherChaCha20, 16, true},
		{"unknown", "rot13", 32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewWithType(testKey(tt.keyLen), tt.typ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWithType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", c.Type(), tt.typ)
			}
		})
	}
}

func TestPreferredType(t *testing.T) {
	if got := preferredType("amd64"); got != CipherAESGCM {
		t.Errorf("preferredType(amd64) = %s", got)
	}
	if got := preferredType("mips"); got != CipherChaCha20 {
		t.Errorf("preferredType(mips) = %s", got)
	}
	if _, err := New(testKey(32)); err != nil {
		t.Errorf("New() error = %v", err)
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	for _, typ := range []CipherType{CipherAESGCM, CipherChaCha20} {
		t.Run(string(typ), func(t *testing.T) {
			c, err := NewWithType(testKey(32), typ)
			if err != nil {
				t.Fatalf("NewWithType() error = %v", err)
			}
			plain := []byte(`{"user_id":7}`)
			aad := []byte("tok/abc")

			sealed, err := c.Encrypt(plain, aad)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(sealed) != len(plain)+c.NonceSize()+c.Overhead() {
				t.Errorf("sealed length = %d", len(sealed))
			}
			again, _ := c.Encrypt(plain, aad)
			if bytes.Equal(sealed, again) {
				t.Error("two encryptions produced identical output")
			}

			got, err := c.Decrypt(sealed, aad)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(got, plain) {
				t.Errorf("Decrypt() = %q, want %q", got, plain)
			}

			if _, err := c.Decrypt(sealed, []byte("tok/other")); err == nil {
				t.Error("Decrypt() with wrong aad should fail")
			}
			sealed[len(sealed)-1] ^= 0xff
			if _, err := c.Decrypt(sealed, aad); err == nil {
				t.Error("Decrypt() of tampered record should fail")
			}
			if _, err := c.Decrypt([]byte{1, 2}, aad); !errors.Is(err, ErrShortCiphertext) {
				t.Errorf("Decrypt(short) error = %v", err)
			}
		})
	}
}
