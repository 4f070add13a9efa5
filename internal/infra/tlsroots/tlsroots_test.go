package tlsroots

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writePair writes a self-signed certificate for cn and returns the
// cert and key paths.
func writePair(t *testing.T, dir, cn string) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	if err := os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certPath, keyPath
}

func commonName(t *testing.T, r *Reloader) string {
	t.Helper()
	c, _ := r.GetCertificate(nil)
	leaf, err := x509.ParseCertificate(c.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	return leaf.Subject.CommonName
}

func TestPool_AddCertFile(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writePair(t, dir, "ca")

	p := NewEmptyPool()
	if err := p.AddCertFile(certPath); err != nil {
		t.Fatalf("AddCertFile() error = %v", err)
	}
	if err := p.AddCertFile(keyPath); !errors.Is(err, ErrNoCertsFound) {
		t.Errorf("AddCertFile(key) error = %v, want ErrNoCertsFound", err)
	}
	if err := p.AddCertFile(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("AddCertFile(missing) should fail")
	}

	cfg := p.ClientConfig(false)
	if cfg.RootCAs == nil || cfg.InsecureSkipVerify {
		t.Errorf("ClientConfig() = %+v", cfg)
	}
	if NewPool() == nil {
		t.Error("NewPool() returned nil")
	}
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writePair(t, dir, "first")

	r, err := NewReloader(certPath, keyPath, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	if got := commonName(t, r); got != "first" {
		t.Fatalf("CN = %q, want first", got)
	}
	if r.ServerConfig().GetCertificate == nil {
		t.Error("ServerConfig() has no GetCertificate")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Watch(ctx)
	time.Sleep(100 * time.Millisecond)

	writePair(t, dir, "second")
	deadline := time.Now().Add(3 * time.Second)
	for commonName(t, r) != "second" {
		if time.Now().After(deadline) {
			t.Fatal("certificate was not reloaded")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestReloader_KeepsOldOnFailure(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := writePair(t, dir, "good")
	r, err := NewReloader(certPath, keyPath, nil)
	if err != nil {
		t.Fatal(err)
	}

	os.WriteFile(keyPath, []byte("garbage"), 0o600)
	if err := r.Reload(); err == nil {
		t.Error("Reload() with broken key should fail")
	}
	if got := commonName(t, r); got != "good" {
		t.Errorf("CN = %q, previous certificate should stay", got)
	}
}

func TestNewReloader_Missing(t *testing.T) {
	if _, err := NewReloader("/nope.crt", "/nope.key", nil); err == nil {
		t.Error("NewReloader() should fail for missing files")
	}
}
