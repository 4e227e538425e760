package certgen

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestAuthority(t *testing.T) *Authority {
	t.Helper()
	ca, err := NewAuthority("Test CA", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	return ca
}

func TestNewAuthority(t *testing.T) {
	ca := newTestAuthority(t)
	if !ca.Cert.IsCA || !ca.Cert.BasicConstraintsValid {
		t.Error("CA certificate must be a valid CA")
	}
	if ca.Cert.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Errorf("CA KeyUsage = %v; want CertSign", ca.Cert.KeyUsage)
	}
	if err := ca.Cert.CheckSignatureFrom(ca.Cert); err != nil {
		t.Errorf("CA is not self-signed: %v", err)
	}
}

func TestIssueServer_VerifiesAgainstCA(t *testing.T) {
	ca := newTestAuthority(t)
	certPEM, keyPEM, err := ca.IssueServer([]string{"localhost", "127.0.0.1", "::1"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueServer: %v", err)
	}

	// The pair must be loadable by a TLS server.
	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		t.Fatalf("X509KeyPair: %v", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("invalid cert PEM block: %v", block)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("parse cert: %v", err)
	}
	if cert.Subject.CommonName != "localhost" {
		t.Errorf("CommonName = %q; want localhost", cert.Subject.CommonName)
	}
	if len(cert.IPAddresses) != 2 || !cert.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")) {
		t.Errorf("IPAddresses = %v", cert.IPAddresses)
	}

	roots := x509.NewCertPool()
	roots.AddCert(ca.Cert)
	for _, name := range []string{"localhost", "127.0.0.1"} {
		if _, err := cert.Verify(x509.VerifyOptions{DNSName: name, Roots: roots}); err != nil {
			t.Errorf("verify for %s: %v", name, err)
		}
	}
	if _, err := cert.Verify(x509.VerifyOptions{DNSName: "zenly.com", Roots: roots}); err == nil {
		t.Error("certificate must not be valid for other hosts")
	}
}

func TestIssueServer_NoHosts(t *testing.T) {
	ca := newTestAuthority(t)
	if _, _, err := ca.IssueServer(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty host list")
	}
}

func TestWriteAndLoadAuthority(t *testing.T) {
	dir := t.TempDir()
	ca := newTestAuthority(t)
	certPEM, keyPEM, err := ca.PEM()
	if err != nil {
		t.Fatalf("PEM: %v", err)
	}
	certPath, keyPath := filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")
	if err := WritePair(certPath, keyPath, certPEM, keyPEM); err != nil {
		t.Fatalf("WritePair: %v", err)
	}

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key mode = %o; want 600", info.Mode().Perm())
	}

	loaded, err := LoadAuthority(certPath, keyPath)
	if err != nil {
		t.Fatalf("LoadAuthority: %v", err)
	}
	if !loaded.Cert.Equal(ca.Cert) || !loaded.Key.Equal(ca.Key) {
		t.Error("loaded authority differs from the written one")
	}
}

func TestLoadAuthority_Errors(t *testing.T) {
	dir := t.TempDir()
	ca := newTestAuthority(t)
	certPEM, keyPEM, err := ca.PEM()
	if err != nil {
		t.Fatal(err)
	}
	serverCert, serverKey, err := ca.IssueServer([]string{"localhost"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}
	goodCert, goodKey := write("ca.crt", certPEM), write("ca.key", keyPEM)

	tests := []struct {
		name      string
		cert, key string
		wantErr   string
	}{
		{"missing cert", filepath.Join(dir, "nope.crt"), goodKey, "read ca cert"},
		{"missing key", goodCert, filepath.Join(dir, "nope.key"), "read ca key"},
		{"garbage cert", write("bad.crt", []byte("junk")), goodKey, "invalid CA cert PEM"},
		{"garbage key", goodCert, write("bad.key", []byte("junk")), "invalid CA key PEM"},
		{"leaf certificate", write("leaf.crt", serverCert), write("leaf.key", serverKey), "not a CA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAuthority(tt.cert, tt.key)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
