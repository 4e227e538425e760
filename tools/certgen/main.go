// Package main generates a development CA and a server certificate for
// running the Zenly API over TLS, writing them under the "certs" directory.
//
// Start the server with -tls-cert certs/server.crt -tls-key certs/server.key
// and point the client at the CA with -ca certs/ca.crt.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/zenly/internal/certgen"
)

const (
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1,::1", "comma separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts)); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificates generated into %s\n", *dir)
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// run writes ca.crt/ca.key and server.crt/server.key into dir. An existing
// CA in dir is reused so clients that already trust it keep working.
func run(dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	caCert, caKey := filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")

	ca, err := certgen.LoadAuthority(caCert, caKey)
	if err != nil {
		if _, statErr := os.Stat(caCert); statErr == nil {
			return fmt.Errorf("existing CA unusable: %w", err)
		}
		if ca, err = certgen.NewAuthority("Zenly Dev CA", caValidity); err != nil {
			return err
		}
		certPEM, keyPEM, err := ca.PEM()
		if err != nil {
			return err
		}
		if err := certgen.WritePair(caCert, caKey, certPEM, keyPEM); err != nil {
			return err
		}
	}

	certPEM, keyPEM, err := ca.IssueServer(hosts, serverValidity)
	if err != nil {
		return err
	}
	return certgen.WritePair(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM)
}
