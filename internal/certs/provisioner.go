// Package certs provisions the self-signed key/certificate pair used by
// the HTTPS test server. Generation is delegated to the openssl binary.
package certs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/mitchellh/colorstring"

	"github.com/webxr-tools/xrdeploy/internal/config"
	"github.com/webxr-tools/xrdeploy/internal/execx"
)

const (
	keyBits      = 2048
	validityDays = 365
	subject      = "/CN=localhost"
)

// Provisioner creates or reuses the localhost certificate pair.
type Provisioner struct {
	cfg    *config.Config
	runner execx.Runner
	logger *slog.Logger
}

// New creates a Provisioner.
func New(cfg *config.Config, runner execx.Runner, logger *slog.Logger) *Provisioner {
	return &Provisioner{cfg: cfg, runner: runner, logger: logger}
}

// Ensure returns the paths of the certificate and key files, generating
// them with openssl if either is missing. When both files already exist
// they are reused without regeneration; existence is the only freshness
// check, so browsers only need to trust the pair once.
func (p *Provisioner) Ensure(ctx context.Context) (certFile, keyFile string, err error) {
	if err := os.MkdirAll(p.cfg.CertDir(), 0750); err != nil {
		return "", "", fmt.Errorf("creating certificate directory: %w", err)
	}

	certFile, keyFile = p.cfg.CertFile(), p.cfg.KeyFile()
	if fileExists(keyFile) && fileExists(certFile) {
		colorstring.Println("[green]✓ Using existing self-signed certificate")
		return certFile, keyFile, nil
	}

	fmt.Println("Generating self-signed certificate...")

	if err := p.openssl(ctx, "genrsa", "-out", keyFile, strconv.Itoa(keyBits)); err != nil {
		return "", "", fmt.Errorf("generating private key: %w", err)
	}

	if err := p.openssl(ctx,
		"req", "-new", "-x509",
		"-key", keyFile,
		"-out", certFile,
		"-days", strconv.Itoa(validityDays),
		"-subj", subject,
	); err != nil {
		return "", "", fmt.Errorf("generating certificate: %w", err)
	}

	colorstring.Printf("[green]✓ Certificate generated: %s\n", certFile)
	p.logger.Info("certificate pair generated",
		slog.String("cert", certFile), slog.String("key", keyFile))
	return certFile, keyFile, nil
}

func (p *Provisioner) openssl(ctx context.Context, args ...string) error {
	res, err := p.runner.Run(ctx, "", p.cfg.OpenSSLPath, args...)
	if err != nil {
		return fmt.Errorf("openssl %s: %w", args[0], err)
	}
	if !res.Success() {
		return fmt.Errorf("openssl %s failed (exit %d)\nOutput: %s", args[0], res.ExitCode, res.Output())
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
