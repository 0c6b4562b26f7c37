package cmd

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webxr-tools/xrdeploy/internal/config"
	"github.com/webxr-tools/xrdeploy/internal/execx"
	"github.com/webxr-tools/xrdeploy/internal/execx/mocks"
	"github.com/webxr-tools/xrdeploy/internal/toolchain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoot_RejectsUnknownCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"frobnicate"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestDoServe_NoBuildOutput(t *testing.T) {
	cfg := &config.Config{BuildDir: filepath.Join(t.TempDir(), "missing")}
	runner := &mocks.MockRunner{}

	err := doServe(context.Background(), cfg, runner, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build directory not found")
	assert.Empty(t, runner.Calls, "no external process may run without build output")
}

func TestDoServe_FallsBackToPlainHTTP(t *testing.T) {
	cfg := &config.Config{BuildDir: t.TempDir(), HTTPPort: 0, OpenSSLPath: "openssl"}
	runner := &mocks.MockRunner{Responses: []mocks.Response{
		{Result: execx.Result{ExitCode: 1, Stderr: []byte("genrsa: error")}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- doServe(ctx, cfg, runner, testLogger()) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err, "plain fallback runs and stops cleanly")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDoBuild_TotalFailureOutcome(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "webxr_test.c")
	require.NoError(t, os.WriteFile(src, []byte("int main(void){return 0;}\n"), 0600))
	cfg := &config.Config{
		BuildDir:   filepath.Join(dir, "webxr_build"),
		SourceFile: src,
		EmccPath:   "emcc",
	}
	runner := &mocks.MockRunner{Responses: []mocks.Response{
		{}, // probe
		{Result: execx.Result{ExitCode: 1}},
		{Result: execx.Result{ExitCode: 1}},
	}}

	got := doBuild(context.Background(), cfg, runner, testLogger())
	assert.Equal(t, toolchain.BuildFailed, got)
}

// opensslFake mimics openssl by writing pre-generated PEM files to the
// requested output paths, so the provisioned pair actually loads in the
// TLS server.
type opensslFake struct {
	calls   int
	keyPEM  []byte
	certPEM []byte
}

func (f *opensslFake) Run(_ context.Context, _ string, _ string, args ...string) (execx.Result, error) {
	f.calls++
	switch args[0] {
	case "genrsa":
		return execx.Result{}, os.WriteFile(args[2], f.keyPEM, 0600)
	case "req":
		return execx.Result{}, os.WriteFile(args[6], f.certPEM, 0600)
	default:
		return execx.Result{ExitCode: 1}, nil
	}
}

func genTestPair(t *testing.T) (keyPEM, certPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return keyPEM, certPEM
}

// Serving twice must provision the pair once, bind the secure port, and
// leave the pair byte-for-byte unchanged on the second run.
func TestDoServe_ProvisionsOnceAndReusesPair(t *testing.T) {
	keyPEM, certPEM := genTestPair(t)
	cfg := &config.Config{BuildDir: t.TempDir(), HTTPSPort: 0, OpenSSLPath: "openssl"}
	fake := &opensslFake{keyPEM: keyPEM, certPEM: certPEM}

	serveOnce := func() {
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- doServe(ctx, cfg, fake, testLogger()) }()

		time.Sleep(150 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	}

	serveOnce()
	assert.Equal(t, 2, fake.calls, "first serve generates key then certificate")
	firstKey, err := os.ReadFile(cfg.KeyFile())
	require.NoError(t, err)

	serveOnce()
	assert.Equal(t, 2, fake.calls, "second serve must not invoke openssl")
	secondKey, err := os.ReadFile(cfg.KeyFile())
	require.NoError(t, err)
	assert.Equal(t, firstKey, secondKey)
}
