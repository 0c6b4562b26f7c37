package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/webxr-tools/xrdeploy/internal/certs"
	"github.com/webxr-tools/xrdeploy/internal/config"
	"github.com/webxr-tools/xrdeploy/internal/execx"
	"github.com/webxr-tools/xrdeploy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the build output over HTTPS",
	Long: `Serve the build directory for browser testing.

A self-signed certificate pair is generated on first use and reused on
subsequent runs. If certificate generation fails, the server falls back to
plain HTTP (WebXR will not work without a secure origin).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
	addServeFlags(allCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	runner := execx.NewCmdRunner(logger)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("\n=== Starting HTTPS Server ===")
	return doServe(ctx, cfg, runner, logger)
}

// doServe provisions the certificate pair and runs the matching server
// mode: TLS when provisioning succeeds, plain HTTP otherwise. It refuses
// to bind a socket when no build output exists.
func doServe(ctx context.Context, cfg *config.Config, runner execx.Runner, logger *slog.Logger) error {
	if _, err := os.Stat(cfg.BuildDir); err != nil {
		return fmt.Errorf("build directory not found: %s (run 'xrdeploy build' first, or use 'all')", cfg.BuildDir)
	}

	srv := server.New(cfg, logger)

	certFile, keyFile, err := certs.New(cfg, runner, logger).Ensure(ctx)
	if err != nil {
		colorstring.Printf("[red]✗ Certificate generation failed: %v\n", err)
		fmt.Println("\nFallback: Using HTTP (WebXR may not work)")
		logger.Warn("certificate provisioning failed, falling back to HTTP", slog.Any("error", err))
		return srv.RunPlain(ctx)
	}

	return srv.RunTLS(ctx, certFile, keyFile)
}
