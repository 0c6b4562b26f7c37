// Package cmd wires the build, serve, and all subcommands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/webxr-tools/xrdeploy/internal/config"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "xrdeploy",
	Short: "Build and serve the SDL WebXR test for browser testing",
	Long: `xrdeploy builds the SDL WebXR test application with Emscripten and
serves the output over HTTPS with a locally generated self-signed certificate.

WebXR requires a secure origin, so the serve step provisions a certificate
pair with openssl and only falls back to plain HTTP when that fails.

For testing:
  1. Install the WebXR API Emulator browser extension
  2. Run: xrdeploy all
  3. Open https://localhost:8443/
  4. Click to enter VR mode`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(allCmd)
}

// setup loads the configuration, applies any port flag overrides
// (flag > env > default), and builds the stderr diagnostics logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("https-port") {
		cfg.HTTPSPort, _ = cmd.Flags().GetInt("https-port")
	}
	if cmd.Flags().Changed("http-port") {
		cfg.HTTPPort, _ = cmd.Flags().GetInt("http-port")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return cfg, logger, nil
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("https-port", 8443, "HTTPS server port (overrides XRDEPLOY_HTTPS_PORT)")
	cmd.Flags().Int("http-port", 8080, "HTTP fallback port (overrides XRDEPLOY_HTTP_PORT)")
}
