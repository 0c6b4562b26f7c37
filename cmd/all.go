package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webxr-tools/xrdeploy/internal/execx"
	"github.com/webxr-tools/xrdeploy/internal/harness"
	"github.com/webxr-tools/xrdeploy/internal/toolchain"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Build and serve in one step",
	Long: `Build the WebXR test and immediately serve it over HTTPS.

A degraded build (WebXR stubs) is still served; only a total build failure
aborts before the server starts.`,
	Args: cobra.NoArgs,
	RunE: runAll,
}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	runner := execx.NewCmdRunner(logger)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("\n=== Building WebXR Test ===")
	if doBuild(ctx, cfg, runner, logger) == toolchain.BuildFailed {
		return errors.New("build failed, cannot serve")
	}
	if err := harness.Publish(cfg); err != nil {
		return err
	}

	fmt.Println("\n=== Starting HTTPS Server ===")
	return doServe(ctx, cfg, runner, logger)
}
