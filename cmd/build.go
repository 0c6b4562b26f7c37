package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/webxr-tools/xrdeploy/internal/config"
	"github.com/webxr-tools/xrdeploy/internal/execx"
	"github.com/webxr-tools/xrdeploy/internal/harness"
	"github.com/webxr-tools/xrdeploy/internal/toolchain"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the WebXR test with Emscripten",
	Long: `Compile the WebXR test source with emcc and write the harness page.

If the primary build (with the SDL WebXR JS library) fails, one retry runs
with a reduced flag set; the result is a degraded build with WebXR stubs.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	runner := execx.NewCmdRunner(logger)

	fmt.Println("\n=== Building WebXR Test ===")
	doBuild(cmd.Context(), cfg, runner, logger)

	// The harness page is regenerated even when the compile failed, so a
	// previously built artifact keeps a current control page.
	return harness.Publish(cfg)
}

// doBuild runs the compile and reports the outcome on the console.
func doBuild(ctx context.Context, cfg *config.Config, runner execx.Runner, logger *slog.Logger) toolchain.Outcome {
	outcome := toolchain.New(cfg, runner, logger).Build(ctx)
	logger.Info("build finished", slog.String("outcome", outcome.String()))
	return outcome
}
