// Package toolchain probes for the Emscripten compiler and drives the
// WebXR test build.
package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"

	"github.com/webxr-tools/xrdeploy/internal/config"
	"github.com/webxr-tools/xrdeploy/internal/execx"
)

// Outcome is the tri-state result of a build attempt. Degraded means the
// reduced flag set succeeded after the primary set failed: the artifact
// runs but ships WebXR stubs only.
type Outcome int

const (
	BuildFailed Outcome = iota
	BuildFull
	BuildDegraded
)

func (o Outcome) String() string {
	switch o {
	case BuildFull:
		return "full"
	case BuildDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Builder compiles the WebXR test source with emcc.
type Builder struct {
	cfg    *config.Config
	runner execx.Runner
	logger *slog.Logger
}

// New creates a Builder.
func New(cfg *config.Config, runner execx.Runner, logger *slog.Logger) *Builder {
	return &Builder{cfg: cfg, runner: runner, logger: logger}
}

// Probe checks whether emcc is reachable. A missing executable and a
// non-zero exit are treated identically as unavailability.
func (b *Builder) Probe(ctx context.Context) bool {
	res, err := b.runner.Run(ctx, "", b.cfg.EmccPath, "--version")
	if err != nil || !res.Success() {
		b.logger.Warn("emcc probe failed", slog.Any("error", err), slog.Int("exit_code", res.ExitCode))
		colorstring.Println("[red]✗ Emscripten not found. Please install and activate emsdk.")
		return false
	}
	colorstring.Println("[green]✓ Emscripten found")
	return true
}

// Build compiles the test source. The primary flag set links the SDL WebXR
// JavaScript library; if it fails, exactly one retry runs with a reduced set
// that drops the library, producing a degraded WebXR-stub build.
func (b *Builder) Build(ctx context.Context) Outcome {
	if _, err := os.Stat(b.cfg.SourceFile); err != nil {
		colorstring.Printf("[red]✗ Source file not found: %s\n", b.cfg.SourceFile)
		return BuildFailed
	}

	if !b.Probe(ctx) {
		return BuildFailed
	}

	if err := os.MkdirAll(b.cfg.BuildDir, 0750); err != nil {
		colorstring.Printf("[red]✗ Cannot create build directory: %v\n", err)
		return BuildFailed
	}

	res, err := b.compile(ctx, b.primaryArgs(), "Compiling "+filepath.Base(b.cfg.SourceFile))
	if err == nil && res.Success() {
		colorstring.Printf("[green]✓ Build successful: %s\n", b.cfg.OutputFile())
		return BuildFull
	}
	b.reportFailure("primary build", res, err)

	fmt.Println("\nTrying simplified build (WebXR may not work)...")
	res, err = b.compile(ctx, b.fallbackArgs(), "Compiling (reduced flags)")
	if err == nil && res.Success() {
		colorstring.Println("[yellow]✓ Simplified build successful (WebXR stubs only)")
		b.logger.Warn("built without WebXR library, immersive sessions will not work")
		return BuildDegraded
	}
	b.reportFailure("simplified build", res, err)
	return BuildFailed
}

// primaryArgs is the full flag set: WebXR JS linkage, GLES3 emulation,
// asyncify, memory growth, assertions and debug info.
func (b *Builder) primaryArgs() []string {
	return []string{
		b.cfg.SourceFile,
		"-o", b.cfg.OutputFile(),
		"-O2",
		"-s", "USE_SDL=3",
		"-s", "FULL_ES3=1",
		"-s", "ASYNCIFY=1",
		"-s", "ALLOW_MEMORY_GROWTH=1",
		"--js-library=" + b.cfg.JSLibrary(),
		"-I" + b.cfg.IncludeDir(),
		"-s", "ASSERTIONS=1",
		"-g",
	}
}

// fallbackArgs drops the custom WebXR library and debug extras.
func (b *Builder) fallbackArgs() []string {
	return []string{
		b.cfg.SourceFile,
		"-o", b.cfg.OutputFile(),
		"-O2",
		"-s", "USE_SDL=3",
		"-s", "FULL_ES3=1",
		"-s", "ASYNCIFY=1",
		"-I" + b.cfg.IncludeDir(),
	}
}

// compile runs one emcc invocation with a spinner while it blocks.
func (b *Builder) compile(ctx context.Context, args []string, desc string) (execx.Result, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	done := make(chan bool)
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	res, err := b.runner.Run(ctx, "", b.cfg.EmccPath, args...)
	done <- true
	bar.Finish()
	fmt.Println()

	return res, err
}

func (b *Builder) reportFailure(stage string, res execx.Result, err error) {
	if err != nil {
		colorstring.Printf("[red]✗ %s failed: %v\n", stage, err)
		b.logger.Error("build stage failed", slog.String("stage", stage), slog.Any("error", err))
		return
	}
	colorstring.Printf("[red]✗ %s failed (exit %d)\n", stage, res.ExitCode)
	if out := res.Output(); out != "" {
		fmt.Println(out)
	}
	b.logger.Error("build stage failed",
		slog.String("stage", stage), slog.Int("exit_code", res.ExitCode))
}
