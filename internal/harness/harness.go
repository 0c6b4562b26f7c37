// Package harness writes the static control page served next to the
// compiled test artifact. The page checks navigator.xr availability and
// reports whether immersive-vr sessions are supported.
package harness

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mitchellh/colorstring"

	"github.com/webxr-tools/xrdeploy/internal/config"
)

//go:embed index.html
var indexHTML []byte

// Publish writes index.html into the build directory, unconditionally
// overwriting any previous copy so it always reflects the current template.
func Publish(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.BuildDir, 0750); err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}
	if err := os.WriteFile(cfg.IndexFile(), indexHTML, 0644); err != nil {
		return fmt.Errorf("writing harness page: %w", err)
	}
	colorstring.Printf("[green]✓ Created %s\n", cfg.IndexFile())
	return nil
}
