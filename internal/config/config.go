// Package config holds all process-wide settings for xrdeploy.
//
// Every value the tool previously would have hard-coded (ports, build
// directory, tool paths) lives here and can be overridden through
// environment variables, so tests can point components at temp
// directories and ephemeral ports without touching global state.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all xrdeploy configuration loaded from environment variables.
type Config struct {
	// BuildDir is the directory that receives all generated artifacts.
	BuildDir string `envconfig:"XRDEPLOY_BUILD_DIR" default:"webxr_build"`

	// SourceFile is the C source compiled by Emscripten.
	SourceFile string `envconfig:"XRDEPLOY_SOURCE" default:"webxr_test.c"`

	// SDLRoot is the SDL checkout root, used to locate the WebXR JS
	// library and the public headers.
	SDLRoot string `envconfig:"XRDEPLOY_SDL_ROOT" default:"../.."`

	// HTTPSPort is the port for the TLS server.
	HTTPSPort int `envconfig:"XRDEPLOY_HTTPS_PORT" default:"8443"`

	// HTTPPort is the port for the plain-HTTP fallback server.
	HTTPPort int `envconfig:"XRDEPLOY_HTTP_PORT" default:"8080"`

	// EmccPath is the Emscripten compiler executable.
	EmccPath string `envconfig:"XRDEPLOY_EMCC" default:"emcc"`

	// OpenSSLPath is the openssl executable used for certificate generation.
	OpenSSLPath string `envconfig:"XRDEPLOY_OPENSSL" default:"openssl"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `envconfig:"XRDEPLOY_LOG_LEVEL" default:"info"`
}

// Load reads Config from environment variables using envconfig.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CertDir returns the directory holding the self-signed certificate pair.
func (c *Config) CertDir() string {
	return filepath.Join(c.BuildDir, "certs")
}

// KeyFile returns the path to the private key.
func (c *Config) KeyFile() string {
	return filepath.Join(c.CertDir(), "localhost.key")
}

// CertFile returns the path to the self-signed certificate.
func (c *Config) CertFile() string {
	return filepath.Join(c.CertDir(), "localhost.crt")
}

// OutputFile returns the path of the compiled HTML loader.
func (c *Config) OutputFile() string {
	return filepath.Join(c.BuildDir, "webxr_test.html")
}

// IndexFile returns the path of the generated harness page.
func (c *Config) IndexFile() string {
	return filepath.Join(c.BuildDir, "index.html")
}

// JSLibrary returns the path of the SDL WebXR JavaScript interop library.
func (c *Config) JSLibrary() string {
	return filepath.Join(c.SDLRoot, "src", "gpu", "xr", "library_sdl_webxr.js")
}

// IncludeDir returns the SDL public header directory.
func (c *Config) IncludeDir() string {
	return filepath.Join(c.SDLRoot, "include")
}
