// Package cli implements the operator command-line interface.
//
// This package provides the two pipeline entry points (detect and
// publish) plus supporting commands for inspecting a publish plan and
// managing the HTTP response cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - detect: Decide whether a commit triggers a release and derive its tag
//   - publish: Push crates to the registry in dependency order
//   - plan: Show (and optionally render) the publish order without publishing
//   - cache: Manage the HTTP response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
// Human-readable results go to stdout; logs, and the publish report, go
// to stderr so CI can capture them separately.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/crateops/operator/pkg/buildinfo"
	"github.com/crateops/operator/pkg/cache"
	"github.com/crateops/operator/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "operator"

	// registryCacheTTL bounds how long cached registry index responses live.
	registryCacheTTL = 15 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Environment variables consulted when the matching flag is unset.
const (
	envGitHubToken   = "GITHUB_TOKEN"
	envRegistryToken = "CARGO_REGISTRY_TOKEN"
	envCommit        = "GITHUB_SHA"
	envRepository    = "GITHUB_REPOSITORY"
	envGitHubOutput  = "GITHUB_OUTPUT"
	envRedisAddr     = "OPERATOR_REDIS_ADDR"
	envRedisPassword = "OPERATOR_REDIS_PASSWORD"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger and registers
// the logger-backed release hooks.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	observability.SetReleaseHooks(&logReleaseHooks{logger: c.Logger})
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Operator gates and publishes crate releases",
		Long:         `Operator is the release gate for multi-crate repositories: it decides from commit and pull-request metadata whether a commit becomes a release, and publishes interdependent crates to the registry in dependency order with idempotency and retry semantics.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Backend Selection
// =============================================================================

// newCache picks the cache backend for registry index reads. Shared CI
// runners can point OPERATOR_REDIS_ADDR at a Redis instance so parallel
// jobs share one cache; otherwise a per-machine file cache is used.
// With noCache set, or when no backend is reachable, caching is disabled.
func (c *CLI) newCache(cmd *cobra.Command, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}

	if addr := os.Getenv(envRedisAddr); addr != "" {
		backend, err := cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
			Addr:     addr,
			Password: os.Getenv(envRedisPassword),
		})
		if err == nil {
			return backend
		}
		c.Logger.Warnf("Redis cache unavailable, falling back to file cache: %v", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	backend, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return backend
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/operator/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Credentials
// =============================================================================

// tokenOrEnv returns flagValue if set, otherwise the named environment
// variable. The token is held for the duration of one invocation and is
// never written to disk or logged.
func tokenOrEnv(flagValue, envName string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envName)
}
