// Package cli implements the modresolve command-line interface.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modresolve/internal/config"
	"github.com/matzehuels/modresolve/pkg/buildinfo"
	mrerrors "github.com/matzehuels/modresolve/pkg/errors"
	"github.com/matzehuels/modresolve/pkg/fsutil"
	"github.com/matzehuels/modresolve/pkg/httputil"
	"github.com/matzehuels/modresolve/pkg/maven"
	"github.com/matzehuels/modresolve/pkg/resolver"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and the User-Agent.
const appName = "modresolve"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitNotFound  = 2
	ExitUsage     = 64  // EX_USAGE from sysexits.h: bad coordinate, location or config
	ExitCancelled = 130 // Standard shell convention for SIGINT
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Modresolve downloads modules from Maven-layout repositories",
		Long:          `Modresolve resolves group:artifact:version coordinates against HTTP repositories that follow the Maven directory layout, including timestamped snapshots, and downloads the resulting module archives.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/modresolve/config.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case mrerrors.Is(err, mrerrors.ErrCodeNotFound):
		return ExitNotFound
	case mrerrors.IsInputError(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// reportedError marks an error whose message a command already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// reported marks err as printed.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// Reported reports whether the command that returned err has already shown
// it to the user. Callers print every other error themselves; the root
// command does not.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// =============================================================================
// Resolver Factory
// =============================================================================

// loadConfig loads the effective configuration for a command.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.NewLoader().LoadWithDefaults(c.configFile)
}

// newChain builds the repository chain for cfg.
func newChain(cfg *config.Config, logger *log.Logger) *resolver.Chain {
	client := httputil.NewClient(httputil.WithUserAgent(appName + "/" + buildinfo.Version))
	fetcher := maven.NewFetcher(client, fsutil.NewFileWriter(),
		maven.WithRequestTimeout(cfg.Timeout),
		maven.WithMaxMetadataSize(cfg.MaxMetadataSize),
		maven.WithLogger(logger),
	)

	strategies := make([]resolver.Strategy, 0, len(cfg.Repositories))
	for _, r := range cfg.Repositories {
		strategies = append(strategies, resolver.NewRepository(r.Name, r.Location(), fetcher))
	}
	return resolver.NewChain(logger, strategies...)
}
