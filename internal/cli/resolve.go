package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modresolve/internal/config"
	"github.com/matzehuels/modresolve/pkg/errors"
	"github.com/matzehuels/modresolve/pkg/maven"
)

// resolveFlags holds flags for the resolve command.
type resolveFlags struct {
	output          string
	repos           []string
	timeout         time.Duration
	maxMetadataSize int64
	quiet           bool
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve <group:artifact:version>",
		Short: "Download a module archive from a Maven-layout repository",
		Long: `Resolve a module coordinate and download its archive.

Release versions are fetched directly as <artifact>-<version>.zip. Versions
ending in -SNAPSHOT are resolved through the repository's maven-metadata.xml
first, which may point at a timestamped build.

Repositories are tried in order; the next one is consulted only when the
module does not exist in the current one.`,
		Example: `  # Download into the current directory
  modresolve resolve org.foo:bar:1.0.2

  # Snapshot from a private repository into a file
  modresolve resolve org.foo:bar:1.0.2-SNAPSHOT --repo nexus.local:8081/repository/snapshots -o mods/bar.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "destination file or directory (default: configured output directory)")
	cmd.Flags().StringArrayVar(&flags.repos, "repo", nil, "repository as host[:port][/content/root] (repeatable, replaces configured repositories)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (default: configured timeout)")
	cmd.Flags().Int64Var(&flags.maxMetadataSize, "max-metadata-size", 0, "maximum size of a metadata document in bytes")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not show a spinner")

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, coordinate string, flags resolveFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	coord, err := maven.ParseCoordinate(coordinate)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := applyResolveFlags(cfg, flags); err != nil {
		return err
	}

	dest, err := destinationPath(flags.output, cfg.Output, coord)
	if err != nil {
		return err
	}

	chain := newChain(cfg, logger)
	prog := newProgress(logger)
	p := newPrinter(cmd.OutOrStdout())

	var status io.Writer
	if !flags.quiet {
		status = cmd.ErrOrStderr()
	}
	spin := newSpinner(ctx, status, p, "Resolving "+coordinate)
	spin.Start()

	out, err := chain.Resolve(ctx, coordinate, dest)
	if (err != nil || !out.OK()) && spin.Cancelled() {
		spin.Stop()
		p.notice("Interrupted while resolving %s", StyleHighlight.Render(coordinate))
		if !errors.Is(err, errors.ErrCodeCancelled) {
			err = errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "resolution of %s interrupted", coordinate)
		}
		return reported(err)
	}
	if err != nil {
		spin.StopWithError("%s", errors.UserMessage(err))
		return reported(err)
	}

	switch out.Kind {
	case maven.Downloaded:
		prog.done("Resolved " + coordinate)
		spin.StopWithSuccess("Downloaded %s", StyleHighlight.Render(coordinate))
		p.outcome(out)
		return nil
	case maven.NotFound:
		spin.StopWithError("%s not found in %d repositories", StyleHighlight.Render(coordinate), chain.Len())
		return reported(errors.New(errors.ErrCodeNotFound, "module %s not found", coordinate))
	default:
		spin.StopWithError("Could not resolve %s", StyleHighlight.Render(coordinate))
		p.outcome(out)
		return reported(out.Err)
	}
}

// applyResolveFlags overrides configuration values with explicitly set flags.
func applyResolveFlags(cfg *config.Config, flags resolveFlags) error {
	if len(flags.repos) > 0 {
		repos, err := config.ParseRepositories(strings.Join(flags.repos, ","))
		if err != nil {
			return err
		}
		cfg.Repositories = repos
	}
	if flags.timeout > 0 {
		cfg.Timeout = flags.timeout
	}
	if flags.maxMetadataSize > 0 {
		cfg.MaxMetadataSize = flags.maxMetadataSize
	}
	return cfg.Validate()
}

// destinationPath picks the local file for coord.
//
// An explicit output that names an existing directory, or ends with a path
// separator, receives the release filename of coord. Otherwise it is used as
// the file path. Without an explicit output the file goes into defaultDir.
func destinationPath(output, defaultDir string, coord maven.Coordinate) (string, error) {
	name := maven.ReleaseFilename(coord)
	if output == "" {
		return filepath.Join(defaultDir, name), nil
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(os.PathSeparator)) {
		return filepath.Join(output, name), nil
	}
	info, err := os.Stat(output)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(output, name), nil
	case err == nil || os.IsNotExist(err):
		return output, nil
	default:
		return "", errors.Wrap(errors.ErrCodeInvalidDestination, err, "inspect %s", output)
	}
}
