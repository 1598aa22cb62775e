package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modresolve/internal/config"
	"github.com/matzehuels/modresolve/pkg/maven"
)

// pathCommand creates the path command, an offline preview of the
// repository layout for a coordinate.
func (c *CLI) pathCommand() *cobra.Command {
	var repos []string

	cmd := &cobra.Command{
		Use:   "path <group:artifact:version>",
		Short: "Print the repository paths of a coordinate",
		Long: `Print where a coordinate lives in each configured repository without
contacting any of them.

For snapshot versions the artifact name depends on the metadata document,
so both the metadata path and the possible artifact names are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(repos) > 0 {
				parsed, err := config.ParseRepositories(strings.Join(repos, ","))
				if err != nil {
					return err
				}
				cfg.Repositories = parsed
			}
			return printPaths(newPrinter(cmd.OutOrStdout()), args[0], cfg.Repositories)
		},
	}

	cmd.Flags().StringArrayVar(&repos, "repo", nil, "repository as host[:port][/content/root] (repeatable)")
	return cmd
}

func printPaths(p *printer, coordinate string, repos []config.Repository) error {
	for _, r := range repos {
		target, coord, err := maven.Resolve(coordinate, r.Location())
		if err != nil {
			return err
		}
		p.layout(r.Location().String(), target, coord)
	}
	return nil
}
