// Package cli holds the storefront commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/storefront-server/internal/config"
)

// BuildInfo is stamped by ldflags in the main package.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", b.Version, b.Date, b.Commit)
}

// NewRootCommand creates the storefront command tree. Configuration comes
// from the environment and is loaded once before any subcommand runs.
func NewRootCommand(build BuildInfo) *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Demo fashion storefront with a tracking event log",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.NewConfig()
			if err != nil {
				return err
			}
			cfg = *loaded
			return nil
		},
	}

	cmd.AddCommand(newServeCommand(&cfg, build))
	cmd.AddCommand(newMigrateCommand(&cfg))
	cmd.AddCommand(newCatalogCommand(&cfg))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), build.String())
		},
	})

	return cmd
}
