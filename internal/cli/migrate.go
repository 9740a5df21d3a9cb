package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/storefront-server/internal/config"
	"github.com/dtroode/storefront-server/internal/repository/postgres"
)

var errNoDSN = errors.New("DATABASE_DSN is not set")

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to the durable store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Database.DSN == "" {
				return errNoDSN
			}

			conn, err := postgres.NewConnection(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}
