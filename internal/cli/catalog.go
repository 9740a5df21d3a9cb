package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/storefront-server/internal/catalog"
	"github.com/dtroode/storefront-server/internal/config"
)

func newCatalogCommand(cfg *config.Config) *cobra.Command {
	var (
		file   string
		search string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the product catalog and print it as JSON",
		Long: `Loads the catalog from --file, CATALOG_PATH or the built-in catalog,
validates it and prints the products as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = cfg.Catalog.Path
			}
			cat, err := loadCatalog(file)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("search") {
				data, err := cat.JSON()
				if err != nil {
					return fmt.Errorf("failed to render catalog: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			data, err := json.MarshalIndent(cat.Search(search), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render results: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog YAML file")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only print products whose name contains this text")

	return cmd
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
