package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
)

func (c *cli) catalogCmd() *cobra.Command {
	catalogRoot := &cobra.Command{
		Use:   "catalog",
		Short: "Show the products and stores that can be watched",
	}

	catalogRoot.AddCommand(
		&cobra.Command{
			Use:   "products",
			Short: "List catalog products",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if c.jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), catalog.Products())
				}
				return printProductTable(cmd.OutOrStdout(), catalog.Products())
			},
		},
		&cobra.Command{
			Use:   "stores",
			Short: "List catalog stores",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if c.jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), catalog.Stores())
				}
				for _, s := range catalog.Stores() {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)

	return catalogRoot
}
