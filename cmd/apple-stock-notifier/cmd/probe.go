package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/apple-stock-notifier/internal/apple"
	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
)

func (c *cli) probeCmd() *cobra.Command {
	var (
		part     string
		location string
		product  string
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Query pickup availability once",
		Long: "Query Apple's pickup endpoint once and list the stores that report the\n" +
			"part as available. Unlike the sweep, request failures are reported\n" +
			"instead of reading as out of stock.",
		Example: `  apple-stock-notifier probe --part MFYA4J/A --location Shibuya
  apple-stock-notifier probe --product ip17pm_256_blue --location Ginza --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if product != "" {
				p, ok := catalog.Product(product)
				if !ok {
					return fmt.Errorf("unknown product %q", product)
				}
				part = p.PartNumber
			}
			if part == "" || location == "" {
				return fmt.Errorf("--location and one of --part or --product are required")
			}

			cfg, err := c.loadOfflineConfig()
			if err != nil {
				return err
			}

			client := apple.NewClient(
				apple.WithPickupURL(cfg.Apple.PickupURL),
				apple.WithHTTPClient(&http.Client{Timeout: cfg.Apple.Timeout}),
				apple.WithLogger(c.logger(cfg)),
			)
			stores, err := client.Fetch(cmd.Context(), part, location)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOutput() {
				return outputJSON(out, stores)
			}
			if len(stores) == 0 {
				_, err := fmt.Fprintln(out, "No stores report pickup availability.")
				return err
			}
			return printStoreResults(out, stores)
		},
	}

	cmd.Flags().StringVar(&part, "part", "", "part number to probe")
	cmd.Flags().StringVar(&product, "product", "", "catalog product ID (alternative to --part)")
	cmd.Flags().StringVar(&location, "location", "", "store name used as the search location")
	cmd.MarkFlagsMutuallyExclusive("part", "product")

	return cmd
}
