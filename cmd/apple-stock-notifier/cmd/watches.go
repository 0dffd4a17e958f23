package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	"github.com/donaldgifford/apple-stock-notifier/internal/state"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

func (c *cli) watchCmd() *cobra.Command {
	watchRoot := &cobra.Command{
		Use:   "watches",
		Short: "Manage the watchlist",
		Long: "Read and edit the persisted watchlist directly. With the file backend,\n" +
			"stop the service first: it only reads the watchlist at startup.",
	}

	watchRoot.AddCommand(
		c.watchListCmd(),
		c.watchAddCmd(),
		c.watchDeleteCmd(),
	)

	return watchRoot
}

func (c *cli) watchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all watches",
		Example: `  apple-stock-notifier watches list
  apple-stock-notifier watches list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withState(cmd.Context(), func(ctx context.Context, s *state.State) error {
				entries, err := s.Watches(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if c.jsonOutput() {
					return outputJSON(out, watchViews(entries))
				}
				if len(entries) == 0 {
					_, err := fmt.Fprintln(out, "No watches found.")
					return err
				}
				return printWatchTable(out, entries)
			})
		},
	}
}

func (c *cli) watchAddCmd() *cobra.Command {
	var (
		productID string
		storeName string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Watch a product at a store",
		Long: "Add a (product, store) pair from the catalog to the watchlist. Run\n" +
			"'catalog products' and 'catalog stores' for the valid values.",
		Example: `  apple-stock-notifier watches add --product ip17pm_256_blue --store Shibuya`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ok := catalog.Product(productID)
			if !ok {
				return fmt.Errorf("unknown product %q", productID)
			}
			if !catalog.IsStore(storeName) {
				return fmt.Errorf("unknown store %q", storeName)
			}

			entry := domain.WatchEntry{
				Key:        domain.NewWatchKey(p.DisplayName, storeName),
				PartNumber: p.PartNumber,
			}
			return c.withState(cmd.Context(), func(ctx context.Context, s *state.State) error {
				if err := s.AddWatch(ctx, entry); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", entry.Key, entry.PartNumber)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "catalog product ID (required)")
	cmd.Flags().StringVar(&storeName, "store", "", "store name (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("product"))
	cobra.CheckErr(cmd.MarkFlagRequired("store"))

	return cmd
}

func (c *cli) watchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Short:   "Remove a watch",
		Example: `  apple-stock-notifier watches delete "256GB Xanh | Shibuya"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withState(cmd.Context(), func(ctx context.Context, s *state.State) error {
				found, err := s.DeleteWatch(ctx, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("watch %q not found", args[0])
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return err
			})
		},
	}
}

// withState opens the configured store, runs a state owner for the duration
// of fn and closes everything afterwards.
func (c *cli) withState(ctx context.Context, fn func(context.Context, *state.State) error) error {
	cfg, err := c.loadOfflineConfig()
	if err != nil {
		return err
	}
	log := c.logger(cfg)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing store failed", "error", err)
		}
	}()

	s, err := state.New(ctx, st, state.WithLogger(log))
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(runCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	return fn(ctx, s)
}

type watchView struct {
	Key        string `json:"key"`
	Product    string `json:"product"`
	Store      string `json:"store"`
	PartNumber string `json:"part_number"`
}

func watchViews(entries []domain.WatchEntry) []watchView {
	out := make([]watchView, 0, len(entries))
	for _, e := range entries {
		out = append(out, watchView{
			Key:        e.Key.String(),
			Product:    e.Key.Product,
			Store:      e.Key.Store,
			PartNumber: e.PartNumber,
		})
	}
	return out
}
