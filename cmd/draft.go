package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jayteemoney/ticket/internal/config"
	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect server-side drafts (postgres or redis draft store)",
	}
	cmd.AddCommand(newDraftShowCmd())
	cmd.AddCommand(newDraftClearCmd())
	return cmd
}

func newDraftShowCmd() *cobra.Command {
	var visitor string
	c := &cobra.Command{
		Use:   "show",
		Short: "Print a visitor's draft as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openDraftBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			d, err := b.Keyed.Load(cmd.Context(), visitor)
			if errors.Is(err, internaltypes.ErrNotFound) {
				return fmt.Errorf("no draft for visitor %s", visitor)
			}
			if err != nil {
				return err
			}
			raw, err := draft.Encode(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
	c.Flags().StringVar(&visitor, "visitor", "", "visitor id")
	_ = c.MarkFlagRequired("visitor")
	return c
}

func newDraftClearCmd() *cobra.Command {
	var visitor string
	c := &cobra.Command{
		Use:   "clear",
		Short: "Delete a visitor's draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openDraftBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			err = b.Keyed.Delete(cmd.Context(), visitor)
			if errors.Is(err, internaltypes.ErrNotFound) {
				return fmt.Errorf("no draft for visitor %s", visitor)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared draft for visitor %s\n", visitor)
			return nil
		},
	}
	c.Flags().StringVar(&visitor, "visitor", "", "visitor id")
	_ = c.MarkFlagRequired("visitor")
	return c
}

func openDraftBackend(cmd *cobra.Command) (*backend, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	switch cfg.DraftStore {
	case config.StorePostgres, config.StoreRedis:
	default:
		return nil, fmt.Errorf("DRAFT_STORE=%s keeps no drafts this command can reach (use postgres or redis)", cfg.DraftStore)
	}
	return openBackend(cmd.Context(), cfg, false)
}
