package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/intelligence"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List intelligence providers and whether they are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			return writeProviders(cmd, a.cfg, a.advisor.Providers())
		},
	}
}

func writeProviders(cmd *cobra.Command, cfg *config.Config, providers []intelligence.Provider) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tDESCRIPTION")
	for _, p := range providers {
		status := "not configured"
		if p.IsConfigured() {
			status = "ready"
		}
		id := p.ID()
		if id == cfg.Providers.Default {
			id += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, p.Name(), status, p.Description())
	}
	return tw.Flush()
}
