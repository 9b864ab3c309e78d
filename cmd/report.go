package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/report"
)

var (
	flagFormat  string
	flagPricing string
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [run-dir]",
		Short: "Summarize stored analyses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			runDir, err := resolveRunDir(cfg, args)
			if err != nil {
				return err
			}
			pricingPath := flagPricing
			if pricingPath == "" {
				pricingPath = cfg.Pricing.File
			}
			return report.Generate(runDir, cmd.OutOrStdout(), report.Options{
				Format:      flagFormat,
				GroupBy:     flagGroupBy,
				PricingPath: pricingPath,
			})
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format (table, markdown, json)")
	cmd.Flags().StringVar(&flagGroupBy, "by", report.GroupByClass, "group by class, provider or language")
	cmd.Flags().StringVar(&flagPricing, "pricing", "", "re-price records from this pricing file")
	return cmd
}

// resolveRunDir picks the explicit run dir argument or the latest run.
func resolveRunDir(cfg *config.Config, args []string) (string, error) {
	runDir := filepath.Join(cfg.Results.Dir, "latest")
	if len(args) > 0 {
		runDir = args[0]
	}
	resolved, err := filepath.EvalSymlinks(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	return resolved, nil
}
