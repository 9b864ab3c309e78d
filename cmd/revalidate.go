package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/internal/runner"
)

func newRevalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revalidate [run-dir]",
		Short: "Re-judge stored benchmark curves",
		Long: "Walk a run directory and re-run the judge on each record's stored curve against its " +
			"static class, rewriting the record with the fresh verdict.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, err := newLogger(cfg.Logging, flagVerbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			runDir, err := resolveRunDir(cfg, args)
			if err != nil {
				return err
			}
			recs, err := result.ReadRun(runDir)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("no records found in %s", runDir)
			}

			out := cmd.OutOrStdout()
			changed := 0
			for _, rec := range recs {
				old := ""
				if rec.Analysis != nil && rec.Analysis.Judgment != nil {
					old = rec.Analysis.Judgment.Verdict
				}
				diff, err := runner.Revalidate(runDir, rec)
				if err != nil {
					logger.Warn("skipping record", zap.String("id", rec.ID), zap.Error(err))
					continue
				}
				if diff {
					changed++
					fmt.Fprintf(out, "%s (%s): %s → %s\n", rec.ID, rec.Source, old, rec.Analysis.Judgment.Verdict)
				}
			}
			fmt.Fprintf(out, "%d of %d records changed verdict\n", changed, len(recs))
			return nil
		},
	}
}
