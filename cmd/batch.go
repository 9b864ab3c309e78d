package cmd

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/signalnine/algolens/internal/report"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/internal/runner"
)

var (
	flagParallel int
	flagGroupBy  string
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Analyze every source file under the given paths",
		Long: "Walk files and directories, analyze each JavaScript, Python and Java file into a new " +
			"run directory, then print the aggregate report.",
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}
	cmd.Flags().IntVar(&flagParallel, "parallel", 4, "max concurrent analyses")
	cmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "intelligence provider id (default: from config)")
	cmd.Flags().BoolVar(&flagOffline, "offline", false, "skip the explanation and suggestion stages")
	cmd.Flags().StringVar(&flagGroupBy, "by", report.GroupByClass, "group the summary by class, provider or language")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	if flagParallel < 1 {
		return fmt.Errorf("--parallel must be at least 1")
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	files, err := runner.CollectSources(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found")
	}

	runDir, err := result.CreateRunDir(a.cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Run directory: %s\n", runDir)

	ctx, stop := withInterrupt(cmd.Context())
	defer stop()

	p := a.newPipeline(false)
	var done atomic.Int32
	jobs := make([]runner.Job, 0, len(files))
	for _, path := range files {
		jobs = append(jobs, func(ctx context.Context) error {
			rec, err := runner.AnalyzeFile(ctx, p, &runner.AnalysisOpts{
				Path:     path,
				Provider: a.provider(flagProvider),
				Offline:  flagOffline,
				RunDir:   runDir,
				Pricing:  a.pricing,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			n := done.Add(1)
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s: %s\n", n, len(files), path, rec.Analysis.Judgment.Verdict)
			return nil
		})
	}
	errs := runner.RunPool(ctx, flagParallel, jobs)
	for _, err := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "  ERROR: %v\n", err)
	}
	if done.Load() == 0 {
		return fmt.Errorf("all %d analyses failed", len(files))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n--- Results ---")
	return report.Generate(runDir, cmd.OutOrStdout(), report.Options{Format: "table", GroupBy: flagGroupBy})
}
