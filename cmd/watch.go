package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/report"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/internal/runner"
	"github.com/signalnine/algolens/internal/watch"
)

var flagDebounce time.Duration

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Re-analyze source files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "intelligence provider id (default: from config)")
	cmd.Flags().BoolVar(&flagOffline, "offline", false, "skip the explanation and suggestion stages")
	cmd.Flags().BoolVar(&flagPlain, "plain", false, "disable terminal styling")
	cmd.Flags().BoolVar(&flagSave, "save", false, "store every analysis in one run directory")
	cmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "quiet period before a changed file is analyzed")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	var runDir string
	if flagSave {
		if runDir, err = result.CreateRunDir(a.cfg.Results.Dir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Run directory: %s\n", runDir)
	}

	p := a.newPipeline(false)
	out := cmd.OutOrStdout()
	handle := func(ctx context.Context, path string) {
		rec, err := runner.AnalyzeFile(ctx, p, &runner.AnalysisOpts{
			Path:     path,
			Provider: a.provider(flagProvider),
			Offline:  flagOffline,
			RunDir:   runDir,
			Pricing:  a.pricing,
			Logger:   a.logger,
		})
		if err != nil {
			a.logger.Warn("analysis failed", zap.String("file", path), zap.Error(err))
			return
		}
		fmt.Fprintf(out, "\n== %s ==\n", path)
		if err := report.WriteAnalysis(out, rec.Analysis, flagPlain); err != nil {
			a.logger.Warn("rendering failed", zap.Error(err))
		}
	}

	w, err := watch.New(args, handle,
		watch.WithDebounce(flagDebounce),
		watch.WithFilter(runner.IsSource),
		watch.WithLogger(a.logger.Named("watch")))
	if err != nil {
		return err
	}
	ctx, stop := withInterrupt(cmd.Context())
	defer stop()
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d path(s), Ctrl-C to stop\n", len(args))
	return w.Run(ctx)
}
