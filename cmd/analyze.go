package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/internal/report"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/internal/runner"
	"github.com/signalnine/algolens/pkg/complexity"
)

var (
	flagLanguage string
	flagProvider string
	flagOffline  bool
	flagSample   bool
	flagPlain    bool
	flagJSON     bool
	flagSave     bool
	flagNoDelay  bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify, benchmark and judge one snippet",
		Long: "Run the staged analysis over a source file, stdin (\"-\") or the built-in sample " +
			"for --language, then ask the selected provider for an explanation and suggestions.",
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "javascript, python or java (default: from file extension)")
	cmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "intelligence provider id (default: from config)")
	cmd.Flags().BoolVar(&flagOffline, "offline", false, "skip the explanation and suggestion stages")
	cmd.Flags().BoolVar(&flagSample, "sample", false, "analyze the built-in sample for --language")
	cmd.Flags().BoolVar(&flagPlain, "plain", false, "disable terminal styling")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flagSave, "save", false, "store the result in a new run directory")
	cmd.Flags().BoolVar(&flagNoDelay, "no-delay", false, "disable the per-stage pacing")
	return cmd
}

// readSource resolves the snippet and its language from args and flags.
func readSource(args []string, stdin io.Reader) (code string, lang complexity.Language, source string, err error) {
	if flagLanguage != "" {
		var ok bool
		if lang, ok = complexity.ParseLanguage(flagLanguage); !ok {
			return "", lang, "", fmt.Errorf("unknown language %q", flagLanguage)
		}
	}
	switch {
	case flagSample || len(args) == 0:
		if lang == complexity.LanguageUnknown {
			lang = complexity.JavaScript
		}
		return pipeline.Sample(lang), lang, "sample:" + lang.String(), nil
	case args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", lang, "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), lang, "stdin", nil
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", lang, "", fmt.Errorf("reading source: %w", err)
		}
		if lang == complexity.LanguageUnknown {
			lang, _ = runner.DetectLanguage(args[0])
		}
		return string(data), lang, args[0], nil
	}
}

func progress(w io.Writer) pipeline.Observer {
	return func(ev pipeline.Event) {
		if ev.Done {
			return
		}
		label := ev.Stage.String()
		if node, ok := pipeline.NodeForStage(ev.Stage); ok {
			label = node.Label
		}
		fmt.Fprintf(w, "› %s\n", label)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	code, lang, source, err := readSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, stop := withInterrupt(cmd.Context())
	defer stop()

	var obs pipeline.Observer
	if !flagJSON {
		obs = progress(cmd.ErrOrStderr())
	}
	start := time.Now()
	res, err := a.newPipeline(!flagNoDelay).Run(ctx, pipeline.Request{
		Code:     code,
		Language: lang,
		Provider: a.provider(flagProvider),
		Offline:  flagOffline,
	}, obs)
	if err != nil {
		return fmt.Errorf("analysis aborted: %w", err)
	}

	if flagSave {
		runDir, err := result.CreateRunDir(a.cfg.Results.Dir)
		if err != nil {
			return err
		}
		rec := result.NewRecord(source, res, time.Since(start))
		rec.CostUSD = a.pricing.UsageCost(res.Provider, res.Usage)
		if err := result.WriteRecord(runDir, rec); err != nil {
			return err
		}
		a.logger.Info("saved", zap.String("path", result.RecordPath(runDir, rec.ID)))
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return report.WriteAnalysis(out, res, flagPlain)
}

func withInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}
