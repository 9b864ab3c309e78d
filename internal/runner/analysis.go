package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/internal/pricing"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/pkg/complexity"
)

var extensions = map[string]complexity.Language{
	".js":   complexity.JavaScript,
	".mjs":  complexity.JavaScript,
	".cjs":  complexity.JavaScript,
	".jsx":  complexity.JavaScript,
	".py":   complexity.Python,
	".java": complexity.Java,
}

// DetectLanguage maps a file extension to a language.
func DetectLanguage(path string) (complexity.Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// IsSource reports whether path has an extension DetectLanguage knows.
func IsSource(path string) bool {
	_, ok := DetectLanguage(path)
	return ok
}

type AnalysisOpts struct {
	Path string
	// Language overrides extension detection when set.
	Language complexity.Language
	Provider string
	Offline  bool
	// RunDir receives the record. Empty skips persistence.
	RunDir  string
	Pricing *pricing.Table
	Logger  *zap.Logger
}

// AnalyzeFile runs the pipeline over one source file and stores the record.
func AnalyzeFile(ctx context.Context, p *pipeline.Pipeline, opts *AnalysisOpts) (*result.Record, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	lang := opts.Language
	if lang == complexity.LanguageUnknown {
		lang, _ = DetectLanguage(opts.Path)
	}

	start := time.Now()
	res, err := p.Run(ctx, pipeline.Request{
		Code:     string(data),
		Language: lang,
		Provider: opts.Provider,
		Offline:  opts.Offline,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", opts.Path, err)
	}

	rec := result.NewRecord(opts.Path, res, time.Since(start))
	rec.CostUSD = opts.Pricing.UsageCost(res.Provider, res.Usage)

	if opts.RunDir != "" {
		if err := result.WriteRecord(opts.RunDir, rec); err != nil {
			return nil, fmt.Errorf("writing record: %w", err)
		}
	}
	logger.Info("analyzed",
		zap.String("file", opts.Path),
		zap.Stringer("language", lang),
		zap.Stringer("complexity", *res.Complexity),
		zap.Stringer("observed", res.Judgment.Observed),
		zap.String("verdict", res.Judgment.Verdict),
		zap.String("id", rec.ID))
	return rec, nil
}

// Revalidate re-judges a stored record's curve against its static class and
// rewrites the record. It reports whether the verdict changed.
func Revalidate(runDir string, rec *result.Record) (bool, error) {
	a := rec.Analysis
	if a == nil || a.Complexity == nil || len(a.Benchmark) == 0 {
		return false, fmt.Errorf("record %s has no benchmark to judge", rec.ID)
	}
	j := complexity.Judge(*a.Complexity, a.Benchmark)
	changed := a.Judgment == nil || a.Judgment.Verdict != j.Verdict
	a.Judgment = &j
	a.RuntimeSummary = pipeline.RuntimeSummary(*a.Complexity, j)
	now := time.Now().UTC()
	rec.RevalidatedAt = &now
	if err := result.WriteRecord(runDir, rec); err != nil {
		return changed, fmt.Errorf("writing record: %w", err)
	}
	return changed, nil
}

// CollectSources expands paths into source files. Directories are walked
// recursively and filtered by extension; explicit files are kept as given.
func CollectSources(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	return files, nil
}
