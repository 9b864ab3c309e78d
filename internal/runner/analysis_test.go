package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/internal/runner"
	"github.com/signalnine/algolens/pkg/complexity"
)

func offlinePipeline() *pipeline.Pipeline {
	return pipeline.New(nil, pipeline.WithDelays(config.Delays{}), pipeline.WithNoise(complexity.FixedNoise(1)))
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]complexity.Language{
		"a.js":           complexity.JavaScript,
		"dir/b.MJS":      complexity.JavaScript,
		"c.py":           complexity.Python,
		"Algorithm.java": complexity.Java,
	}
	for path, want := range tests {
		got, ok := runner.DetectLanguage(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := runner.DetectLanguage("main.go")
	assert.False(t, ok)
}

func TestAnalyzeFile(t *testing.T) {
	runDir := t.TempDir()
	rec, err := runner.AnalyzeFile(context.Background(), offlinePipeline(), &runner.AnalysisOpts{
		Path:    "../../testdata/nested.js",
		Offline: true,
		RunDir:  runDir,
	})
	require.NoError(t, err)

	assert.Equal(t, complexity.JavaScript, rec.Analysis.Language)
	assert.Equal(t, complexity.Quadratic, *rec.Analysis.Complexity)
	assert.True(t, rec.Confirmed())
	assert.Zero(t, rec.CostUSD)

	stored, err := result.ReadRecord(result.RecordPath(runDir, rec.ID))
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestAnalyzeFileLogsStaticAndObservedClass(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	_, err := runner.AnalyzeFile(context.Background(), offlinePipeline(), &runner.AnalysisOpts{
		Path:    "../../testdata/linear.py",
		Offline: true,
		Logger:  zap.New(core),
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("analyzed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "O(n)", fields["complexity"])
	assert.Equal(t, "O(n)", fields["observed"])
	assert.Equal(t, complexity.VerdictConfirmed, fields["verdict"])
}

func TestAnalyzeFileLanguageOverride(t *testing.T) {
	rec, err := runner.AnalyzeFile(context.Background(), offlinePipeline(), &runner.AnalysisOpts{
		Path:     "../../testdata/linear.py",
		Language: complexity.Java,
		Offline:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, complexity.Java, rec.Analysis.Language)
	assert.Equal(t, complexity.Linear, *rec.Analysis.Complexity)
}

func TestAnalyzeFileMissing(t *testing.T) {
	_, err := runner.AnalyzeFile(context.Background(), offlinePipeline(), &runner.AnalysisOpts{Path: "nope.js"})
	assert.Error(t, err)
}

func TestRevalidate(t *testing.T) {
	runDir := t.TempDir()
	rec, err := runner.AnalyzeFile(context.Background(), offlinePipeline(), &runner.AnalysisOpts{
		Path: "../../testdata/linear.py", Offline: true, RunDir: runDir,
	})
	require.NoError(t, err)

	// A quadratic curve stored under a linear claim must flip to a divergence.
	rec.Analysis.Benchmark = complexity.SynthesizeWith(complexity.Quadratic, complexity.FixedNoise(1))
	changed, err := runner.Revalidate(runDir, rec)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := result.ReadRecord(result.RecordPath(runDir, rec.ID))
	require.NoError(t, err)
	assert.Equal(t, complexity.VerdictDivergence, stored.Analysis.Judgment.Verdict)
	assert.Equal(t, "Unexpectedly slower/faster than O(n).", stored.Analysis.RuntimeSummary)
	assert.NotNil(t, stored.RevalidatedAt)

	changed, err = runner.Revalidate(runDir, stored)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRevalidateWithoutCurve(t *testing.T) {
	_, err := runner.Revalidate(t.TempDir(), &result.Record{ID: "x", Analysis: &pipeline.Result{}})
	assert.Error(t, err)
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.js", "b.py", "notes.md", "sub/c.java", "node_modules/d.js", ".git/e.py"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	explicit := filepath.Join(dir, "notes.md")

	files, err := runner.CollectSources([]string{dir, explicit})
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, r)
	}
	sort.Strings(rel)
	assert.Equal(t, []string{"a.js", "b.py", "notes.md", filepath.Join("sub", "c.java")}, rel)

	_, err = runner.CollectSources([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
