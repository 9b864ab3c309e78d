//go:build integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/internal/result"
	"github.com/signalnine/algolens/internal/runner"
	"github.com/signalnine/algolens/pkg/complexity"
)

// liveAdvisor builds an advisor over a locally running Ollama.
func liveAdvisor(t *testing.T) *intelligence.Advisor {
	t.Helper()
	endpoint := os.Getenv("ALGOLENS_OLLAMA_ENDPOINT")
	if endpoint == "" {
		t.Skip("set ALGOLENS_OLLAMA_ENDPOINT to run integration tests")
	}
	cfg := config.Default().Providers
	cfg.Ollama.Endpoint = endpoint
	if model := os.Getenv("ALGOLENS_OLLAMA_MODEL"); model != "" {
		cfg.Ollama.Model = model
	}
	return intelligence.NewAdvisor(intelligence.NewRegistryFromConfig(cfg))
}

func TestOllamaAnalysisIntegration(t *testing.T) {
	advisor := liveAdvisor(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "dupes.py")
	if err := os.WriteFile(src, []byte(pipeline.Sample(complexity.Python)), 0o644); err != nil {
		t.Fatal(err)
	}
	runDir, err := result.CreateRunDir(filepath.Join(dir, "results"))
	if err != nil {
		t.Fatalf("CreateRunDir: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	p := pipeline.New(advisor, pipeline.WithDelays(config.Delays{}))
	rec, err := runner.AnalyzeFile(ctx, p, &runner.AnalysisOpts{
		Path:     src,
		Provider: "ollama",
		RunDir:   runDir,
	})
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	res := rec.Analysis
	if res.Provider != "ollama" {
		t.Errorf("provider: got %q, want ollama", res.Provider)
	}
	if strings.HasPrefix(res.Explanation, "Failed to generate") || res.Explanation == "" {
		t.Errorf("explanation: got %q", res.Explanation)
	}
	if len(res.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
	if res.Usage.Total() == 0 {
		t.Error("expected token usage")
	}
	if _, err := os.Stat(result.RecordPath(runDir, rec.ID)); err != nil {
		t.Errorf("record not written: %v", err)
	}
}

func TestOllamaTraceIntegration(t *testing.T) {
	advisor := liveAdvisor(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tr, _ := advisor.Trace(ctx, advisor.Provider("ollama"), pipeline.Sample(complexity.JavaScript), "[1, 2, 1]", complexity.JavaScript)
	if tr.Error != "" {
		t.Fatalf("trace failed: %s", tr.Error)
	}
	if len(tr.Steps) == 0 || len(tr.Steps) > intelligence.MaxTraceSteps {
		t.Errorf("steps: got %d", len(tr.Steps))
	}
}
