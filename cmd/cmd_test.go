package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/internal/report"
	"github.com/signalnine/algolens/pkg/complexity"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "algolens.yaml")
	body := "providers:\n  default: ollama\nresults:\n  dir: " + filepath.Join(dir, "results") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Logging
		verbose bool
		want    zapcore.Level
	}{
		{"configured level", config.Logging{Level: "warn"}, false, zapcore.WarnLevel},
		{"verbose overrides", config.Logging{Level: "error"}, true, zapcore.DebugLevel},
		{"development config", config.Logging{Level: "info", Development: true}, false, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(tt.cfg, tt.verbose)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			assert.False(t, logger.Core().Enabled(tt.want-1))
		})
	}

	_, err := newLogger(config.Logging{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestReadSource(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		language   string
		sample     bool
		stdin      string
		wantLang   complexity.Language
		wantSource string
		wantCode   string
	}{
		{"default sample", nil, "", false, "", complexity.JavaScript, "sample:javascript", pipeline.Sample(complexity.JavaScript)},
		{"sample for language", nil, "python", true, "", complexity.Python, "sample:python", pipeline.Sample(complexity.Python)},
		{"file detects language", []string{"../testdata/linear.py"}, "", false, "", complexity.Python, "../testdata/linear.py", ""},
		{"flag overrides extension", []string{"../testdata/linear.py"}, "java", false, "", complexity.Java, "../testdata/linear.py", ""},
		{"stdin", []string{"-"}, "java", false, "for (;;) {}", complexity.Java, "stdin", "for (;;) {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagLanguage, flagSample = tt.language, tt.sample
			t.Cleanup(func() { flagLanguage, flagSample = "", false })

			code, lang, source, err := readSource(tt.args, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, lang)
			assert.Equal(t, tt.wantSource, source)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, code)
			} else {
				assert.NotEmpty(t, code)
			}
		})
	}
}

func TestReadSourceErrors(t *testing.T) {
	flagLanguage = "cobol"
	_, _, _, err := readSource(nil, strings.NewReader(""))
	assert.ErrorContains(t, err, "unknown language")

	flagLanguage = ""
	_, _, _, err = readSource([]string{"missing.js"}, strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteTrace(t *testing.T) {
	var buf bytes.Buffer
	writeTrace(&buf, []intelligence.TraceStep{{
		Step:        1,
		Description: "compare arr[0] and arr[1]",
		Variables:   map[string]string{"j": "1", "i": "0"},
		Data:        []string{"1", "2"},
		Pointers:    map[string]int{"j": 1, "i": 0},
	}})
	want := " 1. compare arr[0] and arr[1]\n" +
		"    vars: i=0 j=1\n" +
		"    data: [1, 2]\n" +
		"    ptrs: i=0 j=1\n"
	assert.Equal(t, want, buf.String())
}

func TestSamplesCommand(t *testing.T) {
	out, err := execute(t, "samples")
	require.NoError(t, err)
	assert.Equal(t, "javascript\npython\njava\n", out)

	out, err = execute(t, "samples", "java")
	require.NoError(t, err)
	assert.Equal(t, pipeline.Sample(complexity.Java), out)

	_, err = execute(t, "samples", "rust")
	assert.Error(t, err)
}

func TestProvidersCommand(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	out, err := execute(t, "providers", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "ollama *")
	assert.Contains(t, out, "Google Gemini")
	assert.Contains(t, out, "not configured")
}

func TestAnalyzeOfflineJSON(t *testing.T) {
	out, err := execute(t, "analyze", "../testdata/nested.js",
		"--config", writeConfig(t), "--offline", "--no-delay", "--json")
	require.NoError(t, err)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Complexity)
	assert.Equal(t, complexity.Quadratic, *res.Complexity)
	assert.Equal(t, complexity.JavaScript, res.Language)
	require.NotNil(t, res.Judgment)
	assert.True(t, res.Judgment.Match)
	assert.Empty(t, res.Explanation)
}

func TestBatchReportRevalidate(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "batch", "../testdata", "--config", cfg, "--offline", "--parallel", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Results ---")

	out, err = execute(t, "report", "--config", cfg, "--format", "json", "--by", report.GroupByLanguage)
	require.NoError(t, err)
	var summaries []report.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	groups := map[string]int{}
	for _, s := range summaries {
		groups[s.Group] = s.Analyses
	}
	assert.Equal(t, map[string]int{"javascript": 1, "python": 1}, groups)

	out, err = execute(t, "revalidate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 2 records changed verdict")
}

func TestBatchRejectsBadParallel(t *testing.T) {
	_, err := execute(t, "batch", "../testdata", "--config", writeConfig(t), "--parallel", "0")
	assert.Error(t, err)
}
