package intelligence_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/metrics"
	"github.com/signalnine/algolens/internal/retry"
	"github.com/signalnine/algolens/pkg/complexity"
)

type fakeProvider struct {
	configured bool
	text       string
	err        error
	calls      atomic.Int32
	lastPrompt intelligence.Prompt
}

func (f *fakeProvider) ID() string          { return "fake" }
func (f *fakeProvider) Name() string        { return "Fake" }
func (f *fakeProvider) Description() string { return "test double" }
func (f *fakeProvider) IsConfigured() bool  { return f.configured }

func (f *fakeProvider) Generate(_ context.Context, p intelligence.Prompt) (*intelligence.Generation, error) {
	f.calls.Add(1)
	f.lastPrompt = p
	if f.err != nil {
		return nil, f.err
	}
	return &intelligence.Generation{Text: f.text, Model: "fake-1", Usage: intelligence.Usage{InputTokens: 10, OutputTokens: 2}}, nil
}

func fastRetry() retry.Config {
	return retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiple: 1}
}

func newAdvisor(m *metrics.Registry) *intelligence.Advisor {
	return intelligence.NewAdvisor(intelligence.NewRegistry(), intelligence.WithRetry(fastRetry()), intelligence.WithMetrics(m))
}

var sampleContext = intelligence.Context{
	Code:           "for (a of xs) { for (b of xs) {} }",
	Language:       complexity.JavaScript,
	Complexity:     complexity.Quadratic,
	RuntimeSummary: "Consistent with O(n^2) behavior.",
	Judgment:       &complexity.Judgment{Verdict: complexity.VerdictConfirmed},
}

func TestExplain(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		p := &fakeProvider{configured: true, text: "  Two nested passes.  "}
		text, usage := newAdvisor(nil).Explain(ctx, p, sampleContext)
		assert.Equal(t, "Two nested passes.", text)
		assert.Equal(t, 12, usage.Total())
		assert.Contains(t, p.lastPrompt.Text, "Estimated Complexity: O(n^2)")
		assert.Contains(t, p.lastPrompt.Text, "Consistent with O(n^2) behavior.")
		assert.Equal(t, intelligence.FormatText, p.lastPrompt.Format)
	})

	t.Run("unconfigured", func(t *testing.T) {
		p := &fakeProvider{}
		text, _ := newAdvisor(nil).Explain(ctx, p, sampleContext)
		assert.Equal(t, "Fake is not configured. Cannot generate explanation.", text)
		assert.Zero(t, p.calls.Load())
	})

	t.Run("empty", func(t *testing.T) {
		text, _ := newAdvisor(nil).Explain(ctx, &fakeProvider{configured: true, text: "\n"}, sampleContext)
		assert.Equal(t, "No explanation generated.", text)
	})

	t.Run("failure", func(t *testing.T) {
		p := &fakeProvider{configured: true, err: errors.New("boom")}
		text, usage := newAdvisor(nil).Explain(ctx, p, sampleContext)
		assert.Equal(t, "Failed to generate explanation via Fake.", text)
		assert.Zero(t, usage.Total())
		assert.Equal(t, int32(1), p.calls.Load(), "permanent errors are not retried")
	})
}

func TestSuggest(t *testing.T) {
	ctx := context.Background()

	p := &fakeProvider{configured: true, text: `["Use a Set for O(1) lookups."]`}
	items, _ := newAdvisor(nil).Suggest(ctx, p, sampleContext)
	assert.Equal(t, []string{"Use a Set for O(1) lookups."}, items)
	assert.Contains(t, p.lastPrompt.Text, "Runtime Verdict: Confirmed")
	assert.Equal(t, intelligence.FormatStringList, p.lastPrompt.Format)

	items, _ = newAdvisor(nil).Suggest(ctx, &fakeProvider{configured: true, text: "[]"}, sampleContext)
	assert.Equal(t, []string{"No suggestions generated."}, items)

	items, _ = newAdvisor(nil).Suggest(ctx, &fakeProvider{configured: true, text: ""}, sampleContext)
	assert.Equal(t, []string{"No suggestions generated."}, items)

	items, _ = newAdvisor(nil).Suggest(ctx, &fakeProvider{}, sampleContext)
	assert.Equal(t, []string{"Fake is not configured. Cannot generate suggestions."}, items)

	items, _ = newAdvisor(nil).Suggest(ctx, &fakeProvider{configured: true, err: errors.New("x")}, sampleContext)
	assert.Equal(t, []string{"Failed to generate suggestions via Fake."}, items)
}

func TestTrace(t *testing.T) {
	ctx := context.Background()

	p := &fakeProvider{configured: true, text: `{"steps":[{"step":1,"description":"start","data":["1"],"variables":[{"key":"i","value":"0"}]}]}`}
	res, _ := newAdvisor(nil).Trace(ctx, p, "code", "[1]", complexity.Python)
	require.Empty(t, res.Error)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "0", res.Steps[0].Variables["i"])
	assert.Equal(t, intelligence.FormatTrace, p.lastPrompt.Format)
	assert.Contains(t, p.lastPrompt.Text, "Input: [1]")

	res, _ = newAdvisor(nil).Trace(ctx, &fakeProvider{configured: true, text: "not json"}, "code", "", complexity.Python)
	assert.NotNil(t, res.Steps)
	assert.Empty(t, res.Steps)
	assert.Equal(t, "Failed to generate trace via Fake.", res.Error)

	res, _ = newAdvisor(nil).Trace(ctx, &fakeProvider{}, "code", "", complexity.Python)
	assert.Equal(t, "Fake is not configured. Cannot generate trace.", res.Error)

	res, _ = newAdvisor(nil).Trace(ctx, &fakeProvider{configured: true}, "code", "", complexity.Python)
	assert.Equal(t, "No trace generated.", res.Error)
}

func TestAdvisorRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"response":"Nested loops.","prompt_eval_count":4,"eval_count":2}`))
	}))
	defer srv.Close()

	m := metrics.NewRegistry()
	a := newAdvisor(m)
	text, usage := a.Explain(context.Background(), intelligence.NewOllamaProvider(srv.URL, ""), sampleContext)

	assert.Equal(t, "Nested loops.", text)
	assert.Equal(t, 6, usage.Total())
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("ollama", "explain", "ok")))
}

func TestAdvisorRecordsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := metrics.NewRegistry()
	text, _ := newAdvisor(m).Explain(context.Background(), intelligence.NewOllamaProvider(srv.URL, ""), sampleContext)

	assert.Equal(t, "Failed to generate explanation via Ollama (Local).", text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("ollama", "explain", "error")))
}

func TestAdvisorRateLimit(t *testing.T) {
	a := intelligence.NewAdvisor(intelligence.NewRegistry(), intelligence.WithRateLimit(1), intelligence.WithRetry(fastRetry()))
	p := &fakeProvider{configured: true, text: "ok"}

	text, _ := a.Explain(context.Background(), p, sampleContext)
	require.Equal(t, "ok", text)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	text, _ = a.Explain(ctx, p, sampleContext)
	assert.Equal(t, "Failed to generate explanation via Fake.", text)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestAdvisorProviderFallback(t *testing.T) {
	a := intelligence.NewAdvisor(intelligence.NewRegistry(
		intelligence.NewGeminiProvider("", ""),
		intelligence.NewOllamaProvider("", ""),
	))
	assert.Equal(t, "gemini", a.Provider("unknown").ID())
	assert.Len(t, a.Providers(), 2)
}
