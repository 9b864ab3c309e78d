package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/signalnine/algolens/internal/metrics"
	"github.com/signalnine/algolens/internal/retry"
	"github.com/signalnine/algolens/pkg/complexity"
)

// Advisor asks providers for explanations, suggestions and traces. None of
// its methods return an error: failures become placeholder text.
type Advisor struct {
	registry *Registry
	logger   *zap.Logger
	metrics  *metrics.Registry
	retry    retry.Config
	rpm      int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

type Option func(*Advisor)

func WithLogger(l *zap.Logger) Option {
	return func(a *Advisor) { a.logger = l }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(a *Advisor) { a.metrics = m }
}

func WithRetry(cfg retry.Config) Option {
	return func(a *Advisor) { a.retry = cfg }
}

// WithRateLimit caps calls per provider per minute. Zero means unlimited.
func WithRateLimit(requestsPerMinute int) Option {
	return func(a *Advisor) { a.rpm = requestsPerMinute }
}

func NewAdvisor(reg *Registry, opts ...Option) *Advisor {
	a := &Advisor{
		registry: reg,
		logger:   zap.NewNop(),
		retry:    retry.DefaultConfig(),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider resolves id through the registry, falling back to the default.
func (a *Advisor) Provider(id string) Provider {
	return a.registry.Get(id)
}

func (a *Advisor) Providers() []Provider {
	return a.registry.Available()
}

func (a *Advisor) limiter(id string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l, ok := a.limiters[id]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Inf, 0)
	if a.rpm > 0 {
		burst := a.rpm / 10
		if burst < 1 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(a.rpm)), burst)
	}
	a.limiters[id] = l
	return l
}

func (a *Advisor) generate(ctx context.Context, p Provider, op string, prompt Prompt) (*Generation, error) {
	start := time.Now()
	if !p.IsConfigured() {
		a.metrics.RecordProviderCall(p.ID(), op, "unconfigured", 0, 0, 0)
		return nil, ErrNotConfigured
	}

	var gen *Generation
	lim := a.limiter(p.ID())
	err := retry.Do(ctx, a.retry, p.ID()+"."+op, a.logger, func(int) error {
		if err := lim.Wait(ctx); err != nil {
			return err
		}
		g, err := p.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		gen = g
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		a.metrics.RecordProviderCall(p.ID(), op, "error", elapsed, 0, 0)
		a.logger.Warn("provider call failed",
			zap.String("provider", p.ID()),
			zap.String("operation", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}
	gen.Usage.Model = gen.Model
	a.metrics.RecordProviderCall(p.ID(), op, "ok", elapsed, gen.Usage.InputTokens, gen.Usage.OutputTokens)
	a.logger.Debug("provider call",
		zap.String("provider", p.ID()),
		zap.String("operation", op),
		zap.String("model", gen.Model),
		zap.Duration("elapsed", elapsed),
		zap.Int("input_tokens", gen.Usage.InputTokens),
		zap.Int("output_tokens", gen.Usage.OutputTokens))
	return gen, nil
}

// Explain asks p why the code behaves the way the judgment says.
func (a *Advisor) Explain(ctx context.Context, p Provider, c Context) (string, Usage) {
	gen, err := a.generate(ctx, p, "explain", explainPrompt(c))
	switch {
	case errors.Is(err, ErrNotConfigured):
		return fmt.Sprintf("%s is not configured. Cannot generate explanation.", p.Name()), Usage{}
	case err != nil:
		return fmt.Sprintf("Failed to generate explanation via %s.", p.Name()), Usage{}
	}
	text := strings.TrimSpace(gen.Text)
	if text == "" {
		return "No explanation generated.", gen.Usage
	}
	return text, gen.Usage
}

// Suggest asks p for one to three optimization ideas.
func (a *Advisor) Suggest(ctx context.Context, p Provider, c Context) ([]string, Usage) {
	gen, err := a.generate(ctx, p, "suggest", suggestPrompt(c))
	switch {
	case errors.Is(err, ErrNotConfigured):
		return []string{fmt.Sprintf("%s is not configured. Cannot generate suggestions.", p.Name())}, Usage{}
	case err != nil:
		return []string{fmt.Sprintf("Failed to generate suggestions via %s.", p.Name())}, Usage{}
	}
	items := ParseSuggestions(gen.Text)
	if len(items) == 0 {
		return []string{"No suggestions generated."}, gen.Usage
	}
	return items, gen.Usage
}

// Trace asks p to simulate running code on input. A failed trace has no
// steps and a human-readable Error.
func (a *Advisor) Trace(ctx context.Context, p Provider, code, input string, lang complexity.Language) (TraceResult, Usage) {
	empty := []TraceStep{}
	gen, err := a.generate(ctx, p, "trace", tracePrompt(code, input, lang))
	switch {
	case errors.Is(err, ErrNotConfigured):
		return TraceResult{Steps: empty, Error: fmt.Sprintf("%s is not configured. Cannot generate trace.", p.Name())}, Usage{}
	case err != nil:
		return TraceResult{Steps: empty, Error: fmt.Sprintf("Failed to generate trace via %s.", p.Name())}, Usage{}
	}
	if strings.TrimSpace(gen.Text) == "" {
		return TraceResult{Steps: empty, Error: "No trace generated."}, gen.Usage
	}
	steps, err := ParseTrace(gen.Text)
	if err != nil {
		a.logger.Warn("unparsable trace", zap.String("provider", p.ID()), zap.Error(err))
		return TraceResult{Steps: empty, Error: fmt.Sprintf("Failed to generate trace via %s.", p.Name())}, gen.Usage
	}
	return TraceResult{Steps: steps}, gen.Usage
}
